package panel

import (
	"image"
	"math"

	"github.com/bnema/yarrbar/internal/logger"
)

// Router applies keyboard and pointer events addressed to the panel surface.
type Router struct {
	cancelKey uint32
}

// NewRouter returns a router that terminates on cancelKey.
func NewRouter(cancelKey uint32) *Router {
	return &Router{cancelKey: cancelKey}
}

// Keyboard applies a keyboard event to st.
func (r *Router) Keyboard(st *State, ev KeyboardEvent) {
	if ev.Surface != st.Surface() {
		return
	}

	switch ev.Kind {
	case KeyboardEnter:
		held := make([]string, 0, len(ev.Held))
		for _, k := range ev.Held {
			held = append(held, KeyName(k))
		}
		logger.Debug("Keyboard focus on panel", "held", held)
		st.KeyboardFocus = true
	case KeyboardLeave:
		logger.Debug("Release keyboard focus on panel")
		st.KeyboardFocus = false
	case KeyboardKey:
		if !ev.Pressed {
			logger.Debug("Key release", "key", KeyName(ev.Key))
			return
		}
		logger.Debug("Key press", "key", KeyName(ev.Key))
		if ev.Key == r.cancelKey {
			st.Terminate()
		}
	case KeyboardModifiers:
		logger.Debug("Update modifiers",
			"depressed", ev.Modifiers.Depressed, "latched", ev.Modifiers.Latched,
			"locked", ev.Modifiers.Locked, "group", ev.Modifiers.Group)
	}
}

// Pointer applies a pointer event to st.
func (r *Router) Pointer(st *State, ev PointerEvent) {
	if ev.Surface != st.Surface() {
		return
	}

	at := image.Pt(int(math.Floor(ev.X)), int(math.Floor(ev.Y)))
	switch ev.Kind {
	case PointerEnter:
		logger.Debug("Pointer entered", "x", ev.X, "y", ev.Y)
		st.PointerInside = true
		st.PointerAt = at
	case PointerLeave:
		logger.Debug("Pointer left")
		st.PointerInside = false
	case PointerMotion:
		st.PointerAt = at
	case PointerButton:
		if !ev.Pressed {
			logger.Debug("Release", "button", ButtonName(ev.Button), "x", ev.X, "y", ev.Y)
			return
		}
		logger.Debug("Press", "button", ButtonName(ev.Button), "x", ev.X, "y", ev.Y)
		st.Shift = st.Shift.Toggle()
	case PointerAxis:
		logger.Debug("Scroll", "axis", ev.Axis, "value", ev.Value)
	}
}
