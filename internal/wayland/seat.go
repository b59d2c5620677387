package wayland

import (
	"fmt"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/rajveermalviya/go-wayland/wayland/client"
	"golang.org/x/sys/unix"
)

const (
	keyStatePressed    = 1
	buttonStatePressed = 1
)

// Seat hands out keyboard and pointer devices of a wl_seat. It remembers
// which surface holds keyboard focus and which one is under the pointer, so
// that key and motion events can be attributed.
type Seat struct {
	c       *Client
	seat    *client.Seat
	version uint32
	name    string

	keyboardFocus panel.SurfaceID
	pointerFocus  panel.SurfaceID
}

func newSeat(c *Client, seat *client.Seat, version uint32) *Seat {
	s := &Seat{c: c, seat: seat, version: version}
	seat.SetNameHandler(func(e client.SeatNameEvent) {
		s.name = e.Name
	})
	seat.SetCapabilitiesHandler(func(e client.SeatCapabilitiesEvent) {
		caps := panel.Capabilities(e.Capabilities)
		logger.Debug("Seat capabilities", "seat", s.name,
			"keyboard", caps.Has(panel.KindKeyboard), "pointer", caps.Has(panel.KindPointer))
		c.emit(panel.SeatEvent{Kind: panel.SeatCapabilities, Name: s.name, Capabilities: caps})
	})
	return s
}

// release drops the wl_seat after its global went away. Before version 5
// the proxy cannot be destroyed and stays registered.
func (s *Seat) release() {
	if s.seat == nil {
		return
	}
	if s.version >= seatReleaseVersion {
		if err := s.seat.Release(); err != nil {
			logger.Debug("Release seat", "seat", s.name, "err", err)
		}
	}
	s.seat = nil
}

// Acquire implements panel.Seat.
func (s *Seat) Acquire(kind panel.DeviceKind) (panel.Device, error) {
	if s.seat == nil {
		return nil, fmt.Errorf("seat %q was removed", s.name)
	}
	switch kind {
	case panel.KindKeyboard:
		kb, err := s.seat.GetKeyboard()
		if err != nil {
			return nil, err
		}
		s.keyboardHandlers(kb)
		return &device{kind: kind, release: func() error {
			s.keyboardFocus = 0
			return kb.Release()
		}}, nil
	case panel.KindPointer:
		ptr, err := s.seat.GetPointer()
		if err != nil {
			return nil, err
		}
		s.pointerHandlers(ptr)
		return &device{kind: kind, release: func() error {
			s.pointerFocus = 0
			return ptr.Release()
		}}, nil
	}
	return nil, fmt.Errorf("unsupported device kind %s", kind)
}

func (s *Seat) keyboardHandlers(kb *client.Keyboard) {
	emit := s.c.emit

	kb.SetKeymapHandler(func(e client.KeyboardKeymapEvent) {
		// Keys are matched by evdev code; the keymap itself is not needed.
		if err := unix.Close(e.Fd); err != nil {
			logger.Debug("Close keymap fd", "err", err)
		}
	})
	kb.SetEnterHandler(func(e client.KeyboardEnterEvent) {
		s.keyboardFocus = surfaceID(e.Surface)
		emit(panel.KeyboardEvent{Kind: panel.KeyboardEnter, Surface: s.keyboardFocus, Held: keys(e.Keys)})
	})
	kb.SetLeaveHandler(func(e client.KeyboardLeaveEvent) {
		emit(panel.KeyboardEvent{Kind: panel.KeyboardLeave, Surface: surfaceID(e.Surface)})
		s.keyboardFocus = 0
	})
	kb.SetKeyHandler(func(e client.KeyboardKeyEvent) {
		emit(panel.KeyboardEvent{
			Kind:    panel.KeyboardKey,
			Surface: s.keyboardFocus,
			Key:     e.Key,
			Pressed: e.State == keyStatePressed,
		})
	})
	kb.SetModifiersHandler(func(e client.KeyboardModifiersEvent) {
		emit(panel.KeyboardEvent{
			Kind:    panel.KeyboardModifiers,
			Surface: s.keyboardFocus,
			Modifiers: panel.Modifiers{
				Depressed: e.ModsDepressed,
				Latched:   e.ModsLatched,
				Locked:    e.ModsLocked,
				Group:     e.Group,
			},
		})
	})
}

func (s *Seat) pointerHandlers(ptr *client.Pointer) {
	emit := s.c.emit

	ptr.SetEnterHandler(func(e client.PointerEnterEvent) {
		s.pointerFocus = surfaceID(e.Surface)
		emit(panel.PointerEvent{Kind: panel.PointerEnter, Surface: s.pointerFocus, X: e.SurfaceX, Y: e.SurfaceY})
	})
	ptr.SetLeaveHandler(func(e client.PointerLeaveEvent) {
		emit(panel.PointerEvent{Kind: panel.PointerLeave, Surface: surfaceID(e.Surface)})
		s.pointerFocus = 0
	})
	var x, y float64
	ptr.SetMotionHandler(func(e client.PointerMotionEvent) {
		x, y = e.SurfaceX, e.SurfaceY
		emit(panel.PointerEvent{Kind: panel.PointerMotion, Surface: s.pointerFocus, X: x, Y: y})
	})
	ptr.SetButtonHandler(func(e client.PointerButtonEvent) {
		emit(panel.PointerEvent{
			Kind:    panel.PointerButton,
			Surface: s.pointerFocus,
			X:       x,
			Y:       y,
			Button:  e.Button,
			Pressed: e.State == buttonStatePressed,
		})
	})
	ptr.SetAxisHandler(func(e client.PointerAxisEvent) {
		axis := panel.AxisVertical
		if e.Axis == uint32(client.PointerAxisHorizontalScroll) {
			axis = panel.AxisHorizontal
		}
		emit(panel.PointerEvent{Kind: panel.PointerAxis, Surface: s.pointerFocus, Axis: axis, Value: e.Value})
	})
}

type device struct {
	kind    panel.DeviceKind
	release func() error
}

func (d *device) Kind() panel.DeviceKind { return d.kind }

func (d *device) Release() error { return d.release() }

func surfaceID(s *client.Surface) panel.SurfaceID {
	if s == nil {
		return 0
	}
	return panel.SurfaceID(s.ID())
}

// keys decodes a wl_array of uint32 key codes.
func keys(raw []byte) []uint32 {
	out := make([]uint32, 0, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		out = append(out, client.Uint32(raw[i : i+4]))
	}
	return out
}
