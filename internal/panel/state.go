// Package panel implements the client-side state machine of the status bar:
// capability tracking, configure negotiation, input routing and the render
// cycle, all driven from a single dispatch loop.
package panel

import (
	"image"
	"sort"
)

// SurfaceID identifies a compositor-side surface. Zero never names a live
// surface.
type SurfaceID uint32

// ShiftSentinel is the value a pointer press toggles in and out of State.
const ShiftSentinel uint32 = 0

// Shift is an optional value flipped by pointer presses.
type Shift struct {
	Value uint32
	Set   bool
}

// Toggle exclusive-ors the shift against the sentinel: unset becomes set,
// anything set becomes unset.
func (s Shift) Toggle() Shift {
	if s.Set {
		return Shift{}
	}
	return Shift{Value: ShiftSentinel, Set: true}
}

// Output describes a display announced by the compositor.
type Output struct {
	ID     uint32
	Name   string
	Width  int32
	Height int32
	Scale  int32
}

// State is the aggregate owned by the dispatch loop. Components receive it by
// pointer only for the duration of the handler they run.
type State struct {
	surface  SurfaceID
	fallback image.Point
	size     image.Point

	configured bool
	exit       bool

	Shift         Shift
	KeyboardFocus bool

	// Transient pointer tracking.
	PointerInside bool
	PointerAt     image.Point

	keyboard Device
	pointer  Device

	outputs map[uint32]Output
}

// NewState returns an unconfigured state for surface using fallback as the
// requested size until the compositor decides.
func NewState(surface SurfaceID, fallback image.Point) State {
	return State{
		surface:  surface,
		fallback: fallback,
		outputs:  make(map[uint32]Output),
	}
}

// Surface returns the panel's own surface.
func (s *State) Surface() SurfaceID { return s.surface }

// Size returns the negotiated geometry, or the fallback before the first
// configuration.
func (s *State) Size() image.Point {
	if !s.configured {
		return s.fallback
	}
	return s.size
}

// Configured reports whether a configuration has been acknowledged.
func (s *State) Configured() bool { return s.configured }

// Exiting reports whether the termination flag is set.
func (s *State) Exiting() bool { return s.exit }

// Terminate sets the termination flag. It is never cleared.
func (s *State) Terminate() { s.exit = true }

// Keyboard returns the live keyboard handle, if any.
func (s *State) Keyboard() Device { return s.keyboard }

// Pointer returns the live pointer handle, if any.
func (s *State) Pointer() Device { return s.pointer }

// HasDevice reports whether a handle of kind is held.
func (s *State) HasDevice(kind DeviceKind) bool {
	return s.device(kind) != nil
}

func (s *State) device(kind DeviceKind) Device {
	switch kind {
	case KindKeyboard:
		return s.keyboard
	case KindPointer:
		return s.pointer
	}
	return nil
}

func (s *State) setDevice(kind DeviceKind, d Device) {
	switch kind {
	case KindKeyboard:
		s.keyboard = d
	case KindPointer:
		s.pointer = d
	}
}

// Outputs returns the known outputs ordered by ID.
func (s *State) Outputs() []Output {
	out := make([]Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View is the read-only snapshot handed to the UI layer.
type View struct {
	Size          image.Point
	Scale         float32
	KeyboardFocus bool
	Shift         Shift
	PointerInside bool
	PointerAt     image.Point
	Outputs       []Output
	Frame         uint64
}

func (s *State) view(scale float32, frame uint64) View {
	return View{
		Size:          s.Size(),
		Scale:         scale,
		KeyboardFocus: s.KeyboardFocus,
		Shift:         s.Shift,
		PointerInside: s.PointerInside,
		PointerAt:     s.PointerAt,
		Outputs:       s.Outputs(),
		Frame:         frame,
	}
}
