package panel

// Event is one compositor-originated message translated for the panel. The
// set of implementations is closed: OutputEvent, SeatEvent, SurfaceEvent,
// KeyboardEvent and PointerEvent.
type Event interface {
	event()
}

// OutputKind enumerates display-topology changes.
type OutputKind uint8

const (
	OutputAdded OutputKind = iota
	OutputUpdated
	OutputRemoved
)

// OutputEvent reports an output appearing, changing or going away.
type OutputEvent struct {
	Kind   OutputKind
	Output Output
}

// SeatKind enumerates seat messages.
type SeatKind uint8

const (
	// SeatCapabilities carries the complete capability set of the seat.
	SeatCapabilities SeatKind = iota
	// SeatRemoved reports the seat global going away.
	SeatRemoved
)

// SeatEvent reports seat capability changes.
type SeatEvent struct {
	Kind         SeatKind
	Name         string
	Capabilities Capabilities
}

// SurfaceKind enumerates shell-surface messages.
type SurfaceKind uint8

const (
	SurfaceConfigure SurfaceKind = iota
	SurfaceClosed
	// SurfaceFrame is the compositor's frame callback.
	SurfaceFrame
)

// SurfaceEvent carries configure, closed and frame messages.
type SurfaceEvent struct {
	Kind    SurfaceKind
	Surface SurfaceID
	Serial  uint32
	Width   uint32
	Height  uint32
}

// KeyboardKind enumerates keyboard messages.
type KeyboardKind uint8

const (
	KeyboardEnter KeyboardKind = iota
	KeyboardLeave
	KeyboardKey
	KeyboardModifiers
)

// Modifiers is the serialized modifier state of a keyboard.
type Modifiers struct {
	Depressed uint32
	Latched   uint32
	Locked    uint32
	Group     uint32
}

// KeyboardEvent is a keyboard message. Key and modifier events carry the
// surface holding keyboard focus when they were sent.
type KeyboardEvent struct {
	Kind      KeyboardKind
	Surface   SurfaceID
	Key       uint32
	Pressed   bool
	Held      []uint32
	Modifiers Modifiers
}

// PointerKind enumerates pointer messages.
type PointerKind uint8

const (
	PointerEnter PointerKind = iota
	PointerLeave
	PointerMotion
	PointerButton
	PointerAxis
)

// Axis identifies a scroll axis.
type Axis uint8

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// PointerEvent is a pointer message. Motion, button and axis events carry
// the surface under the pointer when they were sent.
type PointerEvent struct {
	Kind    PointerKind
	Surface SurfaceID
	X, Y    float64
	Button  uint32
	Pressed bool
	Axis    Axis
	Value   float64
}

func (OutputEvent) event()   {}
func (SeatEvent) event()     {}
func (SurfaceEvent) event()  {}
func (KeyboardEvent) event() {}
func (PointerEvent) event()  {}

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceConfigure:
		return "configure"
	case SurfaceClosed:
		return "closed"
	case SurfaceFrame:
		return "frame"
	default:
		return "unknown"
	}
}

func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}
