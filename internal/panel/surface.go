package panel

import (
	"fmt"
	"image"

	"github.com/bnema/yarrbar/internal/logger"
)

// Layer is the shell layer the panel lives on.
type Layer uint32

const (
	LayerBackground Layer = 0
	LayerBottom     Layer = 1
	LayerTop        Layer = 2
	LayerOverlay    Layer = 3
)

// ParseLayer maps a layer name; unknown names give LayerTop.
func ParseLayer(name string) Layer {
	switch name {
	case "background":
		return LayerBackground
	case "bottom":
		return LayerBottom
	case "overlay":
		return LayerOverlay
	default:
		return LayerTop
	}
}

// Anchor is a bitmask of output edges.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
)

// Interactivity controls whether the panel can take keyboard focus.
type Interactivity uint32

const (
	InteractivityNone      Interactivity = 0
	InteractivityExclusive Interactivity = 1
	InteractivityOnDemand  Interactivity = 2
)

// ParseInteractivity maps an interactivity name; unknown names give
// InteractivityOnDemand.
func ParseInteractivity(name string) Interactivity {
	switch name {
	case "none":
		return InteractivityNone
	case "exclusive":
		return InteractivityExclusive
	default:
		return InteractivityOnDemand
	}
}

// Placement is the request issued once when the shell surface is created.
type Placement struct {
	Namespace     string
	Layer         Layer
	Anchor        Anchor
	Width         uint32
	Height        uint32
	ExclusiveZone int32
	Margin        int32
	Keyboard      Interactivity
}

// ShellSurface is the compositor-side panel surface.
type ShellSurface interface {
	ID() SurfaceID
	// Place sends the placement requests and commits the surface.
	Place(p Placement) error
	AckConfigure(serial uint32) error
	Destroy() error
}

// fallbackEdge is the default substitute for a zero configure dimension.
const fallbackEdge = 256

// DefaultFallback returns the size used for zero configure dimensions when
// no other fallback is configured.
func DefaultFallback() image.Point { return image.Pt(fallbackEdge, fallbackEdge) }

// Negotiator runs the configure handshake of the panel surface.
type Negotiator struct {
	surface  ShellSurface
	fallback image.Point
	closed   bool
}

// NewNegotiator issues placement on surface and returns the negotiator in
// the unconfigured state.
func NewNegotiator(surface ShellSurface, p Placement, fallback image.Point) (*Negotiator, error) {
	if fallback.X <= 0 || fallback.Y <= 0 {
		fallback = DefaultFallback()
	}
	if err := surface.Place(p); err != nil {
		return nil, fmt.Errorf("place surface: %w", err)
	}
	logger.Debug("Requested placement",
		"namespace", p.Namespace, "anchor", p.Anchor,
		"size", fmt.Sprintf("%dx%d", p.Width, p.Height), "exclusive", p.ExclusiveZone)
	return &Negotiator{surface: surface, fallback: fallback}, nil
}

// Handle applies a surface event to st and reports whether it calls for a
// render cycle.
func (n *Negotiator) Handle(st *State, ev SurfaceEvent) (bool, error) {
	if ev.Surface != st.Surface() {
		return false, nil
	}
	if n.closed {
		return false, nil
	}

	switch ev.Kind {
	case SurfaceConfigure:
		return n.configure(st, ev)
	case SurfaceClosed:
		logger.Info("Panel surface closed by compositor")
		n.closed = true
		st.Terminate()
		return false, nil
	case SurfaceFrame:
		return st.Configured() && !st.Exiting(), nil
	}
	return false, fmt.Errorf("%w: surface event kind %d", ErrProtocolDesync, ev.Kind)
}

func (n *Negotiator) configure(st *State, ev SurfaceEvent) (bool, error) {
	if err := n.surface.AckConfigure(ev.Serial); err != nil {
		return false, fmt.Errorf("%w: ack configure %d: %v", ErrProtocolDesync, ev.Serial, err)
	}

	size := image.Pt(int(ev.Width), int(ev.Height))
	if ev.Width == 0 || ev.Height == 0 {
		size = n.fallback
	}

	first := !st.configured
	st.size = size
	st.configured = true
	logger.Debug("Configured", "serial", ev.Serial, "width", size.X, "height", size.Y, "first", first)

	return first && !st.Exiting(), nil
}

// Fallback returns the size used for zero configure dimensions.
func (n *Negotiator) Fallback() image.Point { return n.fallback }
