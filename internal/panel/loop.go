package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bnema/yarrbar/internal/logger"
)

// Handler consumes translated compositor events.
type Handler interface {
	Handle(ev Event) error
}

// EventSource delivers compositor events in arrival order.
type EventSource interface {
	// Dispatch blocks until the next batch of events is available and hands
	// each of them to h. It returns the first error h reported, a
	// connection error, or ErrInterrupted after Close.
	Dispatch(h Handler) error
	Close() error
}

// Options wires a panel to its collaborators.
type Options struct {
	Surface    ShellSurface
	Seat       Seat
	Backend    Backend
	Painter    Painter
	Placement  Placement
	Fallback   image.Point
	Scale      float32
	Background color.Color
	CancelKey  uint32
}

// Panel owns the panel state and the components mutating it.
type Panel struct {
	state    State
	surface  ShellSurface
	backend  Backend
	tracker  *Tracker
	nego     *Negotiator
	router   *Router
	pipeline *Pipeline
	released bool
}

// New issues the surface placement and returns an unconfigured panel.
func New(opts Options) (*Panel, error) {
	if opts.Surface == nil || opts.Backend == nil || opts.Painter == nil {
		return nil, errors.New("panel: surface, backend and painter are required")
	}
	nego, err := NewNegotiator(opts.Surface, opts.Placement, opts.Fallback)
	if err != nil {
		return nil, err
	}
	return &Panel{
		state:    NewState(opts.Surface.ID(), nego.Fallback()),
		surface:  opts.Surface,
		backend:  opts.Backend,
		tracker:  NewTracker(opts.Seat),
		nego:     nego,
		router:   NewRouter(opts.CancelKey),
		pipeline: NewPipeline(opts.Backend, opts.Painter, opts.Scale, opts.Background),
	}, nil
}

// State exposes the panel state for inspection.
func (p *Panel) State() *State { return &p.state }

// Cycles returns the number of render cycles completed.
func (p *Panel) Cycles() uint64 { return p.pipeline.Cycles() }

// Handle routes one event to the component responsible for it.
func (p *Panel) Handle(ev Event) error {
	st := &p.state

	switch ev := ev.(type) {
	case OutputEvent:
		p.output(ev)
	case SeatEvent:
		return p.tracker.Handle(st, ev)
	case SurfaceEvent:
		render, err := p.nego.Handle(st, ev)
		if err != nil || !render {
			return err
		}
		return p.pipeline.Render(st)
	case KeyboardEvent:
		p.router.Keyboard(st, ev)
	case PointerEvent:
		p.router.Pointer(st, ev)
	default:
		return fmt.Errorf("%w: unhandled event %T", ErrProtocolDesync, ev)
	}
	return nil
}

func (p *Panel) output(ev OutputEvent) {
	o := ev.Output
	switch ev.Kind {
	case OutputAdded:
		logger.Info("New output", "name", o.Name, "width", o.Width, "height", o.Height, "scale", o.Scale)
		p.state.outputs[o.ID] = o
	case OutputUpdated:
		p.state.outputs[o.ID] = o
	case OutputRemoved:
		logger.Info("Output removed", "name", o.Name)
		delete(p.state.outputs, o.ID)
	}
}

// Run dispatches events from src until the termination flag is set or a
// fatal error occurs, then releases every owned resource.
func (p *Panel) Run(src EventSource) error {
	defer p.Release()

	for {
		if err := src.Dispatch(p); err != nil {
			if errors.Is(err, ErrInterrupted) {
				logger.Info("Interrupted, exiting yarrbar")
				return nil
			}
			return fatal(err)
		}
		if p.state.Exiting() {
			logger.Info("Exiting yarrbar")
			return nil
		}
	}
}

// Release drops device handles, the render context and the surface. It is
// safe to call more than once.
func (p *Panel) Release() {
	if p.released {
		return
	}
	p.released = true

	p.tracker.ReleaseAll(&p.state)
	if err := p.backend.Release(); err != nil {
		logger.Warn("Release render backend", "err", err)
	}
	if err := p.surface.Destroy(); err != nil {
		logger.Warn("Destroy panel surface", "err", err)
	}
}
