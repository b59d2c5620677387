package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/render"
)

// Backend is the rendering context the pipeline binds every cycle.
type Backend interface {
	// PhysicalSize returns the pixel size of the current render target.
	PhysicalSize() image.Point
	// Resize retargets the backend to size.
	Resize(size image.Point) error
	Bind() error
	BeginFrame(size image.Point) (Frame, error)
	// Submit hands the finished frame to the compositor.
	Submit(f Frame) error
	Release() error
}

// Frame is one frame being composed.
type Frame interface {
	Size() image.Point
	Clear(c color.Color, rect image.Rectangle)
	Draw(tex render.Texture, dst, clip image.Rectangle) error
}

// Painter is the UI layer. Paint receives the target region in logical
// coordinates and the scale mapping them to pixels.
type Painter interface {
	Paint(region image.Rectangle, scale float32, view View) (render.Texture, error)
}

var (
	errInFlight = errors.New("render cycle already in flight")
	errZeroSize = errors.New("zero-sized target")
)

// Pipeline runs bind, compose and submit for one frame at a time.
type Pipeline struct {
	backend    Backend
	painter    Painter
	scale      float32
	background color.Color

	inFlight bool
	last     image.Point
	cycles   uint64
}

// NewPipeline returns a pipeline drawing painter output over background.
func NewPipeline(backend Backend, painter Painter, scale float32, background color.Color) *Pipeline {
	if scale <= 0 {
		scale = 1
	}
	if background == nil {
		background = color.White
	}
	return &Pipeline{backend: backend, painter: painter, scale: scale, background: background}
}

// Cycles returns the number of submitted frames.
func (p *Pipeline) Cycles() uint64 { return p.cycles }

// Render produces and submits one frame for st.
func (p *Pipeline) Render(st *State) error {
	if p.inFlight {
		return renderErr(StageBind, errInFlight)
	}
	p.inFlight = true
	defer func() { p.inFlight = false }()

	size := st.Size()
	if size.X <= 0 || size.Y <= 0 {
		return renderErr(StageSize, errZeroSize)
	}
	if p.backend.PhysicalSize() != size {
		if err := p.backend.Resize(size); err != nil {
			return renderErr(StageSize, err)
		}
	}
	if phys := p.backend.PhysicalSize(); phys != size {
		return renderErr(StageSize, fmt.Errorf("backend size %v diverges from negotiated %v", phys, size))
	}

	tex, err := p.painter.Paint(LogicalRect(size, p.scale), p.scale, st.view(p.scale, p.cycles))
	if err != nil {
		return renderErr(StagePaint, err)
	}

	if err := p.backend.Bind(); err != nil {
		return renderErr(StageBind, err)
	}
	frame, err := p.backend.BeginFrame(size)
	if err != nil {
		return renderErr(StageBind, err)
	}

	full := image.Rectangle{Max: size}
	frame.Clear(p.background, full)
	if err := frame.Draw(tex, tex.Geometry(p.scale), full); err != nil {
		return renderErr(StageCompose, err)
	}

	if err := p.backend.Submit(frame); err != nil {
		return renderErr(StageSubmit, err)
	}

	if size != p.last {
		logger.Debug("Frame size changed", "from", p.last, "to", size)
		p.last = size
	}
	p.cycles++
	return nil
}

// LogicalRect converts a pixel size to the logical region seen by the UI.
func LogicalRect(size image.Point, scale float32) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	return image.Rect(0, 0, int(float32(size.X)/scale), int(float32(size.Y)/scale))
}
