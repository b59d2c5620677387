package ui

import (
	"errors"
	"fmt"
	"image"

	"gioui.org/font/gofont"
	"gioui.org/gpu/headless"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/render"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var errEmptyRegion = errors.New("empty paint region")

// GioPainter lays the bar out with gio widgets and rasterizes it on the GPU
// through an offscreen window.
type GioPainter struct {
	opts  Options
	theme *material.Theme
	ops   op.Ops

	win  *headless.Window
	size image.Point
}

// NewGioPainter returns a GPU painter, or an error when no GPU context can
// be created.
func NewGioPainter(opts Options) (*GioPainter, error) {
	// Try once so callers can fall back before the first frame.
	win, err := headless.NewWindow(1, 1)
	if err != nil {
		return nil, fmt.Errorf("gpu context: %w", err)
	}
	win.Release()

	return &GioPainter{opts: opts, theme: newTheme(opts)}, nil
}

func newTheme(opts Options) *material.Theme {
	th := material.NewTheme(gofont.Collection())
	th.Palette.Fg = opts.Foreground
	th.Palette.ContrastBg = opts.Accent
	th.TextSize = unit.Sp(14)
	return th
}

// Paint implements panel.Painter.
func (p *GioPainter) Paint(region image.Rectangle, scale float32, view panel.View) (render.Texture, error) {
	size := physical(region, scale)
	if size.X <= 0 || size.Y <= 0 {
		return render.Texture{}, errEmptyRegion
	}
	if err := p.target(size); err != nil {
		return render.Texture{}, err
	}

	p.ops.Reset()
	gtx := layout.Context{
		Ops:         &p.ops,
		Constraints: layout.Exact(size),
		Metric:      unit.Metric{PxPerDp: scale, PxPerSp: scale},
		Now:         p.opts.now(),
	}
	p.layout(gtx, Compose(view, p.opts))

	if err := p.win.Frame(&p.ops); err != nil {
		return render.Texture{}, fmt.Errorf("gpu frame: %w", err)
	}
	img := image.NewRGBA(image.Rectangle{Max: size})
	if err := p.win.Screenshot(img); err != nil {
		return render.Texture{}, fmt.Errorf("gpu readback: %w", err)
	}
	return render.NewTexture(img, region), nil
}

// target keeps one offscreen window per physical size.
func (p *GioPainter) target(size image.Point) error {
	if p.win != nil && p.size == size {
		return nil
	}
	p.Release()
	win, err := headless.NewWindow(size.X, size.Y)
	if err != nil {
		return fmt.Errorf("gpu window %v: %w", size, err)
	}
	logger.Debug("GPU target allocated", "width", size.X, "height", size.Y)
	p.win, p.size = win, size
	return nil
}

func (p *GioPainter) layout(gtx C, bar Bar) D {
	children := make([]layout.FlexChild, 0, len(bar.Left)+2)
	for _, s := range bar.Left {
		children = append(children, layout.Rigid(p.label(s, unit.Dp(segmentGap))))
	}
	children = append(children,
		layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
		layout.Rigid(p.label(bar.Right, unit.Dp(0))),
	)

	return layout.Inset{Left: unit.Dp(segmentGap / 2), Right: unit.Dp(segmentGap / 2)}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

func (p *GioPainter) label(s Segment, gap unit.Dp) layout.Widget {
	return func(gtx C) D {
		l := material.Body1(p.theme, s.Text)
		l.MaxLines = 1
		if s.Accent {
			l.Color = p.theme.Palette.ContrastBg
		}
		return layout.Inset{Right: gap}.Layout(gtx, l.Layout)
	}
}

// Release frees the offscreen window.
func (p *GioPainter) Release() {
	if p.win != nil {
		p.win.Release()
		p.win = nil
	}
}
