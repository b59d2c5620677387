package ui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/render"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const segmentGap = 12

// SoftwarePainter draws the bar with a fixed bitmap face. It paints at
// logical size and leaves scaling to the compositing step.
type SoftwarePainter struct {
	opts Options
	face font.Face
	img  *image.RGBA
}

// NewSoftwarePainter returns a CPU-only painter.
func NewSoftwarePainter(opts Options) *SoftwarePainter {
	return &SoftwarePainter{opts: opts, face: basicfont.Face7x13}
}

// Paint implements panel.Painter.
func (p *SoftwarePainter) Paint(region image.Rectangle, scale float32, view panel.View) (render.Texture, error) {
	size := region.Size()
	if p.img == nil || p.img.Rect.Size() != size {
		p.img = image.NewRGBA(image.Rectangle{Max: size})
	} else {
		draw.Draw(p.img, p.img.Rect, image.Transparent, image.Point{}, draw.Src)
	}

	bar := Compose(view, p.opts)
	m := p.face.Metrics()
	baseline := (fixed.I(size.Y) + m.Ascent - m.Descent) / 2

	x := fixed.I(segmentGap / 2)
	for _, s := range bar.Left {
		x = p.text(s, x, baseline) + fixed.I(segmentGap)
	}

	clockW := font.MeasureString(p.face, bar.Right.Text)
	p.text(bar.Right, fixed.I(size.X-segmentGap/2)-clockW, baseline)

	return render.NewTexture(p.img, region), nil
}

func (p *SoftwarePainter) text(s Segment, x, baseline fixed.Int26_6) fixed.Int26_6 {
	var c color.Color = p.opts.Foreground
	if s.Accent {
		c = p.opts.Accent
	}
	d := font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot:  fixed.Point26_6{X: x, Y: baseline},
	}
	d.DrawString(s.Text)
	return d.Dot.X
}

// Release is a no-op; the painter holds no external resources.
func (p *SoftwarePainter) Release() {}
