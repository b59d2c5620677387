package render

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var errNoImage = errors.New("texture has no image")

// Canvas is a software frame target.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas of size.
func NewCanvas(size image.Point) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rectangle{Max: size})}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() image.Point { return c.img.Rect.Size() }

// Image exposes the composed pixels.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Clear fills rect with col, replacing whatever was there.
func (c *Canvas) Clear(col color.Color, rect image.Rectangle) {
	draw.Draw(c.img, rect.Intersect(c.img.Rect), image.NewUniform(col), image.Point{}, draw.Src)
}

// Draw composites tex.Src onto dst, scaling when sizes differ, restricted to
// clip.
func (c *Canvas) Draw(tex Texture, dst, clip image.Rectangle) error {
	if tex.Image == nil {
		return errNoImage
	}
	src := tex.Src
	if src.Empty() {
		src = tex.Image.Bounds()
	}
	clip = clip.Intersect(c.img.Rect)
	if dst.Empty() || clip.Empty() {
		return nil
	}

	// SubImage shares pixels, and both draw paths clip to its bounds.
	target := c.img.SubImage(clip).(*image.RGBA)
	if src.Size() == dst.Size() {
		draw.Draw(target, dst, tex.Image, src.Min, draw.Over)
		return nil
	}
	draw.ApproxBiLinear.Scale(target, dst, tex.Image, src, draw.Over, nil)
	return nil
}
