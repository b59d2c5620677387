// Package render holds the software side of the frame: the canvas frames are
// composed on, the textures the UI layer produces, damage tracking and the
// shared memory that carries pixels to the compositor.
package render

import (
	"image"
)

// Texture is a painted UI image. Src selects the pixels of Image to use and
// Placement positions them in logical coordinates.
type Texture struct {
	Image     image.Image
	Src       image.Rectangle
	Placement image.Rectangle
}

// NewTexture wraps img placed over its whole bounds at logical rect.
func NewTexture(img image.Image, placement image.Rectangle) Texture {
	return Texture{Image: img, Src: img.Bounds(), Placement: placement}
}

// Geometry returns the placement in pixels for scale.
func (t Texture) Geometry(scale float32) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	return image.Rect(
		int(float32(t.Placement.Min.X)*scale),
		int(float32(t.Placement.Min.Y)*scale),
		int(float32(t.Placement.Max.X)*scale),
		int(float32(t.Placement.Max.Y)*scale),
	)
}
