package render

import (
	"fmt"
	"image"
)

// BytesPerPixel of the ARGB8888 buffers shared with the compositor.
const BytesPerPixel = 4

// Stride returns the row pitch of an ARGB8888 buffer of the given width.
func Stride(width int) int { return width * BytesPerPixel }

// PackARGB8888 copies rect of src into dst, laid out as little-endian
// ARGB8888 rows of stride bytes. Both formats are premultiplied.
func PackARGB8888(dst []byte, stride int, src *image.RGBA, rect image.Rectangle) error {
	rect = rect.Intersect(src.Rect)
	if rect.Empty() {
		return nil
	}
	need := (rect.Max.Y-1)*stride + rect.Max.X*BytesPerPixel
	if len(dst) < need {
		return fmt.Errorf("pack: buffer holds %d bytes, need %d", len(dst), need)
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		s := src.PixOffset(rect.Min.X, y)
		d := y*stride + rect.Min.X*BytesPerPixel
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst[d+0] = src.Pix[s+2] // B
			dst[d+1] = src.Pix[s+1] // G
			dst[d+2] = src.Pix[s+0] // R
			dst[d+3] = src.Pix[s+3] // A
			s += 4
			d += 4
		}
	}
	return nil
}
