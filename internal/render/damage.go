package render

import (
	"bytes"
	"image"
)

// Damage returns the bounding box of the pixels that differ between prev and
// cur. A nil prev, or one of another size, damages all of cur.
func Damage(prev, cur *image.RGBA) image.Rectangle {
	if prev == nil || prev.Rect != cur.Rect {
		return cur.Rect
	}

	box := image.Rectangle{}
	rowBytes := cur.Rect.Dx() * 4
	for y := cur.Rect.Min.Y; y < cur.Rect.Max.Y; y++ {
		po := prev.PixOffset(prev.Rect.Min.X, y)
		co := cur.PixOffset(cur.Rect.Min.X, y)
		prow := prev.Pix[po : po+rowBytes]
		crow := cur.Pix[co : co+rowBytes]
		if bytes.Equal(prow, crow) {
			continue
		}

		first, last := 0, rowBytes/4-1
		for first <= last && bytes.Equal(prow[first*4:first*4+4], crow[first*4:first*4+4]) {
			first++
		}
		for last > first && bytes.Equal(prow[last*4:last*4+4], crow[last*4:last*4+4]) {
			last--
		}
		row := image.Rect(cur.Rect.Min.X+first, y, cur.Rect.Min.X+last+1, y+1)
		box = box.Union(row)
	}
	return box
}

// Tracker remembers the last submitted frame so the next one can be
// submitted with only its changed region damaged.
type Tracker struct {
	prev *image.RGBA
}

// Next records cur as submitted and returns its damage against the previous
// frame.
func (t *Tracker) Next(cur *image.RGBA) image.Rectangle {
	box := Damage(t.prev, cur)
	if t.prev == nil || t.prev.Rect != cur.Rect {
		t.prev = image.NewRGBA(cur.Rect)
	}
	copy(t.prev.Pix, cur.Pix)
	return box
}

// Reset forgets the previous frame, forcing full damage next time.
func (t *Tracker) Reset() { t.prev = nil }
