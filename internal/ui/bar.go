// Package ui is the immediate-mode layer of the panel: it turns a snapshot
// of the panel state into a texture for the render pipeline.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/bnema/yarrbar/internal/panel"
)

// Options configure both painters.
type Options struct {
	Title       string
	ClockFormat string
	Foreground  color.NRGBA
	Accent      color.NRGBA
	// Now supplies the clock; time.Now when nil.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Segment is one piece of text on the bar.
type Segment struct {
	Text   string
	Accent bool
}

// Bar is the laid-out content of one frame: segments packed from the left
// edge and a clock on the right.
type Bar struct {
	Left  []Segment
	Right Segment
}

// Compose derives the bar content from the panel view.
func Compose(view panel.View, opts Options) Bar {
	title := opts.Title
	if title == "" {
		title = "yarrbar"
	}
	bar := Bar{Left: []Segment{{Text: title, Accent: true}}}

	if view.KeyboardFocus {
		bar.Left = append(bar.Left, Segment{Text: "[kbd]", Accent: true})
	}
	if view.Shift.Set {
		bar.Left = append(bar.Left, Segment{Text: "[shift]", Accent: true})
	}
	if view.PointerInside {
		bar.Left = append(bar.Left, Segment{Text: fmt.Sprintf("@%d,%d", view.PointerAt.X, view.PointerAt.Y)})
	}
	if len(view.Outputs) > 0 {
		names := make([]string, 0, len(view.Outputs))
		for _, o := range view.Outputs {
			name := o.Name
			if name == "" {
				name = fmt.Sprintf("#%d", o.ID)
			}
			names = append(names, fmt.Sprintf("%s %dx%d", name, o.Width, o.Height))
		}
		bar.Left = append(bar.Left, Segment{Text: strings.Join(names, " | ")})
	}

	format := opts.ClockFormat
	if format == "" {
		format = "15:04:05"
	}
	bar.Right = Segment{Text: opts.now().Format(format)}
	return bar
}

func (b Bar) String() string {
	parts := make([]string, 0, len(b.Left)+1)
	for _, s := range b.Left {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "  ") + "  " + b.Right.Text
}

// physical returns the pixel size of region at scale.
func physical(region image.Rectangle, scale float32) image.Point {
	if scale <= 0 {
		scale = 1
	}
	return image.Pt(int(float32(region.Dx())*scale), int(float32(region.Dy())*scale))
}
