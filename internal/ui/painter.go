package ui

import (
	"fmt"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
)

// Painter is a panel.Painter owning resources released on exit.
type Painter interface {
	panel.Painter
	Release()
}

// New returns the painter selected by renderer: "gpu", "software", or
// "auto" which prefers the GPU and falls back to software.
func New(renderer string, opts Options) (Painter, error) {
	switch renderer {
	case "software":
		return NewSoftwarePainter(opts), nil
	case "gpu":
		p, err := NewGioPainter(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "auto", "":
		p, err := NewGioPainter(opts)
		if err != nil {
			logger.Warn("GPU painter unavailable, using software rendering", "err", err)
			return NewSoftwarePainter(opts), nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", renderer)
	}
}
