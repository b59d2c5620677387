package wayland

import (
	"fmt"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/protocols"
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// LayerSurface is a wl_surface given the layer-shell role. It implements
// panel.ShellSurface.
type LayerSurface struct {
	c       *Client
	surface *client.Surface
	layer   *protocols.LayerSurface
	id      panel.SurfaceID
}

// CreateLayerSurface creates the panel surface on the compositor's preferred
// output. The layer and namespace are fixed at creation; the remaining
// placement is sent by Place.
func (c *Client) CreateLayerSurface(p panel.Placement) (*LayerSurface, error) {
	if err := c.RequireShell(); err != nil {
		return nil, err
	}

	surface, err := c.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	layer, err := c.layerShell.GetLayerSurface(surface, nil, shellLayer(p.Layer), p.Namespace)
	if err != nil {
		_ = surface.Destroy()
		return nil, fmt.Errorf("get layer surface: %w", err)
	}

	ls := &LayerSurface{c: c, surface: surface, layer: layer, id: panel.SurfaceID(surface.ID())}
	layer.SetConfigureHandler(func(e protocols.LayerSurfaceConfigureEvent) {
		c.emit(panel.SurfaceEvent{
			Kind:    panel.SurfaceConfigure,
			Surface: ls.id,
			Serial:  e.Serial,
			Width:   e.Width,
			Height:  e.Height,
		})
	})
	layer.SetClosedHandler(func(protocols.LayerSurfaceClosedEvent) {
		c.emit(panel.SurfaceEvent{Kind: panel.SurfaceClosed, Surface: ls.id})
	})
	return ls, nil
}

// ID implements panel.ShellSurface.
func (s *LayerSurface) ID() panel.SurfaceID { return s.id }

// Place implements panel.ShellSurface. The initial commit carries no buffer,
// which asks the compositor for the first configure.
func (s *LayerSurface) Place(p panel.Placement) error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"size", func() error { return s.layer.SetSize(p.Width, p.Height) }},
		{"anchor", func() error { return s.layer.SetAnchor(shellAnchor(p.Anchor)) }},
		{"exclusive zone", func() error { return s.layer.SetExclusiveZone(p.ExclusiveZone) }},
		{"margin", func() error { return s.layer.SetMargin(p.Margin, p.Margin, p.Margin, p.Margin) }},
		{"keyboard interactivity", func() error { return s.layer.SetKeyboardInteractivity(shellInteractivity(p.Keyboard)) }},
		{"commit", s.surface.Commit},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// AckConfigure implements panel.ShellSurface.
func (s *LayerSurface) AckConfigure(serial uint32) error {
	return s.layer.AckConfigure(serial)
}

// Destroy implements panel.ShellSurface.
func (s *LayerSurface) Destroy() error {
	var first error
	if s.layer != nil {
		first = s.layer.Destroy()
		s.layer = nil
	}
	if s.surface != nil {
		if err := s.surface.Destroy(); err != nil && first == nil {
			first = err
		}
		s.surface = nil
	}
	logger.Debug("Panel surface destroyed", "surface", s.id)
	return first
}

// requestFrame asks for a frame callback on the next commit.
func (s *LayerSurface) requestFrame() error {
	cb, err := s.surface.Frame()
	if err != nil {
		return err
	}
	cb.SetDoneHandler(func(client.CallbackDoneEvent) {
		s.c.emit(panel.SurfaceEvent{Kind: panel.SurfaceFrame, Surface: s.id})
		s.c.ctx.Unregister(cb)
	})
	return nil
}

func shellLayer(l panel.Layer) uint32 {
	switch l {
	case panel.LayerBackground:
		return protocols.LayerBackground
	case panel.LayerBottom:
		return protocols.LayerBottom
	case panel.LayerOverlay:
		return protocols.LayerOverlay
	default:
		return protocols.LayerTop
	}
}

func shellAnchor(a panel.Anchor) uint32 {
	var edges uint32
	for _, e := range []struct {
		edge panel.Anchor
		wire uint32
	}{
		{panel.AnchorTop, protocols.AnchorTop},
		{panel.AnchorBottom, protocols.AnchorBottom},
		{panel.AnchorLeft, protocols.AnchorLeft},
		{panel.AnchorRight, protocols.AnchorRight},
	} {
		if a&e.edge != 0 {
			edges |= e.wire
		}
	}
	return edges
}

func shellInteractivity(k panel.Interactivity) uint32 {
	switch k {
	case panel.InteractivityNone:
		return protocols.KeyboardInteractivityNone
	case panel.InteractivityExclusive:
		return protocols.KeyboardInteractivityExclusive
	default:
		return protocols.KeyboardInteractivityOnDemand
	}
}
