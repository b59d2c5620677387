// Package protocols holds client bindings for the compositor protocol
// extensions the panel needs on top of the core Wayland interfaces.
package protocols

import (
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// LayerShellInterfaceName is the registry name of the layer shell global
const LayerShellInterfaceName = "zwlr_layer_shell_v1"

// Layer values of zwlr_layer_shell_v1.layer
const (
	LayerBackground uint32 = 0
	LayerBottom     uint32 = 1
	LayerTop        uint32 = 2
	LayerOverlay    uint32 = 3
)

// Anchor bits of zwlr_layer_surface_v1.anchor
const (
	AnchorTop    uint32 = 1
	AnchorBottom uint32 = 2
	AnchorLeft   uint32 = 4
	AnchorRight  uint32 = 8
)

// Keyboard interactivity values of zwlr_layer_surface_v1
const (
	KeyboardInteractivityNone      uint32 = 0
	KeyboardInteractivityExclusive uint32 = 1
	KeyboardInteractivityOnDemand  uint32 = 2
)

// LayerShell creates layer surfaces: desktop-shell components such as
// panels and backgrounds stacked in layers.
type LayerShell struct {
	client.BaseProxy
}

// NewLayerShell creates a layer shell proxy to be bound from the registry
func NewLayerShell(ctx *client.Context) *LayerShell {
	shell := &LayerShell{}
	ctx.Register(shell)
	return shell
}

// GetLayerSurface assigns the layer_surface role to surface. A nil output
// lets the compositor pick one.
func (s *LayerShell) GetLayerSurface(surface *client.Surface, output *client.Output, layer uint32, namespace string) (*LayerSurface, error) {
	ls := &LayerSurface{}
	s.Context().Register(ls)

	// Opcode 0: get_layer_surface
	const opcode = 0
	var outputID uint32
	if output != nil {
		outputID = output.ID()
	}

	w := newRequest(s.ID(), opcode)
	w.uint32(ls.ID())
	w.uint32(surface.ID())
	w.uint32(outputID)
	w.uint32(layer)
	w.string(namespace)
	if err := s.Context().WriteMsg(w.bytes(), nil); err != nil {
		s.Context().Unregister(ls)
		return nil, fmt.Errorf("get_layer_surface: %w", err)
	}
	return ls, nil
}

// Destroy destroys the layer shell object; existing surfaces stay valid
func (s *LayerShell) Destroy() error {
	// Opcode 1: destroy (since version 3)
	const opcode = 1
	err := s.Context().WriteMsg(newRequest(s.ID(), opcode).bytes(), nil)
	s.Context().Unregister(s)
	return err
}

// Dispatch handles incoming events (layer shell has no events)
func (s *LayerShell) Dispatch(_ uint32, _ int, _ []byte) {}

// LayerSurfaceConfigureEvent asks the client to resize. A zero dimension
// leaves the choice to the client.
type LayerSurfaceConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// LayerSurfaceClosedEvent reports the surface will no longer be shown
type LayerSurfaceClosedEvent struct{}

// LayerSurface is a surface with the layer_surface role
type LayerSurface struct {
	client.BaseProxy
	configureHandler func(LayerSurfaceConfigureEvent)
	closedHandler    func(LayerSurfaceClosedEvent)
}

// SetSize sets the requested size; zero stretches between opposite anchors
func (l *LayerSurface) SetSize(width, height uint32) error {
	// Opcode 0: set_size
	return l.send(0, width, height)
}

// SetAnchor anchors the surface to the given output edges
func (l *LayerSurface) SetAnchor(anchor uint32) error {
	// Opcode 1: set_anchor
	return l.send(1, anchor)
}

// SetExclusiveZone reserves space along the anchored edge
func (l *LayerSurface) SetExclusiveZone(zone int32) error {
	// Opcode 2: set_exclusive_zone
	return l.send(2, uint32(zone))
}

// SetMargin sets the distance from the anchored edges
func (l *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	// Opcode 3: set_margin
	return l.send(3, uint32(top), uint32(right), uint32(bottom), uint32(left))
}

// SetKeyboardInteractivity controls keyboard focus for the surface
func (l *LayerSurface) SetKeyboardInteractivity(mode uint32) error {
	// Opcode 4: set_keyboard_interactivity
	return l.send(4, mode)
}

// AckConfigure acknowledges the configure event with serial
func (l *LayerSurface) AckConfigure(serial uint32) error {
	// Opcode 6: ack_configure
	return l.send(6, serial)
}

// Destroy destroys the layer surface
func (l *LayerSurface) Destroy() error {
	// Opcode 7: destroy
	err := l.send(7)
	l.Context().Unregister(l)
	return err
}

// SetConfigureHandler sets the handler for configure events
func (l *LayerSurface) SetConfigureHandler(f func(LayerSurfaceConfigureEvent)) {
	l.configureHandler = f
}

// SetClosedHandler sets the handler for closed events
func (l *LayerSurface) SetClosedHandler(f func(LayerSurfaceClosedEvent)) {
	l.closedHandler = f
}

// Dispatch decodes an event addressed to this surface
func (l *LayerSurface) Dispatch(opcode uint32, _ int, data []byte) {
	switch opcode {
	case 0:
		if l.configureHandler == nil || len(data) < 12 {
			return
		}
		r := reader(data)
		l.configureHandler(LayerSurfaceConfigureEvent{
			Serial: r.uint32(),
			Width:  r.uint32(),
			Height: r.uint32(),
		})
	case 1:
		if l.closedHandler == nil {
			return
		}
		l.closedHandler(LayerSurfaceClosedEvent{})
	}
}

func (l *LayerSurface) send(opcode uint16, args ...uint32) error {
	w := newRequest(l.ID(), opcode)
	for _, a := range args {
		w.uint32(a)
	}
	return l.Context().WriteMsg(w.bytes(), nil)
}
