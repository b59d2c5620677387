//go:build linux

package wayland

import (
	"errors"
	"fmt"
	"image"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/render"
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

const (
	// DefaultBuffers is the number of buffers kept per size.
	DefaultBuffers = 2
	maxBuffers     = 3

	// wl_surface.damage_buffer appeared in version 4.
	damageBufferVersion = 4
)

var (
	errBuffersBusy = errors.New("all buffers held by the compositor")
	errNotBound    = errors.New("no buffer bound")
)

// slot is one wl_buffer with its own shared-memory pool.
type slot struct {
	mem  *render.SharedMemory
	pool *client.ShmPool
	buf  *client.Buffer
	busy bool

	// contents tracks what was last packed into this buffer, so only the
	// difference to the new frame has to be copied.
	contents render.Tracker
}

func (s *slot) destroy() {
	if s.buf != nil {
		_ = s.buf.Destroy()
	}
	if s.pool != nil {
		_ = s.pool.Destroy()
	}
	if s.mem != nil {
		if err := s.mem.Close(); err != nil {
			logger.Debug("Close buffer memory", "err", err)
		}
	}
}

// ShmBackend renders into a software canvas and presents it through wl_shm
// buffers attached to the panel surface. It implements panel.Backend.
type ShmBackend struct {
	c       *Client
	surface *LayerSurface

	size   image.Point
	canvas *render.Canvas
	slots  []*slot
	bound  *slot
	limit  int

	// damage tracks the frame last committed to the surface.
	damage render.Tracker
}

// NewShmBackend returns a backend presenting on surface. It allocates
// nothing until the first Resize.
func (c *Client) NewShmBackend(surface *LayerSurface, buffers int) (*ShmBackend, error) {
	if c.shm == nil {
		return nil, fmt.Errorf("compositor lacks %s", shmInterface)
	}
	if buffers <= 0 {
		buffers = DefaultBuffers
	}
	return &ShmBackend{c: c, surface: surface, limit: min(buffers, maxBuffers)}, nil
}

// PhysicalSize implements panel.Backend.
func (b *ShmBackend) PhysicalSize() image.Point { return b.size }

// Resize implements panel.Backend. Existing buffers are dropped; new ones
// are created lazily by Bind.
func (b *ShmBackend) Resize(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("invalid buffer size %v", size)
	}
	b.dropSlots()
	b.size = size
	b.canvas = render.NewCanvas(size)
	b.damage.Reset()
	logger.Debug("Buffers resized", "width", size.X, "height", size.Y)
	return nil
}

// Bind implements panel.Backend by selecting a buffer the compositor has
// released.
func (b *ShmBackend) Bind() error {
	if b.canvas == nil {
		return errors.New("backend not sized")
	}
	for _, s := range b.slots {
		if !s.busy {
			b.bound = s
			return nil
		}
	}
	if len(b.slots) >= b.limit {
		return errBuffersBusy
	}

	s, err := b.newSlot()
	if err != nil {
		return err
	}
	b.slots = append(b.slots, s)
	b.bound = s
	return nil
}

// BeginFrame implements panel.Backend.
func (b *ShmBackend) BeginFrame(size image.Point) (panel.Frame, error) {
	if b.bound == nil {
		return nil, errNotBound
	}
	if size != b.size {
		return nil, fmt.Errorf("frame size %v does not match buffers %v", size, b.size)
	}
	return b.canvas, nil
}

// Submit implements panel.Backend: it copies the changed pixels into the
// bound buffer, attaches it with the damaged region and commits.
func (b *ShmBackend) Submit(f panel.Frame) error {
	s := b.bound
	if s == nil {
		return errNotBound
	}
	b.bound = nil

	canvas, ok := f.(*render.Canvas)
	if !ok || canvas != b.canvas {
		return fmt.Errorf("foreign frame %T", f)
	}
	img := canvas.Image()

	if dirty := s.contents.Next(img); !dirty.Empty() {
		if err := render.PackARGB8888(s.mem.Bytes(), render.Stride(b.size.X), img, dirty); err != nil {
			s.contents.Reset()
			return err
		}
	}

	surface := b.surface.surface
	if surface == nil {
		return errors.New("surface destroyed")
	}
	if err := surface.Attach(s.buf, 0, 0); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	if dmg := b.damage.Next(img); !dmg.Empty() {
		if err := b.damageSurface(surface, dmg); err != nil {
			return fmt.Errorf("damage: %w", err)
		}
	}
	if err := b.surface.requestFrame(); err != nil {
		return fmt.Errorf("frame callback: %w", err)
	}
	if err := surface.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.busy = true
	return nil
}

// Release implements panel.Backend.
func (b *ShmBackend) Release() error {
	b.dropSlots()
	b.canvas = nil
	b.size = image.Point{}
	return nil
}

func (b *ShmBackend) damageSurface(surface *client.Surface, r image.Rectangle) error {
	x, y, w, h := int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy())
	if b.c.compositorVersion >= damageBufferVersion {
		return surface.DamageBuffer(x, y, w, h)
	}
	return surface.Damage(x, y, w, h)
}

func (b *ShmBackend) newSlot() (*slot, error) {
	stride := render.Stride(b.size.X)
	size := stride * b.size.Y

	mem, err := render.NewSharedMemory("yarrbar-buffer", size)
	if err != nil {
		return nil, err
	}
	s := &slot{mem: mem}

	s.pool, err = b.c.shm.CreatePool(mem.Fd(), int32(size))
	if err != nil {
		s.destroy()
		return nil, fmt.Errorf("create pool: %w", err)
	}
	s.buf, err = s.pool.CreateBuffer(0, int32(b.size.X), int32(b.size.Y), int32(stride), uint32(client.ShmFormatArgb8888))
	if err != nil {
		s.destroy()
		return nil, fmt.Errorf("create buffer: %w", err)
	}
	s.buf.SetReleaseHandler(func(client.BufferReleaseEvent) {
		s.busy = false
	})
	logger.Debug("Buffer allocated", "index", len(b.slots), "bytes", size)
	return s, nil
}

func (b *ShmBackend) dropSlots() {
	for _, s := range b.slots {
		s.destroy()
	}
	b.slots = nil
	b.bound = nil
}
