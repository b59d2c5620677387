package wayland

import (
	"fmt"
	"sync/atomic"

	"github.com/bnema/yarrbar/internal/panel"
)

// Source reads the connection and hands translated events to the panel. It
// implements panel.EventSource.
type Source struct {
	c      *Client
	closed atomic.Bool
}

// Source returns the event source of the connection.
func (c *Client) Source() *Source {
	return &Source{c: c}
}

// Dispatch implements panel.EventSource. Events already queued by earlier
// roundtrips are delivered first, without reading the socket.
func (s *Source) Dispatch(h panel.Handler) error {
	c := s.c
	if s.closed.Load() {
		return panel.ErrInterrupted
	}

	if len(c.queue) == 0 {
		if c.ctx == nil {
			return errDisconnected
		}
		if err := c.ctx.Dispatch(); err != nil {
			return s.interrupted(fmt.Errorf("dispatch: %w", err))
		}
	}
	if c.fatalErr != nil {
		return s.interrupted(c.fatalErr)
	}

	for _, ev := range c.drain() {
		if err := h.Handle(ev); err != nil {
			return s.interrupted(err)
		}
	}
	return nil
}

// interrupted reports ErrInterrupted instead of err once Close was called:
// requests failing on the closed socket are a consequence of the shutdown.
func (s *Source) interrupted(err error) error {
	if s.closed.Load() {
		return panel.ErrInterrupted
	}
	return err
}

// Close unblocks a pending Dispatch by closing the connection. It may be
// called from another goroutine.
func (s *Source) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if ctx := s.c.ctx; ctx != nil {
		return ctx.Close()
	}
	return nil
}
