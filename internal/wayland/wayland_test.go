package wayland

import (
	"errors"
	"testing"

	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/protocols"
	"github.com/rajveermalviya/go-wayland/wayland/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []panel.Event
	err    error
	// before runs ahead of recording each event.
	before func()
}

func (r *recorder) Handle(ev panel.Event) error {
	if r.before != nil {
		r.before()
	}
	r.events = append(r.events, ev)
	return r.err
}

func TestKeys(t *testing.T) {
	raw := make([]byte, 12)
	for i, k := range []uint32{1, 42, 0x1ff} {
		client.PutUint32(raw[i*4:], k)
	}
	assert.Equal(t, []uint32{1, 42, 0x1ff}, keys(raw))
	assert.Equal(t, []uint32{1}, keys(raw[:6]), "trailing partial entry is dropped")
	assert.Empty(t, keys(nil))
}

func TestSurfaceIDNil(t *testing.T) {
	assert.Equal(t, panel.SurfaceID(0), surfaceID(nil))
}

func TestSourceDeliversQueuedEvents(t *testing.T) {
	c := &Client{}
	c.emit(panel.OutputEvent{Kind: panel.OutputAdded, Output: panel.Output{ID: 3}})
	c.emit(panel.SurfaceEvent{Kind: panel.SurfaceConfigure, Surface: 7, Serial: 1})

	src := c.Source()
	rec := &recorder{}
	require.NoError(t, src.Dispatch(rec))
	require.Len(t, rec.events, 2)
	assert.IsType(t, panel.OutputEvent{}, rec.events[0])
	assert.IsType(t, panel.SurfaceEvent{}, rec.events[1])
	assert.Empty(t, c.queue)

	// Nothing queued and no connection to read from.
	assert.ErrorIs(t, src.Dispatch(rec), errDisconnected)
}

func TestSourceStopsOnHandlerError(t *testing.T) {
	c := &Client{}
	c.emit(panel.SeatEvent{Kind: panel.SeatCapabilities})
	c.emit(panel.SeatEvent{Kind: panel.SeatRemoved})

	boom := errors.New("boom")
	rec := &recorder{err: boom}
	assert.ErrorIs(t, c.Source().Dispatch(rec), boom)
	assert.Len(t, rec.events, 1)
}

func TestSourceFatalError(t *testing.T) {
	c := &Client{}
	c.emit(panel.SeatEvent{Kind: panel.SeatCapabilities})
	c.handleDisplayError(displayError(2, "invalid object"))

	err := c.Source().Dispatch(&recorder{})
	assert.ErrorIs(t, err, panel.ErrProtocolDesync)
	assert.Contains(t, err.Error(), "invalid object")
}

func TestSourceClose(t *testing.T) {
	c := &Client{}
	c.emit(panel.SeatEvent{Kind: panel.SeatCapabilities})
	src := c.Source()

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())

	rec := &recorder{}
	assert.ErrorIs(t, src.Dispatch(rec), panel.ErrInterrupted)
	assert.Empty(t, rec.events)
}

func TestSourceCloseDuringHandler(t *testing.T) {
	c := &Client{}
	c.emit(panel.SurfaceEvent{Kind: panel.SurfaceFrame, Surface: 7})
	src := c.Source()

	// A render cut short by the shutdown signal fails on the closed socket.
	rec := &recorder{err: errors.New("commit: use of closed network connection")}
	rec.before = func() { require.NoError(t, src.Close()) }

	assert.ErrorIs(t, src.Dispatch(rec), panel.ErrInterrupted)
	assert.Len(t, rec.events, 1)
}

func TestRequireShellNamesMissingGlobals(t *testing.T) {
	err := (&Client{}).RequireShell()
	require.Error(t, err)
	for _, name := range []string{"wl_compositor", "wl_shm", "zwlr_layer_shell_v1"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestSeatRemoved(t *testing.T) {
	c := &Client{outputs: map[uint32]*OutputInfo{}, wlOuts: map[uint32]*client.Output{}}
	c.seat = &Seat{c: c, name: "seat0", version: seatVersion}
	c.seatName = 12

	// Unknown globals are ignored.
	c.handleGlobalRemove(client.RegistryGlobalRemoveEvent{Name: 30})
	require.NotNil(t, c.Seat())
	assert.Empty(t, c.queue)

	c.handleGlobalRemove(client.RegistryGlobalRemoveEvent{Name: 12})
	assert.Equal(t, []panel.Event{panel.SeatEvent{Kind: panel.SeatRemoved, Name: "seat0"}}, c.queue)
	assert.Nil(t, c.Seat(), "a later seat global can be bound")
	assert.Zero(t, c.seatName)

	// A second removal for the same name does nothing.
	c.drain()
	c.handleGlobalRemove(client.RegistryGlobalRemoveEvent{Name: 12})
	assert.Empty(t, c.queue)
}

func TestReleasedSeatRefusesDevices(t *testing.T) {
	s := &Seat{name: "seat0"}
	s.release()
	_, err := s.Acquire(panel.KindKeyboard)
	assert.ErrorContains(t, err, "removed")
}

func TestShellValues(t *testing.T) {
	layers := []struct {
		in   panel.Layer
		want uint32
	}{
		{panel.LayerBackground, protocols.LayerBackground},
		{panel.LayerBottom, protocols.LayerBottom},
		{panel.LayerTop, protocols.LayerTop},
		{panel.LayerOverlay, protocols.LayerOverlay},
		{panel.Layer(9), protocols.LayerTop},
	}
	for _, tt := range layers {
		assert.Equal(t, tt.want, shellLayer(tt.in), "layer %d", tt.in)
	}

	anchors := []struct {
		in   panel.Anchor
		want uint32
	}{
		{0, 0},
		{panel.AnchorTop, protocols.AnchorTop},
		{panel.AnchorBottom | panel.AnchorLeft | panel.AnchorRight, protocols.AnchorBottom | protocols.AnchorLeft | protocols.AnchorRight},
		{panel.AnchorTop | panel.AnchorLeft | panel.AnchorRight, 13},
	}
	for _, tt := range anchors {
		assert.Equal(t, tt.want, shellAnchor(tt.in), "anchor %d", tt.in)
	}

	modes := []struct {
		in   panel.Interactivity
		want uint32
	}{
		{panel.InteractivityNone, protocols.KeyboardInteractivityNone},
		{panel.InteractivityExclusive, protocols.KeyboardInteractivityExclusive},
		{panel.InteractivityOnDemand, protocols.KeyboardInteractivityOnDemand},
	}
	for _, tt := range modes {
		assert.Equal(t, tt.want, shellInteractivity(tt.in), "interactivity %d", tt.in)
	}
}

func TestOutputsSorted(t *testing.T) {
	c := &Client{outputs: map[uint32]*OutputInfo{
		9: {ID: 9, Name: "HDMI-A-1"},
		4: {ID: 4, Name: "eDP-1"},
	}}
	outs := c.Outputs()
	require.Len(t, outs, 2)
	assert.Equal(t, "eDP-1", outs[0].Name)
	assert.Equal(t, "HDMI-A-1", outs[1].Name)

	assert.Nil(t, c.Seat())
	assert.ErrorIs(t, c.Roundtrip(), errDisconnected)
	assert.Error(t, c.RequireShell())
}

func displayError(code uint32, msg string) client.DisplayErrorEvent {
	return client.DisplayErrorEvent{Code: code, Message: msg}
}
