// Package wayland adapts the compositor connection to the panel core: it
// binds the globals, translates protocol callbacks into panel events and
// provides the seat, shell surface and shared-memory render backend.
package wayland

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/protocols"
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// Highest interface versions the client speaks.
const (
	compositorVersion = 4
	shmVersion        = 1
	seatVersion       = 5
	outputVersion     = 4
	layerShellVersion = 4

	// wl_seat.release and zwlr_layer_shell_v1.destroy
	seatReleaseVersion       = 5
	layerShellDestroyVersion = 3
)

// Core interface names as announced by the registry.
const (
	compositorInterface = "wl_compositor"
	shmInterface        = "wl_shm"
	seatInterface       = "wl_seat"
	outputInterface     = "wl_output"
)

var errDisconnected = errors.New("wayland client not connected")

// OutputInfo contains information about a Wayland output (monitor)
type OutputInfo struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	X           int32  `json:"x"`
	Y           int32  `json:"y"`
	Width       int32  `json:"width"`
	Height      int32  `json:"height"`
	Scale       int32  `json:"scale"`

	announced bool
}

// Client owns the compositor connection and the bound globals. Protocol
// callbacks run inside Dispatch and append to the event queue.
type Client struct {
	display  *client.Display
	registry *client.Registry
	ctx      *client.Context

	compositor        *client.Compositor
	compositorVersion uint32
	shm               *client.Shm
	layerShell        *protocols.LayerShell
	layerShellVersion uint32

	seat     *Seat
	seatName uint32
	outputs  map[uint32]*OutputInfo
	wlOuts   map[uint32]*client.Output

	queue    []panel.Event
	fatalErr error
}

// Connect establishes the connection and binds the globals announced in the
// initial registry burst.
func Connect() (*Client, error) {
	display, err := client.Connect("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display: %w", err)
	}

	c := &Client{
		display: display,
		ctx:     display.Context(),
		outputs: make(map[uint32]*OutputInfo),
		wlOuts:  make(map[uint32]*client.Output),
	}
	display.SetErrorHandler(c.handleDisplayError)

	registry, err := display.GetRegistry()
	if err != nil {
		c.Disconnect()
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	c.registry = registry
	registry.SetGlobalHandler(c.handleGlobal)
	registry.SetGlobalRemoveHandler(c.handleGlobalRemove)

	// First roundtrip binds the globals, the second collects their initial
	// state (output modes and names, seat capabilities).
	for i := 0; i < 2; i++ {
		if err := c.Roundtrip(); err != nil {
			c.Disconnect()
			return nil, fmt.Errorf("roundtrip: %w", err)
		}
	}
	return c, nil
}

// RequireShell checks that everything needed to show a panel was bound.
func (c *Client) RequireShell() error {
	var missing []string
	if c.compositor == nil {
		missing = append(missing, compositorInterface)
	}
	if c.shm == nil {
		missing = append(missing, shmInterface)
	}
	if c.layerShell == nil {
		missing = append(missing, protocols.LayerShellInterfaceName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("compositor lacks required globals: %v", missing)
	}
	return nil
}

// Roundtrip blocks until the compositor has processed every request sent so
// far.
func (c *Client) Roundtrip() error {
	if c.display == nil {
		return errDisconnected
	}
	cb, err := c.display.Sync()
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	done := false
	cb.SetDoneHandler(func(client.CallbackDoneEvent) { done = true })
	for !done {
		if err := c.ctx.Dispatch(); err != nil {
			return err
		}
		if c.fatalErr != nil {
			return c.fatalErr
		}
	}
	return nil
}

// Disconnect closes the Wayland connection
func (c *Client) Disconnect() {
	if c.ctx != nil {
		if c.layerShell != nil && c.layerShellVersion >= layerShellDestroyVersion {
			if err := c.layerShell.Destroy(); err != nil {
				logger.Debug("Destroy layer shell", "err", err)
			}
		}
		c.layerShell = nil
		if err := c.ctx.Close(); err != nil {
			logger.Debug("Close Wayland connection", "err", err)
		}
		c.ctx = nil
		c.display = nil
		c.registry = nil
	}
}

// Seat returns the bound seat, or nil when the compositor announced none.
func (c *Client) Seat() panel.Seat {
	if c.seat == nil {
		return nil
	}
	return c.seat
}

// Outputs returns the outputs announced so far, ordered by global name.
func (c *Client) Outputs() []OutputInfo {
	out := make([]OutputInfo, 0, len(c.outputs))
	for _, o := range c.outputs {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Client) emit(ev panel.Event) {
	c.queue = append(c.queue, ev)
}

func (c *Client) drain() []panel.Event {
	q := c.queue
	c.queue = nil
	return q
}

func (c *Client) handleDisplayError(e client.DisplayErrorEvent) {
	var object uint32
	if e.ObjectId != nil {
		object = e.ObjectId.ID()
	}
	logger.Error("Compositor reported a protocol error", "object", object, "code", e.Code, "message", e.Message)
	if c.fatalErr == nil {
		c.fatalErr = fmt.Errorf("%w: object %d code %d: %s", panel.ErrProtocolDesync, object, e.Code, e.Message)
	}
}

func (c *Client) handleGlobal(e client.RegistryGlobalEvent) {
	switch e.Interface {
	case compositorInterface:
		comp := client.NewCompositor(c.ctx)
		version := min(e.Version, compositorVersion)
		if err := c.registry.Bind(e.Name, e.Interface, version, comp); err == nil {
			c.compositor, c.compositorVersion = comp, version
		}

	case shmInterface:
		shm := client.NewShm(c.ctx)
		if err := c.registry.Bind(e.Name, e.Interface, min(e.Version, shmVersion), shm); err == nil {
			c.shm = shm
		}

	case seatInterface:
		if c.seat != nil {
			logger.Debug("Ignoring additional seat", "name", e.Name)
			return
		}
		seat := client.NewSeat(c.ctx)
		version := min(e.Version, seatVersion)
		if err := c.registry.Bind(e.Name, e.Interface, version, seat); err == nil {
			c.seat = newSeat(c, seat, version)
			c.seatName = e.Name
		}

	case outputInterface:
		output := client.NewOutput(c.ctx)
		if err := c.registry.Bind(e.Name, e.Interface, min(e.Version, outputVersion), output); err == nil {
			c.outputs[e.Name] = &OutputInfo{ID: e.Name, Scale: 1}
			c.wlOuts[e.Name] = output
			c.setupOutputHandlers(e.Name, output)
		}

	case protocols.LayerShellInterfaceName:
		ls := protocols.NewLayerShell(c.ctx)
		version := min(e.Version, layerShellVersion)
		if err := c.registry.Bind(e.Name, e.Interface, version, ls); err == nil {
			c.layerShell, c.layerShellVersion = ls, version
		}
	}
}

func (c *Client) handleGlobalRemove(e client.RegistryGlobalRemoveEvent) {
	if o, ok := c.outputs[e.Name]; ok {
		delete(c.outputs, e.Name)
		if out := c.wlOuts[e.Name]; out != nil {
			_ = out.Release()
		}
		delete(c.wlOuts, e.Name)
		c.emit(panel.OutputEvent{Kind: panel.OutputRemoved, Output: o.panelOutput()})
		return
	}
	if c.seat != nil && e.Name == c.seatName {
		c.emit(panel.SeatEvent{Kind: panel.SeatRemoved, Name: c.seat.name})
		c.seat.release()
		c.seat, c.seatName = nil, 0
	}
}

func (c *Client) setupOutputHandlers(name uint32, output *client.Output) {
	output.SetGeometryHandler(func(e client.OutputGeometryEvent) {
		if o, ok := c.outputs[name]; ok {
			o.X, o.Y = e.X, e.Y
		}
	})
	output.SetModeHandler(func(e client.OutputModeEvent) {
		if e.Flags&uint32(client.OutputModeCurrent) == 0 {
			return
		}
		if o, ok := c.outputs[name]; ok {
			o.Width, o.Height = e.Width, e.Height
		}
	})
	output.SetScaleHandler(func(e client.OutputScaleEvent) {
		if o, ok := c.outputs[name]; ok {
			o.Scale = e.Factor
		}
	})
	output.SetNameHandler(func(e client.OutputNameEvent) {
		if o, ok := c.outputs[name]; ok {
			o.Name = e.Name
		}
	})
	output.SetDescriptionHandler(func(e client.OutputDescriptionEvent) {
		if o, ok := c.outputs[name]; ok {
			o.Description = e.Description
		}
	})
	output.SetDoneHandler(func(client.OutputDoneEvent) {
		o, ok := c.outputs[name]
		if !ok {
			return
		}
		kind := panel.OutputUpdated
		if !o.announced {
			kind = panel.OutputAdded
			o.announced = true
		}
		c.emit(panel.OutputEvent{Kind: kind, Output: o.panelOutput()})
	})
}

func (o *OutputInfo) panelOutput() panel.Output {
	return panel.Output{ID: o.ID, Name: o.Name, Width: o.Width, Height: o.Height, Scale: o.Scale}
}
