package panel

import (
	"errors"

	"github.com/bnema/yarrbar/internal/logger"
)

var errNoSeat = errors.New("no seat bound")

// DeviceKind is an input device class a seat may provide.
type DeviceKind uint8

const (
	KindKeyboard DeviceKind = iota
	KindPointer
)

var deviceKinds = [...]DeviceKind{KindKeyboard, KindPointer}

func (k DeviceKind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Capabilities is the wl_seat capability bitmask.
type Capabilities uint32

const (
	CapPointer  Capabilities = 1
	CapKeyboard Capabilities = 2
	CapTouch    Capabilities = 4
)

// Has reports whether the set announces kind.
func (c Capabilities) Has(kind DeviceKind) bool {
	switch kind {
	case KindKeyboard:
		return c&CapKeyboard != 0
	case KindPointer:
		return c&CapPointer != 0
	}
	return false
}

// Device is a live keyboard or pointer handle.
type Device interface {
	Kind() DeviceKind
	Release() error
}

// Seat creates device handles on request.
type Seat interface {
	Acquire(kind DeviceKind) (Device, error)
}

// Tracker keeps at most one device handle per class, acquiring on
// announcement and releasing on revocation.
type Tracker struct {
	seat Seat
	seen bool
}

// NewTracker returns a tracker acquiring handles from seat.
func NewTracker(seat Seat) *Tracker {
	return &Tracker{seat: seat}
}

// Handle applies a seat event to st.
func (t *Tracker) Handle(st *State, ev SeatEvent) error {
	switch ev.Kind {
	case SeatCapabilities:
		initial := !t.seen
		t.seen = true
		for _, kind := range deviceKinds {
			if !ev.Capabilities.Has(kind) {
				t.revoke(st, kind)
				continue
			}
			if err := t.announce(st, kind, initial); err != nil {
				return err
			}
		}
	case SeatRemoved:
		logger.Debug("Seat removed", "seat", ev.Name)
		t.ReleaseAll(st)
	}
	return nil
}

func (t *Tracker) announce(st *State, kind DeviceKind, initial bool) error {
	if st.HasDevice(kind) {
		return nil
	}
	if t.seat == nil {
		return t.failed(kind, initial, errNoSeat)
	}
	d, err := t.seat.Acquire(kind)
	if err != nil {
		return t.failed(kind, initial, err)
	}
	logger.Infof("Set %s capability", kind)
	st.setDevice(kind, d)
	return nil
}

func (t *Tracker) failed(kind DeviceKind, initial bool, err error) error {
	capErr := &CapabilityError{Kind: kind, Initial: initial, Err: err}
	if initial {
		return capErr
	}
	logger.Warn("Input device unavailable until re-announced", "err", capErr)
	return nil
}

func (t *Tracker) revoke(st *State, kind DeviceKind) {
	d := st.device(kind)
	if d == nil {
		return
	}
	st.setDevice(kind, nil)
	logger.Infof("Unset %s capability", kind)
	if err := d.Release(); err != nil {
		logger.Warn("Release device", "kind", kind, "err", err)
	}
	switch kind {
	case KindKeyboard:
		st.KeyboardFocus = false
	case KindPointer:
		st.PointerInside = false
	}
}

// ReleaseAll drops every held handle.
func (t *Tracker) ReleaseAll(st *State) {
	for _, kind := range deviceKinds {
		t.revoke(st, kind)
	}
}
