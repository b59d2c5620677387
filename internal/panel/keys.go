package panel

import (
	"fmt"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"
)

// Key names accepted in configuration, keyed by lower-case name.
var keyCodes = map[string]uint32{
	"escape":    evdev.KEY_ESC,
	"esc":       evdev.KEY_ESC,
	"enter":     evdev.KEY_ENTER,
	"return":    evdev.KEY_ENTER,
	"space":     evdev.KEY_SPACE,
	"tab":       evdev.KEY_TAB,
	"backspace": evdev.KEY_BACKSPACE,
	"delete":    evdev.KEY_DELETE,
	"q":         evdev.KEY_Q,
	"x":         evdev.KEY_X,
	"f1":        evdev.KEY_F1,
	"f2":        evdev.KEY_F2,
	"f3":        evdev.KEY_F3,
	"f4":        evdev.KEY_F4,
	"f5":        evdev.KEY_F5,
	"f6":        evdev.KEY_F6,
	"f7":        evdev.KEY_F7,
	"f8":        evdev.KEY_F8,
	"f9":        evdev.KEY_F9,
	"f10":       evdev.KEY_F10,
	"f11":       evdev.KEY_F11,
	"f12":       evdev.KEY_F12,
}

var keyNames = func() map[uint32]string {
	names := map[uint32]string{
		evdev.KEY_ESC:   "Escape",
		evdev.KEY_ENTER: "Enter",
	}
	for name, code := range keyCodes {
		if _, ok := names[code]; !ok {
			names[code] = strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return names
}()

var buttonNames = map[uint32]string{
	evdev.BTN_LEFT:   "left",
	evdev.BTN_RIGHT:  "right",
	evdev.BTN_MIDDLE: "middle",
	evdev.BTN_SIDE:   "side",
	evdev.BTN_EXTRA:  "extra",
}

// LookupKey resolves a configured key name to its evdev code.
func LookupKey(name string) (uint32, bool) {
	code, ok := keyCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// KeyName renders an evdev key code for diagnostics.
func KeyName(code uint32) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", code)
}

// ButtonName renders an evdev button code for diagnostics.
func ButtonName(code uint32) string {
	if name, ok := buttonNames[code]; ok {
		return name
	}
	return fmt.Sprintf("button(%#x)", code)
}
