package emulator

import "github.com/mnafees/chopper/internal"

// Screen is the display state of the VM as seen by a frontend.
type Screen interface {
	Pixel(x, y int) bool
	Changes() (on, off []internal.Point)
}

// Frontend is the input/output abstraction layer for the VM
type Frontend interface {
	// Poll processes pending host events and returns false once the user
	// asked to quit.
	Poll() bool
	// Key returns the keypad code to assert for the next cycle.
	Key() internal.Key
	// Render presents the display. It is only called on cycles that may have
	// changed the display.
	Render(screen Screen) error
	Beep()
}
