package term

import (
	"errors"
	"fmt"

	"github.com/buger/goterm"
	"github.com/mnafees/chopper/internal"
)

// ErrTerminalTooSmall is returned when the display does not fit the terminal.
var ErrTerminalTooSmall = errors.New("terminal too small")

// Rows is the number of terminal lines a rendered display uses.
const Rows = internal.ScreenHeight / 2

// CheckSize verifies that the attached terminal can show the whole display.
// A terminal whose size can not be queried is assumed to be large enough.
func CheckSize() error {
	return checkSize(goterm.Width(), goterm.Height())
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width < internal.ScreenWidth || height < Rows {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d",
			ErrTerminalTooSmall, width, height, internal.ScreenWidth, Rows)
	}
	return nil
}
