//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

// Package term implements a frontend that runs the VM inside a terminal.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal"
	"golang.org/x/sys/unix"
)

const (
	escape = 0x1B

	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// IO is the terminal input/output layer for the VM. Terminals only report
// key presses, so every press stays asserted for a fixed number of cycles.
type IO struct {
	in  io.Reader
	out *bufio.Writer

	rawFd   int
	restore *unix.Termios

	holdCycles int
	key        internal.Key
	hold       int // cycles left until key is released
	quit       bool
	painted    bool

	buf [32]byte
}

var _ emulator.Frontend = (*IO)(nil)

// NewIO returns a new I/O instance reading key presses from in and drawing
// to out.
func NewIO(in io.Reader, out io.Writer, holdCycles int) *IO {
	return &IO{
		in:         in,
		out:        bufio.NewWriter(out),
		rawFd:      -1,
		holdCycles: max(holdCycles, 1),
		key:        internal.NoKey,
	}
}

// NewStdIO returns an I/O instance for the process terminal with stdin
// switched to raw mode. Close restores the terminal.
func NewStdIO(holdCycles int) (*IO, error) {
	fd := int(os.Stdin.Fd())
	restore, err := enterRawMode(fd)
	if err != nil {
		return nil, err
	}

	t := NewIO(os.Stdin, os.Stdout, holdCycles)
	t.rawFd = fd
	t.restore = restore
	return t, nil
}

// Close shows the cursor again and restores the terminal state.
func (t *IO) Close() error {
	var errs []error
	if t.painted {
		if _, err := t.out.WriteString(showCursor + "\r\n"); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.out.Flush(); err != nil {
		errs = append(errs, err)
	}
	if t.restore != nil {
		errs = append(errs, exitRawMode(t.rawFd, t.restore))
		t.restore = nil
	}
	return errors.Join(errs...)
}

// Poll reads pending key presses and returns false once Escape was pressed
// or the input was closed.
func (t *IO) Poll() bool {
	pressed := false

	for !t.quit {
		n, err := t.in.Read(t.buf[:])
		for _, b := range t.buf[:n] {
			if b == escape {
				t.quit = true
				break
			}
			if key := keymap(b); key.Valid() {
				t.key = key
				pressed = true
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.quit = true
			}
			break
		}
		if n < len(t.buf) {
			break
		}
	}

	switch {
	case pressed:
		t.hold = t.holdCycles
	case t.hold > 0:
		t.hold--
		if t.hold == 0 {
			t.key = internal.NoKey
		}
	}
	return !t.quit
}

// Key returns the most recently pressed keypad code while it is held.
func (t *IO) Key() internal.Key {
	return t.key
}

// Render redraws the whole display using half block characters, two display
// rows per terminal line.
func (t *IO) Render(screen emulator.Screen) error {
	if !t.painted {
		if _, err := t.out.WriteString(hideCursor + clearScreen); err != nil {
			return fmt.Errorf("writing to terminal: %w", err)
		}
		t.painted = true
	}

	if _, err := t.out.WriteString(cursorHome); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := range internal.ScreenWidth {
			if _, err := t.out.WriteString(cell(screen.Pixel(x, y), screen.Pixel(x, y+1))); err != nil {
				return fmt.Errorf("writing to terminal: %w", err)
			}
		}
		if _, err := t.out.WriteString("\r\n"); err != nil {
			return fmt.Errorf("writing to terminal: %w", err)
		}
	}
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("flushing terminal output: %w", err)
	}
	return nil
}

// Beep rings the terminal bell.
func (t *IO) Beep() {
	_ = t.out.WriteByte('\a')
	_ = t.out.Flush()
}

func cell(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}

// keymap maps keys of a QWERTY keyboard to the CHIP-8 keypad
// using the same layout as the SDL frontend:
//
//	1 2 3 4    1 2 3 C
//	Q W E R -> 4 5 6 D
//	A S D F    7 8 9 E
//	Z X C V    A 0 B F
func keymap(b byte) internal.Key {
	switch b {
	case '1':
		return 0x1
	case '2':
		return 0x2
	case '3':
		return 0x3
	case '4':
		return 0xC
	case 'q', 'Q':
		return 0x4
	case 'w', 'W':
		return 0x5
	case 'e', 'E':
		return 0x6
	case 'r', 'R':
		return 0xD
	case 'a', 'A':
		return 0x7
	case 's', 'S':
		return 0x8
	case 'd', 'D':
		return 0x9
	case 'f', 'F':
		return 0xE
	case 'z', 'Z':
		return 0xA
	case 'x', 'X':
		return 0x0
	case 'c', 'C':
		return 0xB
	case 'v', 'V':
		return 0xF
	default:
		return internal.NoKey
	}
}
