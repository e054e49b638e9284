//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// enterRawMode switches the terminal to unbuffered non-blocking input without
// echo and returns the previous state. Signal keys keep working so Ctrl+C
// still interrupts the emulator.
func enterRawMode(fd int) (*unix.Termios, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("getting terminal state: %w", err)
	}

	restore := *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate); err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	return &restore, nil
}

func exitRawMode(fd int, restore *unix.Termios) error {
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, restore); err != nil {
		return fmt.Errorf("restoring terminal state: %w", err)
	}
	return nil
}
