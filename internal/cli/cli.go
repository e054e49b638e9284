// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal/config"
	"github.com/retroenv/retrogolib/cli"
)

// Options contains the command line options of the emulator commands.
type Options struct {
	Config  string `flag:"c" usage:"name of the config file to load"`
	ClockHz int    `flag:"hz" usage:"cycles per second, overrides the config file"`
	Cycles  uint64 `flag:"cycles" usage:"stop after the given number of cycles"`
	Debug   bool   `flag:"debug" usage:"enable debugging options for extended logging"`
	Trace   bool   `flag:"trace" usage:"log every executed instruction"`
	Quiet   bool   `flag:"q" usage:"perform operations quietly"`

	ROM string `arg:"positional" usage:"CHIP-8 program to run" required:"true"`
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *cli.FlagSet
	err   error
}

func (e *UsageError) Error() string {
	return e.err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage prints the usage of the command.
func (e *UsageError) ShowUsage() {
	e.flags.ShowUsage()
}

// Parse fills opts from args using its flag and positional struct tags.
// Help requests, missing arguments and leftover arguments are returned as
// *UsageError, any other parse failure as a plain error.
func Parse(name string, opts any, args []string) error {
	flags := cli.NewFlagSet(name)
	flags.AddSection("Options", opts)
	flags.AddPositional(opts)

	remaining, err := flags.Parse(args)
	if err != nil {
		var missing *cli.MissingArgsError
		if errors.Is(err, cli.ErrHelpRequested) || errors.As(err, &missing) {
			return &UsageError{flags: flags, err: err}
		}
		return err
	}
	if len(remaining) > 0 {
		return &UsageError{
			flags: flags,
			err:   fmt.Errorf("unexpected argument %s found after the program file", remaining[0]),
		}
	}
	return nil
}

// ParseFlags parses the command line arguments of the emulator command name.
func ParseFlags(name string, args []string) (Options, error) {
	var opts Options
	if err := Parse(name, &opts, args); err != nil {
		return opts, err
	}
	if opts.ClockHz < 0 || opts.ClockHz > emulator.MaxClockHz {
		return opts, fmt.Errorf("invalid clock rate %d", opts.ClockHz)
	}
	return opts, nil
}

// Emulator returns the cycle driver settings from the config file with the
// command line overrides applied.
func (o Options) Emulator(cfg config.Config) emulator.Config {
	clockHz := cfg.Emulation.ClockHz
	if o.ClockHz > 0 {
		clockHz = o.ClockHz
	}
	return emulator.Config{
		ClockHz:   clockHz,
		MaxCycles: o.Cycles,
		Trace:     o.Trace,
	}
}
