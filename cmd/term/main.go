//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

// Package main runs CHIP-8 programs inside a terminal.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/term"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := cli.ParseFlags("chopper-term", os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
			os.Exit(1)
		}
		logger.Fatal(err.Error())
	}

	// the display owns stdout, so only errors are logged unless asked for more
	if !opts.Debug && !opts.Trace {
		opts.Quiet = true
	}
	logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		logger.Fatal("Loading configuration failed", log.Err(err))
	}

	vm := internal.NewC8VM(internal.WithQuirks(cfg.Quirks()))
	if err := emulator.LoadROM(vm, opts.ROM); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	if err := term.CheckSize(); err != nil {
		logger.Error("Display will be cut off", log.Err(err))
	}

	io, err := term.NewStdIO(cfg.Input.HoldCycles)
	if err != nil {
		logger.Fatal("Preparing terminal failed", log.Err(err))
	}

	emu := emulator.New(logger, vm, io, opts.Emulator(cfg))
	err = emu.Run(app.Context())
	logger.Closer(io, "Restoring terminal failed")
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Emulation stopped", log.Err(err), log.Uint64("cycles", emu.Cycles()))
		os.Exit(1)
	}
}
