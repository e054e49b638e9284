package main

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"context"
	"errors"
	"os"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := cli.ParseFlags("chopper", os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
			os.Exit(1)
		}
		logger.Fatal(err.Error())
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

	io := sdl.NewIO(sdl.Options{
		Title:       "Chopper | CHIP-8 Emulator",
		PixelSize:   cfg.Display.Scale,
		ScreenColor: uint32(cfg.Display.Background),
		SpriteColor: uint32(cfg.Display.Foreground),
	})
	if err := io.SetupWindow(); err != nil {
		logger.Fatal("Creating window failed", log.Err(err))
	}

	logger.Info("Running program", log.String("file", opts.ROM))
	emu := emulator.New(logger, vm, io, opts.Emulator(cfg))
	err = emu.Run(app.Context())
	logger.Closer(io, "Closing window failed")
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Emulation stopped", log.Err(err), log.Uint64("cycles", emu.Cycles()))
		os.Exit(1)
	}
}
