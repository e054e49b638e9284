// Package emulator drives a CHIP-8 VM against a frontend at a fixed clock.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// MaxClockHz is the fastest pace a ticker can express, one cycle per nanosecond.
const MaxClockHz = int(time.Second)

// ErrClockRate is returned by Run for a clock rate above MaxClockHz.
var ErrClockRate = errors.New("clock rate too high")

// Config controls the cycle driver.
type Config struct {
	ClockHz   int    // cycles per second, 0 or less runs unpaced
	MaxCycles uint64 // stop after this many cycles, 0 runs until stopped
	Trace     bool   // log every executed instruction at trace level
}

// Emulator runs the main application loop
type Emulator struct {
	logger *log.Logger
	vm     *internal.C8VM
	io     Frontend
	cfg    Config

	cycles  uint64
	waiting bool
}

// New returns a new emulator for the given VM and frontend.
func New(logger *log.Logger, vm *internal.C8VM, io Frontend, cfg Config) *Emulator {
	return &Emulator{
		logger: logger,
		vm:     vm,
		io:     io,
		cfg:    cfg,
	}
}

// Cycles returns the number of cycles run so far.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// Run is the main application loop. It returns nil when the frontend quits
// or the cycle limit is reached, the context error on cancellation and the
// wrapped fault when the VM stops on a fatal error.
func (e *Emulator) Run(ctx context.Context) error {
	if e.cfg.ClockHz > MaxClockHz {
		return fmt.Errorf("%w: %d Hz", ErrClockRate, e.cfg.ClockHz)
	}

	var tick <-chan time.Time
	if e.cfg.ClockHz > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(e.cfg.ClockHz))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if !e.io.Poll() {
			e.logger.Debug("Frontend closed", log.Uint64("cycles", e.cycles))
			return nil
		}

		if err := e.RunCycle(e.io.Key()); err != nil {
			return err
		}

		if e.cfg.MaxCycles > 0 && e.cycles >= e.cfg.MaxCycles {
			e.logger.Debug("Cycle limit reached", log.Uint64("cycles", e.cycles))
			return nil
		}
	}
}

// RunCycle runs a single driver iteration with key asserted: it steps the VM
// and forwards display and sound output to the frontend.
func (e *Emulator) RunCycle(key internal.Key) error {
	e.cycles++

	if e.vm.Waiting() && e.vm.Quirks().LegacyKeyWait && !key.Valid() {
		return nil
	}

	if err := e.vm.Step(key); err != nil {
		return fmt.Errorf("executing cycle %d: %w", e.cycles, err)
	}

	if e.cfg.Trace {
		opcode := e.vm.Opcode()
		e.logger.Trace("Executed",
			log.Hex("pc", e.vm.OpcodeAddr()),
			log.Hex("opcode", opcode),
			log.StringFunc("code", func() string {
				return disasm.Format(opcode)
			}))
	}

	for _, diag := range e.vm.Diagnostics() {
		e.logger.Warn("Ignoring unknown opcode",
			log.Hex("pc", diag.PC),
			log.Hex("opcode", diag.Opcode))
	}

	e.logKeyWait(key)

	if e.vm.RedrawRequested() {
		if err := e.io.Render(e.vm); err != nil {
			return fmt.Errorf("rendering screen: %w", err)
		}
	}
	if e.vm.Beep() {
		e.io.Beep()
	}
	return nil
}

func (e *Emulator) logKeyWait(key internal.Key) {
	waiting := e.vm.Waiting()
	if waiting == e.waiting {
		return
	}
	e.waiting = waiting

	if waiting {
		e.logger.Debug("Waiting for key press", log.Hex("pc", e.vm.OpcodeAddr()))
		return
	}
	e.logger.Debug("Key press received", log.Int("key", int(key)))
}
