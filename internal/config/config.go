// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/config"
	"github.com/retroenv/retrogolib/log"
)

// Config is the emulator configuration file layout.
type Config struct {
	Emulation Emulation `config:"emulation"`
	Display   Display   `config:"display"`
	Input     Input     `config:"input"`
}

// Emulation contains the machine settings.
type Emulation struct {
	ClockHz             int  `config:"clock_hz,default=60"`
	WrapSprites         bool `config:"wrap_sprites,default=false"`
	LegacyKeyWait       bool `config:"legacy_key_wait,default=false"`
	PartialRegisterCopy bool `config:"partial_register_copy,default=false"`
}

// Display contains the window settings of the SDL frontend.
type Display struct {
	Scale      int `config:"scale,default=20"`
	Background int `config:"background,default=0x1A237E"`
	Foreground int `config:"foreground,default=0x9FA8DA"`
}

// Input contains the keyboard settings.
type Input struct {
	// HoldCycles is the number of cycles a key press stays asserted on
	// terminals that do not report key releases.
	HoldCycles int `config:"hold_cycles,default=6"`
}

// Load reads the configuration file. An empty filename returns the defaults.
func Load(filename string) (Config, error) {
	var cfg Config

	if filename == "" {
		if err := config.LoadBytes(nil, &cfg); err != nil {
			return Config{}, fmt.Errorf("applying config defaults: %w", err)
		}
		return cfg, nil
	}

	if err := config.Load(filename, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config file '%s': %w", filename, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file '%s': %w", filename, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Emulation.ClockHz < 0 || c.Emulation.ClockHz > emulator.MaxClockHz {
		return fmt.Errorf("clock rate %d must be between 0 and %d", c.Emulation.ClockHz, emulator.MaxClockHz)
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("display scale %d must be positive", c.Display.Scale)
	}
	if c.Input.HoldCycles <= 0 {
		return fmt.Errorf("input hold cycles %d must be positive", c.Input.HoldCycles)
	}
	return nil
}

// Quirks returns the interpreter quirks selected in the emulation section.
func (c Config) Quirks() internal.Quirks {
	return internal.Quirks{
		WrapSprites:         c.Emulation.WrapSprites,
		LegacyKeyWait:       c.Emulation.LegacyKeyWait,
		PartialRegisterCopy: c.Emulation.PartialRegisterCopy,
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, trace, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case trace:
		cfg.Level = log.TraceLevel
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
