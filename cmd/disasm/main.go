// Package main prints an assembly listing of a CHIP-8 program.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

const programStart = 0x200

type options struct {
	Output string `flag:"o" usage:"name of the output file, printed on console if no name given"`
	Debug  bool   `flag:"debug" usage:"enable debugging options for extended logging"`
	Quiet  bool   `flag:"q" usage:"perform operations quietly"`

	ROM string `arg:"positional" usage:"CHIP-8 program to disassemble" required:"true"`
}

func main() {
	var opts options
	err := cli.Parse("chopper-disasm", &opts, os.Args[1:])
	logger := config.CreateLogger(opts.Debug, false, opts.Quiet)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
			os.Exit(1)
		}
		logger.Fatal(err.Error())
	}

	if err := run(logger, opts); err != nil {
		logger.Fatal("Disassembling failed", log.Err(err))
	}
}

func run(logger *log.Logger, opts options) error {
	data, err := os.ReadFile(opts.ROM)
	if err != nil {
		return fmt.Errorf("reading program file: %w", err)
	}

	out := os.Stdout
	if opts.Output != "" {
		out, err = os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer logger.Closer(out, "Closing output file failed")
	}

	lines := disasm.Listing(data, programStart)
	logger.Debug("Disassembled program",
		log.String("file", opts.ROM),
		log.Int("size", len(data)),
		log.Int("instructions", len(lines)))

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "; %s\n", opts.ROM)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}
