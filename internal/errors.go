package internal

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Fatal conditions share their sentinels with retrogolib's CHIP-8 package so
// callers can match against either.
var (
	ErrStackOverflow     = chip8.ErrStackOverflow
	ErrStackUnderflow    = chip8.ErrStackUnderflow
	ErrMemoryOutOfBounds = chip8.ErrMemoryOutOfBounds
)

var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	ErrInvalidFont     = fmt.Errorf("font data must be exactly %d bytes", fontSize)
)

// Fault is a fatal error raised by Step. The machine must not be stepped
// again after a fault.
type Fault struct {
	PC     uint16 // Address of the faulting instruction
	Opcode uint16
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("opcode %04X at $%03X: %v", f.Opcode, f.PC, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Diagnostic is a recoverable problem; the instruction was treated as a no-op.
type Diagnostic struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("opcode %04X at $%03X: %v", d.Opcode, d.PC, d.Err)
}

func (vm *C8VM) fault(err error) error {
	return &Fault{
		PC:     vm.opcodeAddr,
		Opcode: vm.opcode,
		Err:    err,
	}
}

func (vm *C8VM) unknownOpcode() {
	vm.diagnostics = append(vm.diagnostics, Diagnostic{
		PC:     vm.opcodeAddr,
		Opcode: vm.opcode,
		Err:    ErrUnknownOpcode,
	})
}
