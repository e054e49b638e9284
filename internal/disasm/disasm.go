// Package disasm turns CHIP-8 instruction words into assembly text using the
// opcode table of retrogolib's chip8 package.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Line is a single disassembled instruction word.
type Line struct {
	Address uint16
	Opcode  uint16
	Code    string
}

func (l Line) String() string {
	return fmt.Sprintf("$%03X  %04X  %s", l.Address, l.Opcode, l.Code)
}

// Lookup returns the table entry that decodes opcode.
func Lookup(opcode uint16) (chip8.Opcode, bool) {
	for _, op := range chip8.Opcodes[opcode>>12] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// Format returns the assembly text for opcode. Words that do not decode are
// emitted as data.
func Format(opcode uint16) string {
	op, ok := Lookup(opcode)
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode)
	}

	params := formatParams(op.Info, opcode)
	if params == "" {
		return op.Instruction.Name
	}
	return fmt.Sprintf("%s %s", op.Instruction.Name, params)
}

// Listing disassembles a program image that is loaded at base. A trailing odd
// byte is emitted as a data byte.
func Listing(program []byte, base uint16) []Line {
	lines := make([]Line, 0, len(program)/2+1)

	for i := 0; i+1 < len(program); i += 2 {
		opcode := uint16(program[i])<<8 | uint16(program[i+1])
		lines = append(lines, Line{
			Address: base + uint16(i),
			Opcode:  opcode,
			Code:    Format(opcode),
		})
	}

	if len(program)%2 == 1 {
		last := len(program) - 1
		lines = append(lines, Line{
			Address: base + uint16(last),
			Opcode:  uint16(program[last]),
			Code:    fmt.Sprintf(".byte $%02X", program[last]),
		})
	}
	return lines
}

func formatParams(info chip8.OpcodeInfo, opcode uint16) string {
	x := (opcode & 0x0F00) >> 8
	y := (opcode & 0x00F0) >> 4
	n := opcode & 0x000F
	kk := opcode & 0x00FF
	nnn := opcode & 0x0FFF

	switch info {
	case chip8.Opcode00E0, chip8.Opcode00EE:
		return ""
	case chip8.Opcode1000, chip8.Opcode2000:
		return fmt.Sprintf("$%03X", nnn)
	case chip8.OpcodeB000:
		return fmt.Sprintf("V0, $%03X", nnn)
	case chip8.Opcode3000, chip8.Opcode4000, chip8.Opcode6000, chip8.Opcode7000, chip8.OpcodeC000:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case chip8.Opcode8006, chip8.Opcode800E, chip8.OpcodeE09E, chip8.OpcodeE0A1:
		return fmt.Sprintf("V%X", x)
	case chip8.OpcodeA000:
		return fmt.Sprintf("I, $%03X", nnn)
	case chip8.OpcodeD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
	case chip8.OpcodeF007:
		return fmt.Sprintf("V%X, DT", x)
	case chip8.OpcodeF00A:
		return fmt.Sprintf("V%X, K", x)
	case chip8.OpcodeF015:
		return fmt.Sprintf("DT, V%X", x)
	case chip8.OpcodeF018:
		return fmt.Sprintf("ST, V%X", x)
	case chip8.OpcodeF01E:
		return fmt.Sprintf("I, V%X", x)
	case chip8.OpcodeF029:
		return fmt.Sprintf("F, V%X", x)
	case chip8.OpcodeF033:
		return fmt.Sprintf("B, V%X", x)
	case chip8.OpcodeF055:
		return fmt.Sprintf("[I], V%X", x)
	case chip8.OpcodeF065:
		return fmt.Sprintf("V%X, [I]", x)
	default: // 5xy0, 8xy0-8xy7, 9xy0
		return fmt.Sprintf("V%X, V%X", x, y)
	}
}
