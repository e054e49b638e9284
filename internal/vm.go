package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"math/rand/v2"
)

// CHIP-8 VM constants
const (
	totalMemory   = 0x1000
	pcStartAddr   = 0x200
	fontStartAddr = 0x050
	glyphSize     = 5
	fontSize      = 16 * glyphSize
	stackSize     = 16
	registerCount = 16

	// MaxProgramSize is the largest program image that fits above the reserved area.
	MaxProgramSize = totalMemory - pcStartAddr

	ScreenWidth  = 64
	ScreenHeight = 32
)

// Quirks toggles behaviours that differ between CHIP-8 interpreters.
type Quirks struct {
	// WrapSprites wraps every sprite pixel around the screen edges instead of
	// clipping the pixels that fall past the right or bottom edge.
	WrapSprites bool
	// LegacyKeyWait makes Fx0A only raise the waiting flag after pc has already
	// moved past it. The machine holds until a key is asserted and then resumes
	// at the following instruction without writing the key to Vx.
	LegacyKeyWait bool
	// PartialRegisterCopy restricts Fx55/Fx65 to V0..Vx instead of all registers.
	PartialRegisterCopy bool
}

// Option configures a C8VM at construction time.
type Option func(vm *C8VM)

// WithQuirks sets the interpreter quirks.
func WithQuirks(q Quirks) Option {
	return func(vm *C8VM) {
		vm.quirks = q
	}
}

// WithRandom replaces the random byte source used by RND.
func WithRandom(source func() uint8) Option {
	return func(vm *C8VM) {
		vm.random = source
	}
}

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     uint16               // 16-bit opcode of the current instruction
	opcodeAddr uint16               // Address the current opcode was fetched from
	regV       [registerCount]uint8 // 16 general purpose 8-bit registers
	regI       uint16               // 16-bit register that is generally used to store memory addresses
	delayTimer uint8                // Delay timer
	soundTimer uint8                // Sound timer
	pc         uint16               // Program counter
	sp         uint8                // Stack pointer
	stack      [stackSize]uint16    // A stack of 16 16-bit values
	memory     [totalMemory]uint8   // 4 KB global memory

	// 64 px x 32 px display, row-major
	pixels    [ScreenWidth * ScreenHeight]bool
	drawFlag  bool
	turnedOn  []Point
	turnedOff []Point

	waiting bool // Halted until a key is asserted
	beep    bool // Sound timer reached zero during the last step

	diagnostics []Diagnostic

	quirks Quirks
	random func() uint8
}

var fontset = [fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM with the built-in
// font already copied to the font area.
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{
		pc:     pcStartAddr,
		random: randomByte,
	}
	for _, opt := range opts {
		opt(vm)
	}
	copy(vm.memory[fontStartAddr:], fontset[:])
	return vm
}

func randomByte() uint8 {
	return uint8(rand.UintN(256))
}

// LoadProgram copies a program image into the VM's memory at 0x200
func (vm *C8VM) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return ErrProgramTooLarge
	}
	copy(vm.memory[pcStartAddr:], data)
	return nil
}

// LoadFont replaces the 16 hexadecimal glyphs stored at 0x050.
func (vm *C8VM) LoadFont(font []byte) error {
	if len(font) != fontSize {
		return ErrInvalidFont
	}
	copy(vm.memory[fontStartAddr:], font)
	return nil
}

// Quirks returns the quirks the VM was created with.
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// Index returns the value of I
func (vm *C8VM) Index() uint16 {
	return vm.regI
}

// V returns the value of register Vi. It panics for i above 0xF.
func (vm *C8VM) V(i uint8) uint8 {
	return vm.regV[i]
}

// Opcode returns the most recently fetched opcode
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// OpcodeAddr returns the address the most recent opcode was fetched from
func (vm *C8VM) OpcodeAddr() uint16 {
	return vm.opcodeAddr
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// StackDepth returns the number of return addresses on the stack
func (vm *C8VM) StackDepth() int {
	return int(vm.sp)
}

// Peek returns the memory byte at addr, or 0 for an address outside memory.
func (vm *C8VM) Peek(addr uint16) uint8 {
	if int(addr) >= totalMemory {
		return 0
	}
	return vm.memory[addr]
}

// Beep returns whether the sound timer reached zero during the last step
func (vm *C8VM) Beep() bool {
	return vm.beep
}

// Diagnostics returns the recoverable problems reported during the last step.
// The slice is reused by the next call to Step.
func (vm *C8VM) Diagnostics() []Diagnostic {
	return vm.diagnostics
}
