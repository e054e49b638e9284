package internal

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

// program assembles instruction words into a big-endian program image.
func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

func newTestVM(t *testing.T, opts []Option, words ...uint16) *C8VM {
	t.Helper()
	vm := NewC8VM(opts...)
	assert.NoError(t, vm.LoadProgram(program(words...)))
	return vm
}

// run steps the machine n times with no key asserted.
func run(t *testing.T, vm *C8VM, n int) {
	t.Helper()
	for range n {
		assert.NoError(t, vm.Step(NoKey))
	}
}

func TestNewC8VM(t *testing.T) {
	vm := NewC8VM()

	assert.Equal(t, pcStartAddr, vm.PC())
	assert.Equal(t, 0, vm.StackDepth())
	assert.Equal(t, 0, vm.DelayTimer())
	assert.Equal(t, 0, vm.SoundTimer())
	assert.False(t, vm.Waiting())
	for i := range fontSize {
		assert.Equal(t, fontset[i], vm.Peek(uint16(fontStartAddr+i)))
	}
	assert.Equal(t, 0, vm.Peek(pcStartAddr))
	assert.Equal(t, 0, vm.Peek(totalMemory))
}

func TestRegisterIndexOutOfRange(t *testing.T) {
	vm := NewC8VM()

	assert.NotPanics(t, func() { vm.V(0xF) })
	assert.Panics(t, func() { vm.V(registerCount) })
}

func TestLoadProgram(t *testing.T) {
	vm := NewC8VM()

	assert.NoError(t, vm.LoadProgram(make([]byte, MaxProgramSize)))
	err := vm.LoadProgram(make([]byte, MaxProgramSize+1))
	assert.ErrorIs(t, err, ErrProgramTooLarge)

	assert.NoError(t, vm.LoadProgram([]byte{0x12, 0x34}))
	assert.Equal(t, 0x12, vm.Peek(0x200))
	assert.Equal(t, 0x34, vm.Peek(0x201))
}

func TestLoadFont(t *testing.T) {
	vm := NewC8VM()

	assert.ErrorIs(t, vm.LoadFont(make([]byte, fontSize-1)), ErrInvalidFont)

	font := make([]byte, fontSize)
	for i := range font {
		font[i] = byte(i)
	}
	assert.NoError(t, vm.LoadFont(font))
	assert.Equal(t, 0, vm.Peek(fontStartAddr))
	assert.Equal(t, fontSize-1, vm.Peek(fontStartAddr+fontSize-1))
}

func TestLoadAddWrap(t *testing.T) {
	for x := range registerCount {
		vm := newTestVM(t, nil,
			0x6000|uint16(x)<<8|0xF0, // LD Vx, F0
			0x7000|uint16(x)<<8|0x20, // ADD Vx, 20
		)
		vm.regV[0xF] = 0x42
		run(t, vm, 2)

		assert.Equal(t, 0x10, vm.V(uint8(x)))
		if x != 0xF {
			assert.Equal(t, 0x42, vm.V(0xF), "ADD Vx, kk must not touch VF")
		}
	}
}

func TestALU(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		result uint8
		flag   uint8
	}{
		{"ld", 0x8120, 0x01, 0x02, 0x02, 0x00},
		{"or", 0x8121, 0xF0, 0x0F, 0xFF, 0x00},
		{"and", 0x8122, 0xF3, 0x3F, 0x33, 0x00},
		{"xor", 0x8123, 0xFF, 0x0F, 0xF0, 0x00},
		{"add carry", 0x8124, 0xFF, 0x01, 0x00, 0x01},
		{"add no carry", 0x8124, 0x10, 0x01, 0x11, 0x00},
		{"sub borrow", 0x8125, 0x01, 0x02, 0xFF, 0x00},
		{"sub no borrow", 0x8125, 0x02, 0x01, 0x01, 0x01},
		{"sub equal", 0x8125, 0x05, 0x05, 0x00, 0x01},
		{"shr odd", 0x8126, 0x03, 0x00, 0x01, 0x01},
		{"shr even", 0x8126, 0x04, 0x00, 0x02, 0x00},
		{"subn no borrow", 0x8127, 0x01, 0x03, 0x02, 0x01},
		{"subn borrow", 0x8127, 0x03, 0x01, 0xFE, 0x00},
		{"shl high bit", 0x812E, 0x81, 0x00, 0x02, 0x01},
		{"shl low", 0x812E, 0x41, 0x00, 0x82, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, nil, tt.opcode)
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			run(t, vm, 1)

			assert.Equal(t, tt.result, vm.V(1))
			assert.Equal(t, tt.flag, vm.V(0xF))
		})
	}
}

func TestALUFlagWinsOverResult(t *testing.T) {
	vm := newTestVM(t, nil, 0x8F14) // ADD VF, V1
	vm.regV[0xF] = 0x10
	vm.regV[1] = 0x02
	run(t, vm, 1)

	assert.Equal(t, 0, vm.V(0xF))
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		skip   bool
	}{
		{"se kk equal", 0x3142, 0x42, 0x00, true},
		{"se kk differ", 0x3142, 0x41, 0x00, false},
		{"sne kk equal", 0x4142, 0x42, 0x00, false},
		{"sne kk differ", 0x4142, 0x41, 0x00, true},
		{"se vy equal", 0x5120, 0x07, 0x07, true},
		{"se vy differ", 0x5120, 0x07, 0x08, false},
		{"sne vy equal", 0x9120, 0x07, 0x07, false},
		{"sne vy differ", 0x9120, 0x07, 0x08, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, nil, tt.opcode)
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			run(t, vm, 1)

			expected := uint16(0x202)
			if tt.skip {
				expected = 0x204
			}
			assert.Equal(t, expected, vm.PC())
		})
	}
}

func TestJumps(t *testing.T) {
	vm := newTestVM(t, nil, 0x1ABC)
	run(t, vm, 1)
	assert.Equal(t, 0xABC, vm.PC())

	vm = newTestVM(t, nil, 0x6010, 0xB300) // LD V0, 10; JP V0, 300
	run(t, vm, 2)
	assert.Equal(t, 0x310, vm.PC())
}

func TestCallReturn(t *testing.T) {
	vm := newTestVM(t, nil,
		0x2206, // 200: CALL 206
		0x0000, // 202
		0x0000, // 204
		0x00EE, // 206: RET
	)
	run(t, vm, 1)
	assert.Equal(t, 0x206, vm.PC())
	assert.Equal(t, 1, vm.StackDepth())

	run(t, vm, 1)
	assert.Equal(t, 0x202, vm.PC())
	assert.Equal(t, 0, vm.StackDepth())
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, nil, 0x00EE)

	err := vm.Step(NoKey)
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.ErrorIs(t, err, chip8.ErrStackUnderflow)

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, 0x200, fault.PC)
	assert.Equal(t, 0x00EE, fault.Opcode)
}

func TestStackOverflow(t *testing.T) {
	vm := newTestVM(t, nil, 0x2200) // CALL 200
	run(t, vm, stackSize)
	assert.Equal(t, stackSize, vm.StackDepth())

	err := vm.Step(NoKey)
	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.Equal(t, stackSize, vm.StackDepth())
}

func TestFetchOutOfBounds(t *testing.T) {
	vm := newTestVM(t, nil, 0x1FFF) // JP FFF
	run(t, vm, 1)

	err := vm.Step(NoKey)
	assert.ErrorIs(t, err, ErrMemoryOutOfBounds)
}

func TestUnknownOpcode(t *testing.T) {
	opcodes := []uint16{0x0123, 0x5121, 0x8128, 0x912F, 0xE1FF, 0xF1FF}

	for _, opcode := range opcodes {
		vm := newTestVM(t, nil, opcode, 0x6105)
		vm.delayTimer = 2

		assert.NoError(t, vm.Step(NoKey))
		diags := vm.Diagnostics()
		assert.Len(t, diags, 1)
		assert.ErrorIs(t, diags[0].Err, ErrUnknownOpcode)
		assert.Equal(t, 0x200, diags[0].PC)
		assert.Equal(t, opcode, diags[0].Opcode)
		assert.Equal(t, 0x202, vm.PC())
		assert.Equal(t, 1, vm.DelayTimer())

		run(t, vm, 1)
		assert.Empty(t, vm.Diagnostics())
		assert.Equal(t, 5, vm.V(1))
	}
}

func TestIndexInstructions(t *testing.T) {
	vm := newTestVM(t, nil,
		0xA123, // LD I, 123
		0x6105, // LD V1, 05
		0xF11E, // ADD I, V1
		0x621A, // LD V2, 1A
		0xF229, // LD F, V2
	)
	run(t, vm, 1)
	assert.Equal(t, 0x123, vm.Index())
	run(t, vm, 2)
	assert.Equal(t, 0x128, vm.Index())
	run(t, vm, 2)
	assert.Equal(t, fontStartAddr+0xA*glyphSize, vm.Index())
}

func TestIndexAddOverflow(t *testing.T) {
	vm := newTestVM(t, nil,
		0x601F, // LD V0, 1F
		0xF01E, // ADD I, V0
		0xF01E, // ADD I, V0
	)
	vm.regI = 0xFFE0
	run(t, vm, 2)
	assert.Equal(t, 0xFFFF, vm.Index())

	err := vm.Step(NoKey)
	assert.ErrorIs(t, err, ErrMemoryOutOfBounds)
	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, 0x204, fault.PC)
	assert.Equal(t, 0xFFFF, vm.Index())
}

func TestRandom(t *testing.T) {
	vm := newTestVM(t, []Option{WithRandom(func() uint8 { return 0xAB })}, 0xC10F)
	run(t, vm, 1)

	assert.Equal(t, 0x0B, vm.V(1))
}

func TestDecimalDigits(t *testing.T) {
	tests := []struct {
		value    uint8
		expected [3]uint8
	}{
		{0, [3]uint8{0, 0, 0}},
		{9, [3]uint8{0, 0, 9}},
		{42, [3]uint8{0, 4, 2}},
		{100, [3]uint8{1, 0, 0}},
		{255, [3]uint8{2, 5, 5}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DecimalDigits(tt.value))
	}
}

func TestStoreBCD(t *testing.T) {
	vm := newTestVM(t, nil, 0xA300, 0x61FF, 0xF133)
	run(t, vm, 3)

	assert.Equal(t, 2, vm.Peek(0x300))
	assert.Equal(t, 5, vm.Peek(0x301))
	assert.Equal(t, 5, vm.Peek(0x302))

	vm = newTestVM(t, nil, 0xAFFE, 0xF133)
	run(t, vm, 1)
	assert.ErrorIs(t, vm.Step(NoKey), ErrMemoryOutOfBounds)
}

func TestRegisterBlockCopy(t *testing.T) {
	vm := newTestVM(t, nil, 0xA300, 0xF355)
	for i := range registerCount {
		vm.regV[i] = uint8(i + 1)
	}
	run(t, vm, 2)
	for i := range registerCount {
		assert.Equal(t, i+1, vm.Peek(uint16(0x300+i)))
	}

	vm = newTestVM(t, []Option{WithQuirks(Quirks{PartialRegisterCopy: true})}, 0xA300, 0xF355)
	for i := range registerCount {
		vm.regV[i] = uint8(i + 1)
	}
	run(t, vm, 2)
	assert.Equal(t, 4, vm.Peek(0x303))
	assert.Equal(t, 0, vm.Peek(0x304))
}

func TestRegisterBlockLoad(t *testing.T) {
	vm := newTestVM(t, []Option{WithQuirks(Quirks{PartialRegisterCopy: true})},
		0xA206, // LD I, 206
		0xF165, // LD V1, [I]
		0x1204, // JP 204
		0x1122, // data
	)
	vm.regV[2] = 0x77
	run(t, vm, 2)

	assert.Equal(t, 0x11, vm.V(0))
	assert.Equal(t, 0x22, vm.V(1))
	assert.Equal(t, 0x77, vm.V(2))
}

func TestRegisterBlockOutOfBounds(t *testing.T) {
	vm := newTestVM(t, nil, 0xAFF8, 0xF065)
	run(t, vm, 1)

	assert.ErrorIs(t, vm.Step(NoKey), ErrMemoryOutOfBounds)
}

func TestTimerDecay(t *testing.T) {
	vm := newTestVM(t, nil, 0x1200) // JP 200
	vm.delayTimer = 60

	run(t, vm, 59)
	assert.Equal(t, 1, vm.DelayTimer())
	run(t, vm, 1)
	assert.Equal(t, 0, vm.DelayTimer())
	run(t, vm, 5)
	assert.Equal(t, 0, vm.DelayTimer())
}

func TestTimerLoad(t *testing.T) {
	vm := newTestVM(t, nil,
		0x610A, // LD V1, 0A
		0xF115, // LD DT, V1
		0xF207, // LD V2, DT
	)
	run(t, vm, 3)

	// loaded with 10, ticked once after the load and read before the second tick
	assert.Equal(t, 9, vm.V(2))
	assert.Equal(t, 8, vm.DelayTimer())
}

func TestBeep(t *testing.T) {
	vm := newTestVM(t, nil, 0x6102, 0xF118, 0x1204)
	run(t, vm, 2)
	assert.Equal(t, 1, vm.SoundTimer())
	assert.False(t, vm.Beep())

	run(t, vm, 1)
	assert.Equal(t, 0, vm.SoundTimer())
	assert.True(t, vm.Beep())

	run(t, vm, 1)
	assert.False(t, vm.Beep())
}
