package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyValid(t *testing.T) {
	assert.False(t, NoKey.Valid())
	assert.True(t, Key(0).Valid())
	assert.True(t, Key(0xF).Valid())
	assert.False(t, Key(0x10).Valid())
}

func TestSkipOnKey(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		key      Key
		expected uint16
	}{
		{"skp match", 0xE19E, 5, 0x204},
		{"skp other key", 0xE19E, 6, 0x202},
		{"skp no key", 0xE19E, NoKey, 0x202},
		{"sknp match", 0xE1A1, 5, 0x202},
		{"sknp other key", 0xE1A1, 6, 0x204},
		{"sknp no key", 0xE1A1, NoKey, 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, nil, tt.opcode)
			vm.regV[1] = 5
			assert.NoError(t, vm.Step(tt.key))
			assert.Equal(t, tt.expected, vm.PC())
		})
	}
}

func TestWaitForKeyBlocksInPlace(t *testing.T) {
	vm := newTestVM(t, nil, 0xF30A, 0x6101)
	vm.delayTimer = 10

	run(t, vm, 3)
	assert.True(t, vm.Waiting())
	assert.Equal(t, 0x200, vm.PC())
	assert.Equal(t, 7, vm.DelayTimer())

	assert.NoError(t, vm.Step(0xB))
	assert.False(t, vm.Waiting())
	assert.Equal(t, 0xB, vm.V(3))
	assert.Equal(t, 0x202, vm.PC())

	assert.NoError(t, vm.Step(0xB))
	assert.Equal(t, 1, vm.V(1))
}

func TestWaitForKeyLegacy(t *testing.T) {
	vm := newTestVM(t, []Option{WithQuirks(Quirks{LegacyKeyWait: true})}, 0xF30A, 0x6101)
	vm.delayTimer = 10

	run(t, vm, 1)
	assert.True(t, vm.Waiting())
	assert.Equal(t, 0x202, vm.PC())
	assert.Equal(t, 9, vm.DelayTimer())

	// held without a key: nothing executes and the timers are frozen
	run(t, vm, 3)
	assert.True(t, vm.Waiting())
	assert.Equal(t, 0x202, vm.PC())
	assert.Equal(t, 9, vm.DelayTimer())
	assert.Equal(t, 0, vm.V(1))

	assert.NoError(t, vm.Step(0xB))
	assert.False(t, vm.Waiting())
	assert.Equal(t, 0, vm.V(3))
	assert.Equal(t, 1, vm.V(1))
	assert.Equal(t, 0x204, vm.PC())
}
