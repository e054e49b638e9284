package internal

// Key is a hexadecimal keypad code in the range 0x0-0xF, or NoKey.
type Key int8

// NoKey means no key is asserted.
const NoKey Key = -1

// Valid reports whether k is one of the 16 keypad codes.
func (k Key) Valid() bool {
	return k >= 0 && k <= 0xF
}

// Waiting returns whether the machine is blocked on an Fx0A key wait
func (vm *C8VM) Waiting() bool {
	return vm.waiting
}

func (vm *C8VM) keyMatches(value uint8, key Key) bool {
	return key.Valid() && value == uint8(key)
}

// waitForKey handles LD Vx, K. Unless the legacy quirk is set, pc is moved
// back onto the instruction until a key is asserted.
func (vm *C8VM) waitForKey(x uint8, key Key) {
	if vm.quirks.LegacyKeyWait {
		vm.waiting = true
		return
	}
	if !key.Valid() {
		vm.waiting = true
		vm.pc -= 2
		return
	}
	vm.waiting = false
	vm.regV[x] = uint8(key)
}
