package internal

// Step runs one machine cycle: fetch the instruction at pc, execute it with
// key as the asserted keypad code and tick both timers. A non-nil error is
// always a *Fault and leaves the machine unusable.
func (vm *C8VM) Step(key Key) error {
	vm.drawFlag = false
	vm.beep = false
	vm.turnedOn = vm.turnedOn[:0]
	vm.turnedOff = vm.turnedOff[:0]
	vm.diagnostics = vm.diagnostics[:0]

	if vm.waiting && vm.quirks.LegacyKeyWait {
		if !key.Valid() {
			return nil
		}
		vm.waiting = false
	}

	vm.opcodeAddr = vm.pc
	if int(vm.pc)+1 >= totalMemory {
		vm.opcode = 0
		return vm.fault(ErrMemoryOutOfBounds)
	}
	vm.opcode = uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1]) // 16-bit instruction opcode
	vm.pc += 2

	if err := vm.execute(key); err != nil {
		return err
	}
	vm.tickTimers()
	return nil
}

func (vm *C8VM) tickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
		if vm.soundTimer == 0 {
			vm.beep = true
		}
	}
}

func (vm *C8VM) skip() {
	vm.pc += 2
}

func (vm *C8VM) execute(key Key) error {
	x := uint8((vm.opcode >> 8) & 0x000F) // the lower 4 bits of the high byte of the instruction
	y := uint8((vm.opcode >> 4) & 0x000F) // the upper 4 bits of the low byte of the instruction
	n := uint8(vm.opcode & 0x000F)        // the lowest 4 bits of the instruction
	kk := uint8(vm.opcode & 0x00FF)       // the lowest 8 bits of the instruction
	nnn := vm.opcode & 0x0FFF             // the lowest 12 bits of the instruction

	switch vm.opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch vm.opcode {
		case 0x00E0: // CLS
			vm.clearScreen()
		case 0x00EE: // RET
			if vm.sp == 0 {
				return vm.fault(ErrStackUnderflow)
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
		default:
			vm.unknownOpcode()
		}
	case 0x1000: // JP nnn
		vm.pc = nnn
	case 0x2000: // CALL nnn
		if int(vm.sp) >= stackSize {
			return vm.fault(ErrStackOverflow)
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = nnn
	case 0x3000: // SE Vx, kk
		if vm.regV[x] == kk {
			vm.skip()
		}
	case 0x4000: // SNE Vx, kk
		if vm.regV[x] != kk {
			vm.skip()
		}
	case 0x5000: // SE Vx, Vy
		if n != 0 {
			vm.unknownOpcode()
		} else if vm.regV[x] == vm.regV[y] {
			vm.skip()
		}
	case 0x6000: // LD Vx, kk
		vm.regV[x] = kk
	case 0x7000: // ADD Vx, kk
		vm.regV[x] += kk
	case 0x8000:
		vm.executeALU(x, y, n)
	case 0x9000: // SNE Vx, Vy
		if n != 0 {
			vm.unknownOpcode()
		} else if vm.regV[x] != vm.regV[y] {
			vm.skip()
		}
	case 0xA000: // LD I, nnn
		vm.regI = nnn
	case 0xB000: // JP V0, nnn
		vm.pc = nnn + uint16(vm.regV[0])
	case 0xC000: // RND Vx, kk
		vm.regV[x] = vm.random() & kk
	case 0xD000: // DRW Vx, Vy, n
		return vm.drawSprite(vm.regV[x], vm.regV[y], n)
	case 0xE000:
		switch kk {
		case 0x9E: // SKP Vx
			if vm.keyMatches(vm.regV[x], key) {
				vm.skip()
			}
		case 0xA1: // SKNP Vx
			if !vm.keyMatches(vm.regV[x], key) {
				vm.skip()
			}
		default:
			vm.unknownOpcode()
		}
	case 0xF000:
		return vm.executeMisc(x, kk, key)
	}
	return nil
}

// executeALU runs the 8xyn register-register instructions. VF is written
// after the result so the flag wins when x is F.
func (vm *C8VM) executeALU(x, y, n uint8) {
	vx, vy := vm.regV[x], vm.regV[y]

	switch n {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vy
	case 0x1: // OR Vx, Vy
		vm.regV[x] = vx | vy
	case 0x2: // AND Vx, Vy
		vm.regV[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = boolToFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		vm.regV[x] = vx - vy
		vm.regV[0xF] = boolToFlag(vx >= vy)
	case 0x6: // SHR Vx {, Vy}
		vm.regV[x] = vx >> 1
		vm.regV[0xF] = vx & 0x01
	case 0x7: // SUBN Vx, Vy
		vm.regV[x] = vy - vx
		vm.regV[0xF] = boolToFlag(vy >= vx)
	case 0xE: // SHL Vx {, Vy}
		vm.regV[x] = vx << 1
		vm.regV[0xF] = vx >> 7
	default:
		vm.unknownOpcode()
	}
}

func (vm *C8VM) executeMisc(x, kk uint8, key Key) error {
	switch kk {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		vm.waitForKey(x, key)
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		sum := uint32(vm.regI) + uint32(vm.regV[x])
		if sum > 0xFFFF { // I would wrap back into low memory
			return vm.fault(ErrMemoryOutOfBounds)
		}
		vm.regI = uint16(sum)
	case 0x29: // LD F, Vx
		vm.regI = fontStartAddr + uint16(vm.regV[x]&0x0F)*glyphSize
	case 0x33: // LD B, Vx
		if int(vm.regI)+3 > totalMemory {
			return vm.fault(ErrMemoryOutOfBounds)
		}
		digits := DecimalDigits(vm.regV[x])
		copy(vm.memory[vm.regI:], digits[:])
	case 0x55: // LD [I], Vx
		count := vm.registerBlock(x)
		if int(vm.regI)+count > totalMemory {
			return vm.fault(ErrMemoryOutOfBounds)
		}
		copy(vm.memory[vm.regI:], vm.regV[:count])
	case 0x65: // LD Vx, [I]
		count := vm.registerBlock(x)
		if int(vm.regI)+count > totalMemory {
			return vm.fault(ErrMemoryOutOfBounds)
		}
		copy(vm.regV[:count], vm.memory[vm.regI:])
	default:
		vm.unknownOpcode()
	}
	return nil
}

// registerBlock returns how many registers Fx55/Fx65 transfer.
func (vm *C8VM) registerBlock(x uint8) int {
	if vm.quirks.PartialRegisterCopy {
		return int(x) + 1
	}
	return registerCount
}

// DecimalDigits splits value into its hundreds, tens and ones digits.
func DecimalDigits(value uint8) [3]uint8 {
	var digits [3]uint8
	for i := len(digits) - 1; i >= 0; i-- {
		digits[i] = value % 10
		value /= 10
	}
	return digits
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
