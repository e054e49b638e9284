package internal

// Point is a display cell coordinate.
type Point struct {
	X, Y int
}

// drawSprite XORs an n-byte sprite read from I onto the display with its top
// left corner at (x, y). VF is set when a lit pixel is turned off.
func (vm *C8VM) drawSprite(x uint8, y uint8, n uint8) error {
	if int(vm.regI)+int(n) > totalMemory {
		return vm.fault(ErrMemoryOutOfBounds)
	}

	vm.drawFlag = true
	vm.regV[0xF] = 0
	originX := int(x) % ScreenWidth
	originY := int(y) % ScreenHeight

	for byteIdx := 0; byteIdx < int(n); byteIdx++ {
		spriteByte := vm.memory[int(vm.regI)+byteIdx]
		py := originY + byteIdx
		if py >= ScreenHeight {
			if !vm.quirks.WrapSprites {
				break
			}
			py %= ScreenHeight
		}

		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			if spriteByte&(0x80>>bitIdx) == 0 {
				continue
			}
			px := originX + bitIdx
			if px >= ScreenWidth {
				if !vm.quirks.WrapSprites {
					break
				}
				px %= ScreenWidth
			}
			vm.togglePixel(px, py)
		}
	}
	return nil
}

func (vm *C8VM) togglePixel(x, y int) {
	idx := y*ScreenWidth + x
	if vm.pixels[idx] {
		vm.regV[0xF] = 1
		vm.turnedOff = append(vm.turnedOff, Point{X: x, Y: y})
	} else {
		vm.turnedOn = append(vm.turnedOn, Point{X: x, Y: y})
	}
	vm.pixels[idx] = !vm.pixels[idx]
}

// clearScreen turns every pixel off. Lit pixels are reported as turned off.
func (vm *C8VM) clearScreen() {
	for idx, lit := range vm.pixels {
		if lit {
			vm.turnedOff = append(vm.turnedOff, Point{X: idx % ScreenWidth, Y: idx / ScreenWidth})
			vm.pixels[idx] = false
		}
	}
	vm.drawFlag = true
}

// Pixel returns whether the pixel at (x, y) is lit
func (vm *C8VM) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return vm.pixels[y*ScreenWidth+x]
}

// Pixels returns a copy of the row-major display bitmap
func (vm *C8VM) Pixels() [ScreenWidth * ScreenHeight]bool {
	return vm.pixels
}

// RedrawRequested returns whether the last step may have changed the display
func (vm *C8VM) RedrawRequested() bool {
	return vm.drawFlag
}

// Changes returns the cells turned on and turned off by the last step. The
// slices are reused by the next call to Step.
func (vm *C8VM) Changes() (on []Point, off []Point) {
	return vm.turnedOn, vm.turnedOff
}
