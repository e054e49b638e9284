package emulator

import (
	"fmt"
	"os"

	"github.com/mnafees/chopper/internal"
)

// LoadROM loads a given CHIP-8 program file into the VM's memory
func LoadROM(vm *internal.C8VM, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading program file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("program file '%s' is empty", filename)
	}
	if err := vm.LoadProgram(data); err != nil {
		return fmt.Errorf("loading program '%s' (%d bytes): %w", filename, len(data), err)
	}
	return nil
}
