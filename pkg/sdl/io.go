package sdl

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mnafees/chopper/emulator"
	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/set"
	"github.com/veandco/go-sdl2/sdl"
)

// Options configures the SDL window.
type Options struct {
	Title       string
	PixelSize   int    // Edge length of a CHIP-8 pixel in window pixels
	ScreenColor uint32 // Background RGB color
	SpriteColor uint32 // Lit pixel RGB color
}

// IO is the SDL input/output layer for the VM
type IO struct {
	opts Options

	window  *sdl.Window
	surface *sdl.Surface
	painted bool // the whole screen has been drawn at least once

	held set.BitSet // keypad codes currently pressed
}

var _ emulator.Frontend = (*IO)(nil)

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(opts Options) *IO {
	return &IO{
		opts: opts,
		held: set.NewBitSet(),
	}
}

// SetupWindow initialises and sets up the main SDL window. SDL requires all
// calls to come from the thread that initialised it, so the calling
// goroutine stays locked to its thread.
func (io *IO) SetupWindow() error {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	size := int32(io.opts.PixelSize)
	window, err := sdl.CreateWindow(io.opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*size, internal.ScreenHeight*size, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		_ = io.Close()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, io.opts.ScreenColor); err != nil {
		_ = io.Close()
		return fmt.Errorf("clearing window surface: %w", err)
	}
	return io.window.UpdateSurface()
}

// Close destroys the window and shuts SDL down.
func (io *IO) Close() error {
	var err error
	if io.window != nil {
		err = io.window.Destroy()
		io.window = nil
	}
	sdl.Quit()
	return err
}

// Poll drains the SDL event queue and returns false once the window was
// closed or Escape was pressed.
func (io *IO) Poll() bool {
	running := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			keycode := t.Keysym.Scancode
			if keycode == sdl.SCANCODE_ESCAPE {
				running = false
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				io.press(keycode)
			case sdl.KEYUP:
				io.release(keycode)
			}
		case *sdl.QuitEvent:
			running = false
		}
	}
	return running
}

// Key returns the lowest keypad code currently held down.
func (io *IO) Key() internal.Key {
	return heldKey(&io.held)
}

// Render draws the display. The first call paints every pixel, later calls
// only repaint the cells that changed in the last cycle.
func (io *IO) Render(screen emulator.Screen) error {
	if !io.painted {
		if err := io.paintAll(screen); err != nil {
			return err
		}
		io.painted = true
		return io.window.UpdateSurface()
	}

	on, off := screen.Changes()
	if err := io.fillCells(on, io.opts.SpriteColor); err != nil {
		return err
	}
	if err := io.fillCells(off, io.opts.ScreenColor); err != nil {
		return err
	}
	return io.window.UpdateSurface()
}

// Beep rings the terminal bell.
func (io *IO) Beep() {
	fmt.Fprint(os.Stdout, "\a")
}

func (io *IO) paintAll(screen emulator.Screen) error {
	if err := io.surface.FillRect(nil, io.opts.ScreenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	var lit []sdl.Rect
	for y := range internal.ScreenHeight {
		for x := range internal.ScreenWidth {
			if screen.Pixel(x, y) {
				lit = append(lit, io.cellRect(internal.Point{X: x, Y: y}))
			}
		}
	}
	if len(lit) == 0 {
		return nil
	}
	if err := io.surface.FillRects(lit, io.opts.SpriteColor); err != nil {
		return fmt.Errorf("drawing pixels: %w", err)
	}
	return nil
}

func (io *IO) fillCells(cells []internal.Point, color uint32) error {
	if len(cells) == 0 {
		return nil
	}
	rects := make([]sdl.Rect, len(cells))
	for i, cell := range cells {
		rects[i] = io.cellRect(cell)
	}
	if err := io.surface.FillRects(rects, color); err != nil {
		return fmt.Errorf("drawing pixels: %w", err)
	}
	return nil
}

func (io *IO) cellRect(p internal.Point) sdl.Rect {
	size := int32(io.opts.PixelSize)
	return sdl.Rect{X: int32(p.X) * size, Y: int32(p.Y) * size, W: size, H: size}
}

func (io *IO) press(code sdl.Scancode) {
	if key := keymap(code); key.Valid() {
		io.held.Add(int(key))
	}
}

func (io *IO) release(code sdl.Scancode) {
	if key := keymap(code); key.Valid() {
		io.held.Remove(int(key))
	}
}

func heldKey(held *set.BitSet) internal.Key {
	if held.IsEmpty() {
		return internal.NoKey
	}
	return internal.Key(held.Min())
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var keypad = map[sdl.Scancode]internal.Key{
	sdl.SCANCODE_1: 0x1, sdl.SCANCODE_2: 0x2, sdl.SCANCODE_3: 0x3, sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4, sdl.SCANCODE_W: 0x5, sdl.SCANCODE_E: 0x6, sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7, sdl.SCANCODE_S: 0x8, sdl.SCANCODE_D: 0x9, sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA, sdl.SCANCODE_X: 0x0, sdl.SCANCODE_C: 0xB, sdl.SCANCODE_V: 0xF,
}

func keymap(code sdl.Scancode) internal.Key {
	key, ok := keypad[code]
	if !ok {
		return internal.NoKey
	}
	return key
}
