//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/assert"
)

type fakeScreen map[internal.Point]bool

func (s fakeScreen) Pixel(x, y int) bool {
	return s[internal.Point{X: x, Y: y}]
}

func (s fakeScreen) Changes() (on, off []internal.Point) {
	return nil, nil
}

func TestKeyHold(t *testing.T) {
	io := NewIO(strings.NewReader("w"), &bytes.Buffer{}, 3)
	assert.Equal(t, internal.NoKey, io.Key())

	for range 3 {
		assert.True(t, io.Poll())
		assert.Equal(t, internal.Key(0x5), io.Key())
	}
	assert.True(t, io.Poll())
	assert.Equal(t, internal.NoKey, io.Key())
}

func TestLastKeyWins(t *testing.T) {
	io := NewIO(strings.NewReader("qp4"), &bytes.Buffer{}, 1)

	assert.True(t, io.Poll())
	assert.Equal(t, internal.Key(0xC), io.Key())
}

func TestEscapeQuits(t *testing.T) {
	io := NewIO(strings.NewReader("x\x1bw"), &bytes.Buffer{}, 2)

	assert.False(t, io.Poll())
	assert.Equal(t, internal.Key(0x0), io.Key())
	assert.False(t, io.Poll())
}

func TestRender(t *testing.T) {
	var out bytes.Buffer
	io := NewIO(strings.NewReader(""), &out, 1)

	screen := fakeScreen{
		{X: 0, Y: 0}: true,
		{X: 0, Y: 1}: true,
		{X: 1, Y: 0}: true,
		{X: 2, Y: 1}: true,
	}
	assert.NoError(t, io.Render(screen))

	output := out.String()
	assert.True(t, strings.HasPrefix(output, hideCursor+clearScreen+cursorHome))
	lines := strings.Split(strings.TrimPrefix(output, hideCursor+clearScreen+cursorHome), "\r\n")
	assert.Len(t, lines, internal.ScreenHeight/2+1)
	assert.True(t, strings.HasPrefix(lines[0], "█▀▄ "))
	assert.Equal(t, strings.Repeat(" ", internal.ScreenWidth), lines[1])

	out.Reset()
	assert.NoError(t, io.Render(screen))
	assert.True(t, strings.HasPrefix(out.String(), cursorHome))

	assert.NoError(t, io.Close())
	assert.Contains(t, out.String(), showCursor)
}

func TestBeep(t *testing.T) {
	var out bytes.Buffer
	io := NewIO(strings.NewReader(""), &out, 1)

	io.Beep()
	assert.Equal(t, "\a", out.String())
}
