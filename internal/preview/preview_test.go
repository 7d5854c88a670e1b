package preview

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dkmap/internal/config"
	"dkmap/internal/fixture"
	"dkmap/internal/render"
)

func TestCanvasDots(t *testing.T) {
	c := newCanvas(2, 1)
	c.set(0, 0)
	c.set(3, 3)
	c.set(-1, 0)
	c.set(4, 0)
	assert.Equal(t, []string{"⠁⢀"}, c.lines())
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(3, 1)
	c.line(0, 0, 5, 0)
	assert.Equal(t, []string{"⠉⠉⠉"}, c.lines())
}

func TestCanvasFill(t *testing.T) {
	c := newCanvas(2, 2)
	c.fill([][][2]int{{{0, 0}, {3, 0}, {3, 8}, {0, 8}}})
	assert.Equal(t, []string{"⣿⣿", "⣿⣿"}, c.lines())
}

func fixtureResult(t *testing.T, packed bool) (*render.Result, config.Config) {
	t.Helper()
	dir := t.TempDir()
	fixture.Write(t, dir)
	cfg := config.Default()
	cfg.Packed = packed
	cfg.Layers = []string{"municipalities"}
	require.NoError(t, cfg.Validate())
	res, err := render.Run(context.Background(), cfg, render.Dir(dir), nil)
	require.NoError(t, err)
	return res, cfg
}

func TestRenderDrawsCountry(t *testing.T) {
	res, cfg := fixtureResult(t, false)
	lines := Render(res, cfg, 40, 20)
	require.Len(t, lines, 20)
	drawn := 0
	for _, l := range lines {
		assert.Equal(t, 40, utf8.RuneCountInString(l))
		drawn += 40 - strings.Count(l, " ")
	}
	assert.Positive(t, drawn)
}

func TestRenderDefaultsSize(t *testing.T) {
	res, cfg := fixtureResult(t, true)
	lines := Render(res, cfg, 0, 0)
	assert.Len(t, lines, DefaultHeight)
}

func TestViewHasSummary(t *testing.T) {
	res, cfg := fixtureResult(t, true)
	out := View(res, cfg, 30, 10)
	assert.Contains(t, out, "dkmap")
	assert.Contains(t, out, "packed")
	assert.Contains(t, out, "municipalities")
	assert.Contains(t, out, "inset")
}
