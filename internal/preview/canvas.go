package preview

import "sort"

// canvas is a braille dot matrix: each terminal cell holds 2x4 dots.
type canvas struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newCanvas(w, h int) *canvas {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, m: m}
}

// dots maps a dot position inside a cell to its braille bit.
var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set sets a dot at micro coords (2x4 per cell).
func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= c.h || cx >= c.w {
		return
	}
	c.m[cy][cx] |= dots[mx%2][my%4]
}

// line draws a segment with Bresenham.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// ring outlines a closed ring.
func (c *canvas) ring(r [][2]int) {
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		c.line(a[0], a[1], b[0], b[1])
	}
}

// fill paints the rings with the even-odd rule, one scanline per dot row.
func (c *canvas) fill(rings [][][2]int) {
	for y := 0; y < c.h*4; y++ {
		var xs []int
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a[1] == b[1] {
					continue
				}
				if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
					t := float64(y-a[1]) / float64(b[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(b[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				c.set(x, y)
			}
		}
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			if mask := c.m[y][x]; mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
