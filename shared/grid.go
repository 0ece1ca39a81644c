package shared

import (
	"fmt"
	"strings"
)

const (
	NUM_INSTRUMENTS = 16
	NUM_STEPS       = 16
	NUM_CELLS       = NUM_INSTRUMENTS * NUM_STEPS
)

// Grid is the 16x16 step matrix flattened row by row:
// index = step + 16*instrument.
type Grid [NUM_CELLS]bool

func Index(instrument, step int) int {
	return step + NUM_STEPS*instrument
}

func (g *Grid) Cell(instrument, step int) bool {
	return g[Index(instrument, step)]
}

func (g *Grid) Set(instrument, step int, on bool) {
	g[Index(instrument, step)] = on
}

func (g *Grid) Toggle(index int) bool {
	g[index] = !g[index]
	return g[index]
}

// Row returns the 16 steps of one instrument.
func (g *Grid) Row(instrument int) (row [NUM_STEPS]bool) {
	copy(row[:], g[instrument*NUM_STEPS:(instrument+1)*NUM_STEPS])
	return
}

func (g *Grid) Count() (n int) {
	for _, on := range g {
		if on {
			n++
		}
	}
	return
}

// String draws one line per instrument, 'x' for an active step and '.' otherwise.
func (g Grid) String() string {
	var b strings.Builder
	for i := 0; i < NUM_INSTRUMENTS; i++ {
		for j := 0; j < NUM_STEPS; j++ {
			if g.Cell(i, j) {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseGrid reads rows written the way String draws them. Missing rows stay empty.
func ParseGrid(rows ...string) (Grid, error) {
	var g Grid
	if len(rows) > NUM_INSTRUMENTS {
		return g, fmt.Errorf("grid has %d rows, at most %d allowed", len(rows), NUM_INSTRUMENTS)
	}
	for i, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != NUM_STEPS {
			return g, fmt.Errorf("row %d: want %d steps, got %d", i, NUM_STEPS, len(row))
		}
		for j, c := range row {
			switch c {
			case 'x', 'X':
				g.Set(i, j, true)
			case '.', '-':
			default:
				return g, fmt.Errorf("row %d step %d: unexpected %q", i, j, c)
			}
		}
	}
	return g, nil
}
