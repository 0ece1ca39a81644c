package shared

import "testing"

func TestGridIndexing(t *testing.T) {
	var g Grid
	g.Set(2, 5, true)
	if !g[5+16*2] {
		t.Fatalf("expected cell 37 to be set")
	}
	if !g.Cell(2, 5) {
		t.Fatalf("expected Cell(2, 5) to be true")
	}
	if g.Count() != 1 {
		t.Fatalf("expected 1 active cell, got %d", g.Count())
	}
	if g.Toggle(Index(2, 5)) {
		t.Fatalf("toggle should clear the cell")
	}
	if g.Count() != 0 {
		t.Fatalf("expected empty grid, got %d cells", g.Count())
	}
}

func TestGridIsCopiedOnAssignment(t *testing.T) {
	var g Grid
	snapshot := g
	g.Set(0, 0, true)
	if snapshot.Cell(0, 0) {
		t.Fatalf("snapshot must not see later edits")
	}
}

func TestParseGridRoundTrip(t *testing.T) {
	g, err := ParseGrid(
		"x...x...x...x...",
		"..x...x...x...x.",
	)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if g.Count() != 8 {
		t.Fatalf("expected 8 cells, got %d", g.Count())
	}
	row := g.Row(1)
	if !row[2] || row[0] {
		t.Fatalf("unexpected row 1: %v", row)
	}
	back, err := ParseGrid(splitLines(g.String())...)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if back != g {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", back, g)
	}
}

func TestParseGridRejectsBadRows(t *testing.T) {
	if _, err := ParseGrid("x..."); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, err := ParseGrid("x...o...x...x..."); err == nil {
		t.Fatalf("expected error for unknown character")
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
