package ui

import "testing"

func TestBarCells(t *testing.T) {
	cases := []struct {
		value, total, width, want int
	}{
		{0, 100, 10, 0},
		{50, 100, 10, 5},
		{110, 150, 30, 22},
		{200, 100, 10, 10},
		{-5, 100, 10, 0},
		{5, 0, 10, 0},
	}
	for _, c := range cases {
		if got := BarCells(c.value, c.total, c.width); got != c.want {
			t.Fatalf("BarCells(%d,%d,%d)=%d, want %d", c.value, c.total, c.width, got, c.want)
		}
	}
}
