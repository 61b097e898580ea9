package uihelpers

import (
	"testing"
	"time"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{800, 800},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 280 || h > 520 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestClampInterval(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, MinInterval},
		{time.Second, MinInterval},
		{MinInterval, MinInterval},
		{10 * time.Second, 10 * time.Second},
		{MaxInterval, MaxInterval},
		{time.Hour, MaxInterval},
	}
	for _, c := range cases {
		if got := ClampInterval(c.in); got != c.want {
			t.Fatalf("ClampInterval(%v) = %v want %v", c.in, got, c.want)
		}
	}
}

func TestBuildNumericTicksAndFormat(t *testing.T) {
	cases := []struct {
		min, max float64
		n        int
	}{
		{0, 100, 6},
		{0, 1, 5},
		{5, 5.2, 4},
		{0, 950, 7},
	}
	for _, c := range cases {
		ticks := BuildNumericTicks(c.min, c.max, c.n)
		if len(ticks) < 2 {
			t.Fatalf("ticks for [%v,%v] too few: %v", c.min, c.max, ticks)
		}
		if ticks[0] > c.min {
			t.Fatalf("first tick %v above min %v", ticks[0], c.min)
		}
		if last := ticks[len(ticks)-1]; last < c.max {
			t.Fatalf("last tick %v below max %v", last, c.max)
		}
		for i := 1; i < len(ticks); i++ {
			if !(ticks[i] > ticks[i-1]) {
				t.Fatalf("ticks not increasing: %v", ticks)
			}
		}
		for _, v := range ticks {
			if FormatNumericTick(v) == "" {
				t.Fatalf("empty label for %v", v)
			}
		}
	}
	if got := BuildNumericTicks(0, 10, 1); got != nil {
		t.Fatalf("n<2 should return nil, got %v", got)
	}
}
