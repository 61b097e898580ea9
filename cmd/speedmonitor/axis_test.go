package main

import (
	"testing"
	"time"
)

func TestNiceAxisBoundsContainData(t *testing.T) {
	cases := []struct{ min, max float64 }{
		{0, 100},
		{12.5, 95.2},
		{0.1, 0.9},
		{50, 50}, // degenerate span
	}
	for _, c := range cases {
		lo, hi := niceAxisBounds(c.min, c.max)
		if lo > c.min {
			t.Fatalf("lower bound %v above data min %v", lo, c.min)
		}
		if hi < c.max {
			t.Fatalf("upper bound %v below data max %v", hi, c.max)
		}
		if !(hi > lo) {
			t.Fatalf("bounds not ordered: [%v,%v]", lo, hi)
		}
	}
}

func TestNiceTicksLabeled(t *testing.T) {
	ticks := niceTicks(0, 100, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %v", ticks)
	}
	for _, tick := range ticks {
		if tick.Label == "" {
			t.Fatalf("unlabeled tick at %v", tick.Value)
		}
	}
}

func TestPickTimeStepMonotone(t *testing.T) {
	spans := []time.Duration{
		time.Minute,
		5 * time.Minute,
		20 * time.Minute,
		time.Hour,
		4 * time.Hour,
		12 * time.Hour,
		48 * time.Hour,
	}
	var prev time.Duration
	for _, span := range spans {
		step, format := pickTimeStep(span)
		if step <= 0 || format == "" {
			t.Fatalf("invalid step/format for span %v: %v %q", span, step, format)
		}
		if step < prev {
			t.Fatalf("step shrank as span grew: span=%v step=%v prev=%v", span, step, prev)
		}
		if step > span {
			t.Fatalf("step %v exceeds span %v", step, span)
		}
		prev = step
	}
}

func TestMakeNiceTimeTicks(t *testing.T) {
	min := time.Date(2025, 1, 1, 12, 0, 3, 0, time.UTC)
	max := min.Add(90 * time.Second)
	ticks := makeNiceTimeTicks(min, max, 10*time.Second, "15:04:05")
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %d", len(ticks))
	}
	if len(ticks) > 21 {
		t.Fatalf("tick cap exceeded: %d", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if !(ticks[i].Value > ticks[i-1].Value) {
			t.Fatalf("ticks not increasing at %d", i)
		}
	}
	if makeNiceTimeTicks(min, max, 0, "15:04:05") != nil {
		t.Fatalf("zero step should yield nil ticks")
	}
}

func TestBuildTimeXAxisSinglePoint(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	xa := buildTimeXAxis([]time.Time{ts})
	if xa.Range == nil {
		t.Fatalf("expected explicit range for single timestamp")
	}
	if xa.Range.GetMax() <= xa.Range.GetMin() {
		t.Fatalf("degenerate x-range: [%v,%v]", xa.Range.GetMin(), xa.Range.GetMax())
	}
	if len(xa.Ticks) < 2 {
		t.Fatalf("expected at least two ticks, got %d", len(xa.Ticks))
	}
}
