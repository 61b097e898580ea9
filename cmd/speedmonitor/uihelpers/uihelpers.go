package uihelpers

import (
	"math"
	"strconv"
	"time"
)

// ComputeChartDimensions applies the width/height clamp rules used for the
// live chart. Input: desired raw width (e.g., canvas width). Returns clamped
// width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// Interval bounds for the measurement ticker. The lower bound keeps a full
// test from permanently saturating the link; the upper bound keeps the chart
// alive within a session.
const (
	MinInterval = 5 * time.Second
	MaxInterval = 300 * time.Second
)

// ClampInterval clamps a requested measurement interval into the supported range.
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// BuildNumericTicks generates up to n tick marks spanning [min,max] using the
// 1,2,2.5,5 pattern. Returns raw numeric positions (label formatting left to
// the caller for unit-specific rendering).
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatNumericTick provides a compact tick label.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
