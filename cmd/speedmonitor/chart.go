package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Ghostalex7/Internet-speed-monitor/cmd/speedmonitor/uihelpers"
	"github.com/Ghostalex7/Internet-speed-monitor/src/history"
	"github.com/Ghostalex7/Internet-speed-monitor/src/speedtest"
)

// lineStyle renders a connected line with small dot markers, matching the two
// series of the original chart.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

var (
	downloadSeriesColor = drawing.Color{R: 0x2A, G: 0x9D, B: 0xF4, A: 0xFF}
	uploadSeriesColor   = drawing.Color{R: 0xFF, G: 0x9F, B: 0x1C, A: 0xFF}
)

// chartSize computes the chart size from the current window width so the
// X-axis gets more space on wide windows.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 340
	}
	sz := state.window.Canvas().Size()
	// ~95% of the available width, minus a small margin for padding
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

// renderSpeedChart draws the download/upload time series for the most recent
// measurements. Returns a blank placeholder while the history is empty and on
// render errors, so the UI always has something to show.
func renderSpeedChart(state *uiState) image.Image {
	unitName, factor := speedUnitNameAndFactor(state.speedUnit)
	rows := state.history.Tail(maxChartPoints)
	cw, chh := chartSize(state)
	if len(rows) == 0 {
		return blank(cw, chh)
	}

	times := make([]time.Time, len(rows))
	downs := make([]float64, len(rows))
	ups := make([]float64, len(rows))
	minY := math.MaxFloat64
	maxY := -math.MaxFloat64
	for i, m := range rows {
		times[i] = m.Timestamp
		downs[i] = m.DownloadMbps * factor
		ups[i] = m.UploadMbps * factor
		for _, v := range [2]float64{downs[i], ups[i]} {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	// go-chart refuses a zero x-range; pad a lone measurement with a twin one
	// second later.
	if len(times) == 1 {
		times = append(times, times[0].Add(1*time.Second))
		downs = append(downs, downs[0])
		ups = append(ups, ups[0])
	}

	series := []chart.Series{
		chart.TimeSeries{Name: "Download", XValues: times, YValues: downs, Style: lineStyle(downloadSeriesColor)},
		chart.TimeSeries{Name: "Upload", XValues: times, YValues: ups, Style: lineStyle(uploadSeriesColor)},
	}

	var yAxisRange *chart.ContinuousRange
	var yTicks []chart.Tick
	if state.useRelative {
		if maxY <= minY {
			maxY = minY + 1
		}
		nMin, nMax := niceAxisBounds(minY, maxY)
		yAxisRange = &chart.ContinuousRange{Min: nMin, Max: nMax}
		yTicks = niceTicks(nMin, nMax, 6)
	} else {
		// Absolute mode: baseline at 0 with a nice rounded max
		if maxY <= 0 {
			maxY = 1
		}
		_, nMax := niceAxisBounds(0, maxY)
		yAxisRange = &chart.ContinuousRange{Min: 0, Max: nMax}
		yTicks = niceTicks(0, nMax, 6)
	}

	padBottom := 48
	if state.showHints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      fmt.Sprintf("Speed (%s)", unitName),
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis:      buildTimeXAxis(times),
		YAxis:      chart.YAxis{Name: unitName, Range: yAxisRange, Ticks: yTicks},
		Series:     series,
		Width:      cw,
		Height:     chh,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		speedtest.Warnf("chart render error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		speedtest.Warnf("chart decode error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}
	if state.showHints {
		return drawHint(img, "Hint: Each point is one test. Drops may indicate congestion, Wi-Fi issues, or ISP problems.")
	}
	return img
}

// buildTimeXAxis configures the time axis with span-dependent rounded ticks
// and a guaranteed non-zero range.
func buildTimeXAxis(times []time.Time) chart.XAxis {
	if len(times) == 0 {
		return chart.XAxis{Name: "Time"}
	}
	minT := times[0]
	maxT := times[0]
	for _, t := range times[1:] {
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
	}
	step, labFmt := pickTimeStep(maxT.Sub(minT))
	ticks := makeNiceTimeTicks(minT, maxT, step, labFmt)
	if len(ticks) < 2 {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(minT.Add(step)),
			Label: minT.Add(step).Local().Format(labFmt),
		})
	}
	minF := chart.TimeToFloat64(minT)
	maxF := chart.TimeToFloat64(maxT)
	if maxF <= minF {
		maxF = minF + float64(step/time.Second)
		if maxF <= minF {
			maxF = minF + 1
		}
	}
	return chart.XAxis{Name: "Time", Ticks: ticks, Range: &chart.ContinuousRange{Min: minF, Max: maxF}}
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice"
// numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks produces labeled ticks for [min,max] via the shared tick builder.
func niceTicks(min, max float64, n int) []chart.Tick {
	vals := uihelpers.BuildNumericTicks(min, max, n)
	out := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		out = append(out, chart.Tick{Value: v, Label: uihelpers.FormatNumericTick(v)})
	}
	return out
}

// pickTimeStep selects a readable tick step and label format for a time span.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "Jan 2 15:04"
	case span <= 24*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	default:
		return 6 * time.Hour, "Jan 2 15:04"
	}
}

// makeNiceTimeTicks returns step-aligned ticks between min and max.
// Alignment happens in UTC to avoid DST/local anomalies; labels stay local.
func makeNiceTimeTicks(minT, maxT time.Time, step time.Duration, labelFmt string) []chart.Tick {
	if step <= 0 {
		return nil
	}
	s := minT.UTC().Unix()
	st := int64(step.Seconds())
	if st <= 0 {
		st = 1
	}
	aligned := time.Unix((s/st)*st, 0).UTC()
	ticks := []chart.Tick{}
	for t := aligned; !t.After(maxT.UTC().Add(step)); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Local().Format(labelFmt)})
		if len(ticks) > 20 { // keep it readable
			break
		}
	}
	return ticks
}

// blank returns a dark placeholder image shown before any data exists.
func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

// drawHint draws a small hint string onto the image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || text == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	// Shadow first for contrast on varying backgrounds
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// chartWindow exposes the rows the chart currently displays; shared with the
// crosshair overlay so both agree on indexing.
func chartWindow(state *uiState) []history.Measurement {
	return state.history.Tail(maxChartPoints)
}
