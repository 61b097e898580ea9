// Speed Monitor desktop app.
//
// One window: the latest download/upload rates as large colored figures, a
// live chart of the recent session, a START/STOP toggle, and an EXPORT button
// that writes the full session history to a new numbered text file. The
// measurement itself runs off the UI thread through the scheduler package;
// completions are marshaled back with fyne.Do before touching widgets or the
// history container.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	png "image/png"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Ghostalex7/Internet-speed-monitor/cmd/speedmonitor/uihelpers"
	"github.com/Ghostalex7/Internet-speed-monitor/src/history"
	"github.com/Ghostalex7/Internet-speed-monitor/src/scheduler"
	"github.com/Ghostalex7/Internet-speed-monitor/src/speedtest"
)

// maxChartPoints bounds how many recent measurements the chart displays.
// The exported file always carries the full session.
const maxChartPoints = 20

// statusErrLimit truncates error text shown in the status line.
const statusErrLimit = 70

var (
	downloadColor = color.RGBA{R: 0x2A, G: 0x9D, B: 0xF4, A: 0xFF}
	uploadColor   = color.RGBA{R: 0xFF, G: 0x9F, B: 0x1C, A: 0xFF}
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	history *history.History
	tester  *speedtest.Client
	runner  *scheduler.Runner

	intervalSec int
	exportDir   string

	// toggles and modes
	speedUnit        string // "Mbps", "MBps", "kbps", "kBps", "Gbps", "GBps"
	yScaleMode       string // "absolute" or "relative"
	useRelative      bool
	crosshairEnabled bool
	showHints        bool

	// widgets
	downloadText    *canvas.Text
	uploadText      *canvas.Text
	downloadCaption *widget.Label
	uploadCaption   *widget.Label
	statusLabel     *widget.Label
	toggleBtn       *widget.Button
	exportBtn       *widget.Button
	intervalLabel   *widget.Label
	chartImgCanvas  *canvas.Image
	chartOverlay    *crosshairOverlay
}

// speedUnitNameAndFactor converts from base Mbps to the chosen display unit.
// The export format is not affected by this selection.
func speedUnitNameAndFactor(unit string) (string, float64) {
	switch unit {
	case "Mbps":
		return "Mbps", 1.0
	case "MBps":
		return "MBps", 1.0 / 8.0
	case "kbps":
		return "kbps", 1000.0
	case "kBps":
		return "kBps", 125.0
	case "Gbps":
		return "Gbps", 1.0 / 1000.0
	case "GBps":
		return "GBps", 1.0 / 8000.0
	default:
		return "Mbps", 1.0
	}
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	intervalFlag := flag.Duration("interval", 10*time.Second, "Time between measurements (clamped 5s..300s)")
	exportDirFlag := flag.String("export-dir", ".", "Directory for exported measurement files")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	testTimeout := flag.Duration("test-timeout", speedtest.DefaultTestTimeout, "Time budget for one full measurement")
	flag.Parse()

	speedtest.SetLogLevel(*logLevel)
	speedtest.SetTestTimeout(*testTimeout)

	a := app.NewWithID("com.ghostalex7.speedmonitor")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Speed Monitor")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{
		app:         a,
		window:      w,
		history:     history.New(),
		tester:      speedtest.NewClient(),
		intervalSec: int(uihelpers.ClampInterval(*intervalFlag).Seconds()),
		exportDir:   *exportDirFlag,
		speedUnit:   "Mbps",
		yScaleMode:  "absolute",
	}
	// Persisted UI state wins over flag defaults for everything except the
	// export directory, which stays a per-invocation choice.
	loadPrefs(state)

	// Speed display panel
	state.downloadText = canvas.NewText("0.00", downloadColor)
	state.downloadText.TextSize = 34
	state.downloadText.TextStyle = fyne.TextStyle{Bold: true}
	state.downloadText.Alignment = fyne.TextAlignCenter
	state.uploadText = canvas.NewText("0.00", uploadColor)
	state.uploadText.TextSize = 34
	state.uploadText.TextStyle = fyne.TextStyle{Bold: true}
	state.uploadText.Alignment = fyne.TextAlignCenter
	unitName, _ := speedUnitNameAndFactor(state.speedUnit)
	state.downloadCaption = widget.NewLabel("DOWNLOAD (" + unitName + ")")
	state.downloadCaption.Alignment = fyne.TextAlignCenter
	state.uploadCaption = widget.NewLabel("UPLOAD (" + unitName + ")")
	state.uploadCaption.Alignment = fyne.TextAlignCenter

	// Control buttons; disabled until the tester finished server discovery.
	state.toggleBtn = widget.NewButton("START MONITORING", func() { toggleMonitoring(state) })
	state.toggleBtn.Importance = widget.HighImportance
	state.toggleBtn.Disable()
	state.exportBtn = widget.NewButton("EXPORT DATA", func() { exportData(state) })
	state.exportBtn.Disable()

	state.statusLabel = widget.NewLabel("Status: Connecting…")
	state.statusLabel.Alignment = fyne.TextAlignCenter

	// Interval control: - [label] +
	state.intervalLabel = widget.NewLabel(fmt.Sprintf("%ds", state.intervalSec))
	decI := widget.NewButton("-", func() { adjustInterval(state, -5) })
	incI := widget.NewButton("+", func() { adjustInterval(state, +5) })

	// Selects and checks; callbacks assigned after the chart canvas exists.
	unitSelect := widget.NewSelect([]string{"Mbps", "MBps", "kbps", "kBps", "Gbps", "GBps"}, nil)
	unitSelect.Selected = state.speedUnit
	yScaleSelect := widget.NewSelect([]string{"Absolute", "Relative"}, nil)
	if state.useRelative {
		yScaleSelect.Selected = "Relative"
	} else {
		yScaleSelect.Selected = "Absolute"
	}
	crosshairChk := widget.NewCheck("Crosshair", nil)
	crosshairChk.SetChecked(state.crosshairEnabled)
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	// chart placeholder + crosshair overlay
	state.chartImgCanvas = canvas.NewImageFromImage(blank(900, 320))
	state.chartImgCanvas.FillMode = canvas.ImageFillContain
	state.chartImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.chartOverlay = newCrosshairOverlay(state)

	// layout
	top := container.NewHBox(
		widget.NewLabel("Unit:"), unitSelect,
		widget.NewLabel("Y-Scale:"), yScaleSelect,
		widget.NewLabel("Interval:"), decI, state.intervalLabel, incI,
		crosshairChk, hintsChk,
	)
	speedPanel := container.NewGridWithColumns(2,
		container.NewVBox(state.downloadText, state.downloadCaption),
		container.NewVBox(state.uploadText, state.uploadCaption),
	)
	buttons := container.NewHBox(state.toggleBtn, state.exportBtn)
	header := container.NewVBox(
		top,
		speedPanel,
		container.NewCenter(buttons),
		state.statusLabel,
		widget.NewSeparator(),
	)
	content := container.NewBorder(header, nil, nil, nil,
		container.NewStack(state.chartImgCanvas, state.chartOverlay))
	w.SetContent(content)

	// Now that the canvas exists, wire the callbacks.
	unitSelect.OnChanged = func(v string) {
		state.speedUnit = v
		savePrefs(state)
		updateSpeedLabels(state)
		redrawChart(state)
	}
	yScaleSelect.OnChanged = func(v string) {
		if strings.EqualFold(v, "Relative") {
			state.yScaleMode = "relative"
			state.useRelative = true
		} else {
			state.yScaleMode = "absolute"
			state.useRelative = false
		}
		savePrefs(state)
		redrawChart(state)
	}
	crosshairChk.OnChanged = func(b bool) {
		state.crosshairEnabled = b
		savePrefs(state)
		if state.chartOverlay != nil {
			state.chartOverlay.enabled = b
			state.chartOverlay.Refresh()
		}
	}
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state)

	// Redraw the chart when the window width changes so it scales with size.
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if state.runner != nil {
				state.runner.Stop()
			}
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					if curW := int(c.Size().Width); curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	// Asynchronous tester initialization: server discovery must not block the
	// UI; controls stay disabled until it finishes.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		err := state.tester.Init(ctx)
		fyne.Do(func() {
			if err != nil {
				showError(state, fmt.Errorf("connection error: %w", err))
				return
			}
			state.toggleBtn.Enable()
			state.exportBtn.Enable()
			if srv, ok := state.tester.Server(); ok {
				setStatus(state, "Status: Inactive — server "+srv.Describe())
			} else {
				setStatus(state, "Status: Inactive")
			}
		})
	}()

	w.ShowAndRun()
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export Data", func() { exportData(state) }),
		fyne.NewMenuItem("Export Chart PNG…", func() { exportChartPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { exportData(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { exportData(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// toggleMonitoring starts or stops the scheduler depending on current state.
func toggleMonitoring(state *uiState) {
	if state.runner != nil && state.runner.Running() {
		stopMonitoring(state)
	} else {
		startMonitoring(state)
	}
}

func startMonitoring(state *uiState) {
	// A fresh runner per start picks up the current interval preference.
	state.runner = scheduler.New(scheduler.Config{
		Interval: time.Duration(state.intervalSec) * time.Second,
		Tester:   state.tester,
		OnResult: func(res speedtest.Result) {
			fyne.Do(func() { appendResult(state, res) })
		},
		OnError: func(err error) {
			fyne.Do(func() { showError(state, err) })
		},
	})
	state.runner.Start()
	state.toggleBtn.SetText("STOP MONITORING")
	state.toggleBtn.Importance = widget.DangerImportance
	state.toggleBtn.Refresh()
	setStatus(state, "Status: Monitoring active")
}

func stopMonitoring(state *uiState) {
	if state.runner != nil {
		state.runner.Stop()
	}
	state.toggleBtn.SetText("START MONITORING")
	state.toggleBtn.Importance = widget.HighImportance
	state.toggleBtn.Refresh()
	setStatus(state, "Status: Inactive")
}

// appendResult records a completed measurement and refreshes every dependent
// view. Runs on the UI thread.
func appendResult(state *uiState, res speedtest.Result) {
	state.history.Append(history.Measurement{
		Timestamp:    res.Timestamp,
		DownloadMbps: res.DownloadMbps,
		UploadMbps:   res.UploadMbps,
	})
	updateSpeedLabels(state)
	setStatus(state, "Last test: "+res.Timestamp.Format("15:04:05"))
	redrawChart(state)
}

// updateSpeedLabels refreshes the big figures and captions in the current unit.
func updateSpeedLabels(state *uiState) {
	unitName, factor := speedUnitNameAndFactor(state.speedUnit)
	last, ok := state.history.Last()
	if ok {
		state.downloadText.Text = fmt.Sprintf("%.2f", last.DownloadMbps*factor)
		state.uploadText.Text = fmt.Sprintf("%.2f", last.UploadMbps*factor)
	} else {
		state.downloadText.Text = "0.00"
		state.uploadText.Text = "0.00"
	}
	state.downloadText.Refresh()
	state.uploadText.Refresh()
	state.downloadCaption.SetText("DOWNLOAD (" + unitName + ")")
	state.uploadCaption.SetText("UPLOAD (" + unitName + ")")
}

func setStatus(state *uiState, msg string) {
	state.statusLabel.Importance = widget.MediumImportance
	state.statusLabel.SetText(msg)
}

// showError surfaces a non-fatal error in the status line. Runs on the UI thread.
func showError(state *uiState, err error) {
	state.statusLabel.Importance = widget.DangerImportance
	state.statusLabel.SetText("Error: " + truncateStatus(err.Error(), statusErrLimit))
}

// exportData writes the full session history to the next numbered file.
func exportData(state *uiState) {
	path, err := state.history.Export(state.exportDir)
	if err != nil {
		showError(state, err)
		return
	}
	speedtest.Infof("history exported to %s", path)
	setStatus(state, "Data exported: "+path)
}

// exportChartPNG saves the rendered chart image through a save dialog.
func exportChartPNG(state *uiState) {
	if state == nil || state.window == nil || state.chartImgCanvas == nil || state.chartImgCanvas.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, state.chartImgCanvas.Image)
	}, state.window)
	fs.SetFileName("speed_chart.png")
	fs.Show()
}

// adjustInterval shifts the measurement interval by delta seconds within the
// supported range; a running session is restarted so the new interval applies.
func adjustInterval(state *uiState, delta int) {
	d := uihelpers.ClampInterval(time.Duration(state.intervalSec+delta) * time.Second)
	n := int(d.Seconds())
	if n == state.intervalSec {
		return
	}
	state.intervalSec = n
	state.intervalLabel.SetText(fmt.Sprintf("%ds", n))
	savePrefs(state)
	if state.runner != nil && state.runner.Running() {
		state.runner.Stop()
		startMonitoring(state)
	}
}

// redrawChart re-renders the chart image for the current history window.
func redrawChart(state *uiState) {
	img := renderSpeedChart(state)
	if img == nil || state.chartImgCanvas == nil {
		return
	}
	state.chartImgCanvas.Image = img
	cw, chh := chartSize(state)
	state.chartImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
	state.chartImgCanvas.Refresh()
	if state.chartOverlay != nil {
		state.chartOverlay.Refresh()
	}
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetInt("intervalSec", state.intervalSec)
	prefs.SetString("speedUnit", state.speedUnit)
	prefs.SetString("yScaleMode", state.yScaleMode)
	prefs.SetBool("crosshair", state.crosshairEnabled)
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if n := prefs.IntWithFallback("intervalSec", state.intervalSec); n > 0 {
		state.intervalSec = int(uihelpers.ClampInterval(time.Duration(n) * time.Second).Seconds())
	}
	if u := prefs.StringWithFallback("speedUnit", state.speedUnit); u != "" {
		state.speedUnit = u
	}
	switch prefs.StringWithFallback("yScaleMode", state.yScaleMode) {
	case "relative":
		state.yScaleMode = "relative"
		state.useRelative = true
	default:
		state.yScaleMode = "absolute"
		state.useRelative = false
	}
	state.crosshairEnabled = prefs.BoolWithFallback("crosshair", state.crosshairEnabled)
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
}

// truncateStatus bounds user-visible error text to n characters, never
// splitting a multi-byte rune.
func truncateStatus(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
