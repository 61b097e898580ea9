// fyneprobe opens a minimal window and closes it after a few seconds. It
// verifies the Fyne driver works on a machine before blaming the monitor app
// for a blank screen.
package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/widget"
)

func main() {
	fmt.Println("[fyneprobe] starting minimal Fyne app")
	a := app.New()
	w := a.NewWindow("Speed Monitor - Fyne Probe")
	w.SetContent(widget.NewLabel("If you can read this, the Fyne driver works.\nClosing in 5s; run speedmonitor next."))
	go func() {
		time.Sleep(5 * time.Second)
		fmt.Println("[fyneprobe] closing window via fyne.Do")
		fyne.Do(func() { w.Close() })
	}()
	w.ShowAndRun()
	fmt.Println("[fyneprobe] exited cleanly")
}
