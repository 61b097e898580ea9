package speedtest

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	// Swap the base logger to capture output
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() { baseLogger = saved }()

	SetLogLevel("info")

	msg := "measurement complete down=95.21Mbps up=11.04Mbps (100.0% of budget)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of budget)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() {
		baseLogger = saved
		SetLogLevel("info")
	}()

	SetLogLevel("warn")
	Infof("hidden info line")
	Warnf("visible warn line")
	Errorf("visible error line")

	out := buf.String()
	if strings.Contains(out, "hidden info line") {
		t.Fatalf("info line leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] visible warn line") {
		t.Fatalf("warn line missing: %s", out)
	}
	if !strings.Contains(out, "[ERROR] visible error line") {
		t.Fatalf("error line missing: %s", out)
	}

	// Unknown names must not change the level
	SetLogLevel("bogus")
	buf.Reset()
	Infof("still hidden")
	if strings.Contains(buf.String(), "still hidden") {
		t.Fatalf("unknown level name changed filtering: %s", buf.String())
	}
}
