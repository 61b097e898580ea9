package speedtest

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestServerInfoDescribe(t *testing.T) {
	cases := []struct {
		in   ServerInfo
		want string
	}{
		{ServerInfo{}, "(none)"},
		{ServerInfo{Sponsor: "ACME Telecom", Name: "Amsterdam", Country: "NL"}, "ACME Telecom (Amsterdam, NL)"},
		{ServerInfo{Sponsor: "ACME Telecom", Name: "Amsterdam"}, "ACME Telecom (Amsterdam)"},
		{ServerInfo{Host: "st.example.net:8080", Name: "Utrecht"}, "st.example.net:8080 (Utrecht)"},
		{ServerInfo{Sponsor: "ACME Telecom"}, "ACME Telecom"},
	}
	for _, c := range cases {
		if got := c.in.Describe(); got != c.want {
			t.Fatalf("Describe(%+v) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestResultString(t *testing.T) {
	r := Result{
		DownloadMbps: 95.216,
		UploadMbps:   11.049,
		LatencyMs:    12.6,
		Server:       ServerInfo{Sponsor: "ACME", Name: "Amsterdam", Country: "NL"},
	}
	s := r.String()
	if !strings.Contains(s, "down=95.22Mbps") || !strings.Contains(s, "up=11.05Mbps") {
		t.Fatalf("unexpected Result string: %q", s)
	}
	if !strings.Contains(s, "ACME (Amsterdam, NL)") {
		t.Fatalf("server description missing from Result string: %q", s)
	}
}

func TestSetTestTimeout(t *testing.T) {
	defer SetTestTimeout(DefaultTestTimeout)
	SetTestTimeout(15 * time.Second)
	if TestTimeout() != 15*time.Second {
		t.Fatalf("timeout not applied: %v", TestTimeout())
	}
	// Non-positive values are ignored
	SetTestTimeout(0)
	if TestTimeout() != 15*time.Second {
		t.Fatalf("zero timeout should be ignored, got %v", TestTimeout())
	}
	SetTestTimeout(-time.Second)
	if TestTimeout() != 15*time.Second {
		t.Fatalf("negative timeout should be ignored, got %v", TestTimeout())
	}
}

func TestRunBeforeInitReturnsErrNotReady(t *testing.T) {
	c := NewClient()
	if _, err := c.Run(context.Background()); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady before Init, got %v", err)
	}
	if _, ok := c.Server(); ok {
		t.Fatalf("Server() should report not-ready before Init")
	}
}

func TestLookupHostCountryEmptyHost(t *testing.T) {
	if cc, ok := lookupHostCountry(""); ok || cc != "" {
		t.Fatalf("empty host must not resolve: %q %v", cc, ok)
	}
	if cc, ok := lookupHostCountry(":8080"); ok || cc != "" {
		t.Fatalf("host with only a port must not resolve: %q %v", cc, ok)
	}
}
