// Package speedtest wraps the Ookla-compatible measurement engine
// (github.com/showwin/speedtest-go) behind a small Tester interface so the
// scheduler and the UI never talk to the library directly.
package speedtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ookla "github.com/showwin/speedtest-go/speedtest"
)

// DefaultTestTimeout bounds one full measurement (ping + download + upload).
const DefaultTestTimeout = 120 * time.Second

var testTimeout = DefaultTestTimeout

// SetTestTimeout configures the per-measurement time budget. Non-positive
// values are ignored.
func SetTestTimeout(d time.Duration) {
	if d > 0 {
		testTimeout = d
	}
}

// TestTimeout returns the configured per-measurement time budget.
func TestTimeout() time.Duration { return testTimeout }

// ErrNotReady is returned by Run before Init has discovered a test server.
var ErrNotReady = errors.New("speedtest: client not initialized")

// Result is one completed measurement.
type Result struct {
	Timestamp    time.Time
	DownloadMbps float64
	UploadMbps   float64
	LatencyMs    float64
	Server       ServerInfo
}

func (r Result) String() string {
	return fmt.Sprintf("down=%.2fMbps up=%.2fMbps ping=%.0fms server=%s",
		r.DownloadMbps, r.UploadMbps, r.LatencyMs, r.Server.Describe())
}

// ServerInfo identifies the test server a measurement ran against.
type ServerInfo struct {
	Name    string
	Sponsor string
	Host    string
	Country string
}

// Describe renders a short human-readable server description for the status line.
func (s ServerInfo) Describe() string {
	if s.Host == "" && s.Name == "" {
		return "(none)"
	}
	label := s.Sponsor
	if label == "" {
		label = s.Host
	}
	if s.Name != "" && s.Country != "" {
		return fmt.Sprintf("%s (%s, %s)", label, s.Name, s.Country)
	}
	if s.Name != "" {
		return fmt.Sprintf("%s (%s)", label, s.Name)
	}
	return label
}

// Tester runs a single speed measurement. Implementations need not be safe for
// concurrent calls; the scheduler guarantees at most one measurement in flight.
type Tester interface {
	Run(ctx context.Context) (Result, error)
}

// Client is the production Tester. Init must succeed once before Run is called;
// the discovered server is reused for every subsequent measurement.
type Client struct {
	mu     sync.Mutex
	engine *ookla.Speedtest
	server *ookla.Server
	info   ServerInfo
}

// NewClient returns an uninitialized Client. Call Init before Run.
func NewClient() *Client {
	return &Client{engine: ookla.New()}
}

// Init fetches the server list and selects the closest server. It is intended
// to run off the UI thread at startup, mirroring the asynchronous client
// initialization of the desktop app.
func (c *Client) Init(ctx context.Context) error {
	defer TimeTrack(time.Now(), "speedtest init")
	servers, err := c.engine.FetchServerListContext(ctx)
	if err != nil {
		return fmt.Errorf("fetch server list: %w", err)
	}
	targets, err := servers.FindServer([]int{})
	if err != nil {
		return fmt.Errorf("select server: %w", err)
	}
	if len(targets) == 0 {
		return errors.New("no speed test servers available")
	}
	srv := targets[0]
	info := ServerInfo{
		Name:    srv.Name,
		Sponsor: srv.Sponsor,
		Host:    srv.Host,
		Country: srv.Country,
	}
	// The Ookla server list does not always carry a country; fall back to a
	// local GeoLite2 database when one is installed.
	if info.Country == "" {
		if cc, ok := lookupHostCountry(srv.Host); ok {
			info.Country = cc
		}
	}
	c.mu.Lock()
	c.server = srv
	c.info = info
	c.mu.Unlock()
	Infof("speedtest server selected: %s", info.Describe())
	return nil
}

// Server returns the selected server info, or ok=false before Init completed.
func (c *Client) Server() (ServerInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info, c.server != nil
}

// Run performs one ping + download + upload pass against the selected server.
func (c *Client) Run(ctx context.Context) (Result, error) {
	c.mu.Lock()
	srv := c.server
	info := c.info
	c.mu.Unlock()
	if srv == nil {
		return Result{}, ErrNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, testTimeout)
	defer cancel()
	defer TimeTrack(time.Now(), "speedtest run")
	// Reset the library's transfer counters so back-to-back runs don't
	// accumulate into each other.
	defer srv.Context.Reset()

	ts := time.Now()
	if err := srv.PingTestContext(ctx, nil); err != nil {
		return Result{}, fmt.Errorf("ping test: %w", err)
	}
	if err := srv.DownloadTestContext(ctx); err != nil {
		return Result{}, fmt.Errorf("download test: %w", err)
	}
	if err := srv.UploadTestContext(ctx); err != nil {
		return Result{}, fmt.Errorf("upload test: %w", err)
	}

	res := Result{
		Timestamp:    ts,
		DownloadMbps: srv.DLSpeed.Mbps(),
		UploadMbps:   srv.ULSpeed.Mbps(),
		LatencyMs:    float64(srv.Latency) / float64(time.Millisecond),
		Server:       info,
	}
	Debugf("measurement complete: %s", res)
	return res, nil
}
