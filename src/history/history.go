// Package history holds the in-session sequence of speed measurements and its
// export to comma-separated text files. The History container is owned by the
// application and handed to both the scheduler completion path (writer) and
// the chart renderer (reader).
package history

import (
	"sync"
	"time"
)

// Measurement is one recorded (timestamp, download, upload) triple.
// Immutable once appended.
type Measurement struct {
	Timestamp    time.Time
	DownloadMbps float64
	UploadMbps   float64
}

// History is the append-only, insertion-ordered sequence of measurements for
// the current session. Measurements are never edited or removed.
type History struct {
	mu   sync.RWMutex
	data []Measurement
}

// New returns an empty History.
func New() *History { return &History{} }

// Append records one measurement at the end of the sequence.
func (h *History) Append(m Measurement) {
	h.mu.Lock()
	h.data = append(h.data, m)
	h.mu.Unlock()
}

// Len reports the number of recorded measurements.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.data)
}

// Snapshot returns a copy of the full sequence in insertion order.
func (h *History) Snapshot() []Measurement {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Measurement, len(h.data))
	copy(out, h.data)
	return out
}

// Tail returns a copy of the most recent n measurements (all of them when
// fewer than n are recorded). The chart renders only this window; the full
// sequence stays available for export.
func (h *History) Tail(n int) []Measurement {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(h.data) - n
	if start < 0 {
		start = 0
	}
	out := make([]Measurement, len(h.data)-start)
	copy(out, h.data[start:])
	return out
}

// Last returns the most recent measurement, ok=false when empty.
func (h *History) Last() (Measurement, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.data) == 0 {
		return Measurement{}, false
	}
	return h.data[len(h.data)-1], true
}
