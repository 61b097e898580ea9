package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ExportHeader is the first line of every exported file. The exact header and
// record layout below are the external contract of the export feature; records
// are always Mbps with two decimals regardless of the unit shown in the UI.
const ExportHeader = "Date,Time,Download (Mbps),Upload (Mbps)"

// exportPattern names successive exports; the counter only ever moves forward
// so no export overwrites a previous one, including across restarts.
const exportPattern = "speed_export_%d.txt"

// ErrEmpty is returned when an export is requested with no recorded measurements.
var ErrEmpty = errors.New("history: no measurements to export")

// formatRecord renders one measurement as a CSV record line (without newline).
func formatRecord(m Measurement) string {
	return fmt.Sprintf("%s,%.2f,%.2f", m.Timestamp.Format("2006-01-02,15:04:05"), m.DownloadMbps, m.UploadMbps)
}

// WriteTo serializes the full history (header + one record per measurement).
func (h *History) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	c, err := fmt.Fprintln(bw, ExportHeader)
	n += int64(c)
	if err != nil {
		return n, err
	}
	for _, m := range h.Snapshot() {
		c, err = fmt.Fprintln(bw, formatRecord(m))
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// NextExportPath returns the first unused export filename in dir, starting at 1.
// Any stat failure other than "does not exist" (unreadable directory, a path
// component that is a regular file) is terminal; the scan must never spin on it.
func NextExportPath(dir string) (string, error) {
	for n := 1; ; n++ {
		p := filepath.Join(dir, fmt.Sprintf(exportPattern, n))
		_, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		if err != nil {
			return "", fmt.Errorf("scan export dir: %w", err)
		}
	}
}

// Export writes the full history to a new uniquely numbered file in dir and
// returns its path. The file is created with O_EXCL, so a concurrent writer
// racing for the same number makes this retry with the next one rather than
// overwrite.
func (h *History) Export(dir string) (string, error) {
	if h.Len() == 0 {
		return "", ErrEmpty
	}
	for {
		path, err := NextExportPath(dir)
		if err != nil {
			return "", err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create export file: %w", err)
		}
		if _, err := h.WriteTo(f); err != nil {
			f.Close()
			return "", fmt.Errorf("write export file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close export file: %w", err)
		}
		return path, nil
	}
}

// SessionDuration reports the time span covered by the history, zero when
// fewer than two measurements are recorded.
func (h *History) SessionDuration() time.Duration {
	snap := h.Snapshot()
	if len(snap) < 2 {
		return 0
	}
	return snap[len(snap)-1].Timestamp.Sub(snap[0].Timestamp)
}
