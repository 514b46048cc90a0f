// Package gelf is a minimal GELF UDP log transport. It implements io.Writer
// so the standard log package can fan out to it via io.MultiWriter.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Syslog-style severity levels used in GELF payloads.
const (
	levelError   = 3
	levelWarning = 4
	levelInfo    = 6
)

// Writer sends one GELF message per Write call, fire-and-forget.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New dials a GELF UDP endpoint (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}
	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Logging must never fail the caller, so send
// errors are swallowed and the byte count is always reported as written.
func (w *Writer) Write(p []byte) (int, error) {
	short := stripLogPrefix(strings.TrimRight(string(p), "\n"))
	payload, err := json.Marshal(map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         levelFor(short),
		"_service":      w.service,
	})
	if err == nil {
		w.conn.Write(payload)
	}
	return len(p), nil
}

// stripLogPrefix drops the standard log package's date/time prefix
// ("2006/01/02 15:04:05 ", exactly 20 characters when present).
func stripLogPrefix(msg string) string {
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

func levelFor(msg string) int {
	switch {
	case strings.Contains(msg, "PANIC:") || strings.Contains(msg, "Fatal"):
		return levelError
	case strings.HasPrefix(msg, "Warning:") || strings.HasPrefix(msg, "storage:"):
		return levelWarning
	default:
		return levelInfo
	}
}
