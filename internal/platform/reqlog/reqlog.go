// Package reqlog writes the per-resource, per-day request audit files.
//
// Layout: {dir}/{resource}_{YYYYMMDD}.log, one line per event:
//
//	[15:04:05] [target: example.com] message
//
// Each line opens, appends and closes the file so no handle outlives a write.
package reqlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/logx"
)

// Sink appends audit lines. Failures are reported to the logger and swallowed.
type Sink struct {
	mu     sync.Mutex
	dir    string
	now    func() time.Time
	logger logx.Logger
}

// New creates a sink rooted at dir.
func New(dir string, logger logx.Logger) *Sink {
	return &Sink{
		dir:    dir,
		now:    time.Now,
		logger: logger.With("component", "reqlog"),
	}
}

// WithClock replaces the time source (tests).
func (s *Sink) WithClock(now func() time.Time) *Sink {
	s.now = now
	return s
}

// Dir returns the log directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Log appends one line for resource. An empty target omits the target prefix.
// A nil sink discards the line.
func (s *Sink) Log(resource domain.ResourceType, target domain.Target, msg string) {
	if s == nil {
		return
	}
	if err := s.write(resource, target, msg); err != nil {
		s.logger.Warn("request log write failed",
			"resource", resource,
			"error", err.Error(),
		)
	}
}

// Logf is Log with formatting.
func (s *Sink) Logf(resource domain.ResourceType, target domain.Target, format string, args ...any) {
	if s == nil {
		return
	}
	s.Log(resource, target, fmt.Sprintf(format, args...))
}

// PathFor returns the file the sink uses for resource at instant ts.
func (s *Sink) PathFor(resource domain.ResourceType, ts time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.log", resource, ts.Format("20060102")))
}

func (s *Sink) write(resource domain.ResourceType, target domain.Target, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	ts := s.now()
	f, err := os.OpenFile(s.PathFor(resource, ts), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ts, target, msg)); err != nil {
		return fmt.Errorf("failed to append log line: %w", err)
	}
	return nil
}

func formatLine(ts time.Time, target domain.Target, msg string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(ts.Format("15:04:05"))
	b.WriteString("] ")
	if target != "" {
		b.WriteString("[target: ")
		b.WriteString(string(target))
		b.WriteString("] ")
	}
	// keep one event per line
	b.WriteString(strings.ReplaceAll(msg, "\n", " "))
	b.WriteString("\n")
	return b.String()
}
