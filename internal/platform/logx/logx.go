// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type zeroLogger struct {
	mu  *sync.Mutex
	lvl Level
	zl  zerolog.Logger
}

// New builds a console logger on stderr with the level taken from ICPH_LOG_LEVEL.
func New() Logger {
	return NewWithWriter(os.Stderr, parseLevel(os.Getenv("ICPH_LOG_LEVEL")))
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewSilent creates a logger that only outputs errors (silent mode for UI)
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewWithWriter creates a logger writing human-readable lines to w.
func NewWithWriter(w io.Writer, lvl Level) Logger {
	cw := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}
	zl := zerolog.New(cw).With().Timestamp().Logger().Level(toZerolog(lvl))
	return &zeroLogger{
		mu:  &sync.Mutex{},
		lvl: lvl,
		zl:  zl,
	}
}

func (s *zeroLogger) With(kv ...any) Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &zeroLogger{
		mu:  &sync.Mutex{},
		lvl: s.lvl,
		zl:  s.zl.With().Fields(kvFields(kv...)).Logger(),
	}
}

func (s *zeroLogger) SetLevel(lvl Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lvl = lvl
	s.zl = s.zl.Level(toZerolog(lvl))
}

func (s *zeroLogger) Debug(msg string, kv ...any) { s.log(s.logger().Debug(), msg, kv...) }
func (s *zeroLogger) Info(msg string, kv ...any)  { s.log(s.logger().Info(), msg, kv...) }
func (s *zeroLogger) Warn(msg string, kv ...any)  { s.log(s.logger().Warn(), msg, kv...) }
func (s *zeroLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	s.log(s.logger().Error().Err(err), "", kv...)
}

func (s *zeroLogger) logger() *zerolog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	zl := s.zl
	return &zl
}

func (s *zeroLogger) log(ev *zerolog.Event, msg string, kv ...any) {
	if ev == nil {
		return
	}
	if len(kv) > 0 {
		ev = ev.Fields(kvFields(kv...))
	}
	ev.Msg(msg)
}

// kvFields turns loose key/value pairs into the slice form zerolog accepts.
// A trailing key without value gets "(missing)".
func kvFields(kv ...any) []any {
	out := make([]any, 0, len(kv)+1)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, fmt.Sprint(kv[i]))
		if i+1 < len(kv) {
			out = append(out, kv[i+1])
		} else {
			out = append(out, "(missing)")
		}
	}
	return out
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseLevel exposes the level parser for flag handling.
func ParseLevel(s string) Level {
	return parseLevel(s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
