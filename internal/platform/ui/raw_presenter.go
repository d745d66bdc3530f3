// internal/platform/ui/raw_presenter.go
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"icpharvest/internal/core/ports"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (una línea por evento, sin formato visual)
type RawPresenter struct {
	format LogFormat
	w      io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewRawPresenter crea un nuevo RawPresenter
func NewRawPresenter(w io.Writer, format LogFormat) *RawPresenter {
	return &RawPresenter{
		format: format,
		w:      w,
		now:    time.Now,
	}
}

// log escribe un log en el formato configurado
func (r *RawPresenter) log(level, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields map[string]interface{}) {
	parts := []string{timestamp, fmt.Sprintf("%-5s", level), message}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r.formatValue(fields[k])))
	}

	fmt.Fprintln(r.w, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields map[string]interface{}) {
	logEntry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}

	if len(fields) > 0 {
		logEntry["data"] = fields
	}

	jsonBytes, _ := json.Marshal(logEntry)
	fmt.Fprintln(r.w, string(jsonBytes))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios)
func (r *RawPresenter) formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " =\"\n") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.String()
	case float64:
		return fmt.Sprintf("%.1f", val)
	default:
		return r.formatValue(fmt.Sprintf("%v", val))
	}
}

// Notify escribe una línea por evento
func (r *RawPresenter) Notify(ctx context.Context, event ports.Event) error {
	switch data := event.Data.(type) {
	case ports.RunStartedEvent:
		r.log("INFO", "run_started", map[string]interface{}{
			"run_id":         data.RunID,
			"targets":        len(data.Targets),
			"transport":      data.Transport,
			"max_attempts":   data.MaxAttempts,
			"resource_delay": data.ResourceDelay,
			"target_delay":   data.TargetDelay,
		})
	case ports.TargetStartedEvent:
		r.log("INFO", "target_started", map[string]interface{}{
			"target": string(event.Target),
			"index":  data.Index + 1,
			"total":  data.Total,
		})
	case ports.AttemptFailedEvent:
		r.log("WARN", "attempt_failed", map[string]interface{}{
			"target":   string(event.Target),
			"resource": string(event.Resource),
			"attempt":  data.Attempt,
			"max":      data.MaxAttempts,
			"class":    data.Class,
			"error":    data.Reason,
			"backoff":  data.Backoff,
		})
	case ports.PairCompletedEvent:
		res := data.Result
		level, msg := "INFO", "pair_completed"
		if res.Exhausted {
			level, msg = "ERROR", "pair_exhausted"
		} else if res.Diagnostic {
			level = "WARN"
		}
		fields := map[string]interface{}{
			"target":   string(res.Target),
			"resource": string(res.Resource),
			"values":   res.Values,
			"attempts": res.Attempts,
			"file":     absPath(res.File),
		}
		if res.Diagnostic {
			fields["failure"] = string(res.Failure)
		}
		r.log(level, msg, fields)
	case ports.WaitingEvent:
		r.log("INFO", "waiting", map[string]interface{}{
			"kind":     data.Kind,
			"duration": data.Duration,
		})
	case ports.RunCompletedEvent:
		s := data.Summary
		if s == nil {
			return nil
		}
		files := make([]string, 0, len(s.OutputFiles))
		for _, f := range s.OutputFiles {
			files = append(files, absPath(f))
		}
		r.log("INFO", "run_completed", map[string]interface{}{
			"run_id":    s.RunID,
			"pairs":     len(s.Pairs),
			"extracted": s.Extracted(),
			"exhausted": s.Exhausted(),
			"values":    s.TotalValues(),
			"duration":  s.Duration().Round(time.Second),
			"files":     strings.Join(files, ","),
			"log_dir":   absPath(s.LogDir),
		})
	case ports.DownstreamEvent:
		if data.Result == nil && data.Err == nil {
			r.log("INFO", "downstream_started", map[string]interface{}{"script": data.Script})
			return nil
		}
		if data.Err != nil {
			r.log("ERROR", "downstream_failed", map[string]interface{}{
				"script": data.Script,
				"error":  data.Err.Error(),
			})
			return nil
		}
		level := "INFO"
		if !data.Result.Success() {
			level = "ERROR"
		}
		r.log(level, "downstream_finished", map[string]interface{}{
			"script":    data.Script,
			"exit_code": data.Result.ExitCode,
			"stdout":    strings.TrimSpace(data.Result.Stdout),
			"stderr":    strings.TrimSpace(data.Result.Stderr),
			"duration":  data.Result.Duration.Round(time.Millisecond),
		})
	default:
		if event.Type == ports.EventTypePairStarted {
			r.log("INFO", "pair_started", map[string]interface{}{
				"target":   string(event.Target),
				"resource": string(event.Resource),
			})
		}
	}
	return nil
}

// Info muestra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning muestra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error muestra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Close limpia recursos
func (r *RawPresenter) Close() error {
	return nil
}
