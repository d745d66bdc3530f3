// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"icpharvest/internal/core/domain"
)

// PairDocument es la representación JSON de un par procesado.
type PairDocument struct {
	Target   string `json:"target"`
	Resource string `json:"resource"`
	Values   int    `json:"values"`
	Failure  string `json:"failure,omitempty"`
	Attempts int    `json:"attempts"`
	Failed   bool   `json:"request_failed,omitempty"`
	File     string `json:"file"`
}

// SummaryDocument es la representación JSON de una ejecución completa.
type SummaryDocument struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	DurationMS  int64          `json:"duration_ms"`
	Targets     int            `json:"targets"`
	Extracted   int            `json:"extracted"`
	Diagnostic  int            `json:"diagnostic"`
	Exhausted   int            `json:"exhausted"`
	TotalValues int            `json:"total_values"`
	Pairs       []PairDocument `json:"pairs"`
	OutputFiles []string       `json:"output_files"`
	LogDir      string         `json:"log_dir"`
}

// BuildSummaryDocument construye el documento JSON desde un RunSummary.
func BuildSummaryDocument(s *domain.RunSummary) SummaryDocument {
	doc := SummaryDocument{
		RunID:       s.RunID,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		DurationMS:  s.Duration().Milliseconds(),
		Targets:     s.Targets,
		Extracted:   s.Extracted(),
		Exhausted:   s.Exhausted(),
		TotalValues: s.TotalValues(),
		Pairs:       make([]PairDocument, 0, len(s.Pairs)),
		OutputFiles: append([]string(nil), s.OutputFiles...),
		LogDir:      s.LogDir,
	}
	doc.Diagnostic = len(s.Pairs) - doc.Extracted

	for _, p := range s.Pairs {
		doc.Pairs = append(doc.Pairs, PairDocument{
			Target:   string(p.Target),
			Resource: string(p.Resource),
			Values:   p.Values,
			Failure:  string(p.Failure),
			Attempts: p.Attempts,
			Failed:   p.Exhausted,
			File:     p.File,
		})
	}
	return doc
}

// OutputJSON escribe el resumen de la ejecución en path (se sobrescribe).
func OutputJSON(path string, s *domain.RunSummary) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create output directory: %v", domain.ErrWriteFailed, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create output file: %v", domain.ErrWriteFailed, err)
	}
	defer f.Close()

	if err := EncodeJSON(f, s, true); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

// EncodeJSON codifica el resumen en w.
func EncodeJSON(w io.Writer, s *domain.RunSummary, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(BuildSummaryDocument(s)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
