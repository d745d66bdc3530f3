// internal/core/domain/run_summary.go
package domain

import "time"

// PairResult resume el procesamiento de un par (target, tipo de recurso).
type PairResult struct {
	Target     Target
	Resource   ResourceType
	Values     int
	Diagnostic bool
	Failure    ExtractionFailure
	Attempts   int
	Exhausted  bool
	File       string
}

// RunSummary contiene el resultado completo de una pasada del pipeline.
type RunSummary struct {
	// RunID identificador único de la ejecución
	RunID string

	// StartedAt momento de inicio
	StartedAt time.Time

	// FinishedAt momento de finalización
	FinishedAt time.Time

	// Targets número de targets procesados
	Targets int

	// Pairs resultados por par en orden de procesamiento
	Pairs []PairResult

	// OutputFiles rutas absolutas de los archivos de resultados
	OutputFiles []string

	// LogDir directorio de logs de peticiones
	LogDir string
}

// NewRunSummary crea un resumen vacío.
func NewRunSummary(runID string, targets int) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		StartedAt: time.Now(),
		Targets:   targets,
		Pairs:     make([]PairResult, 0, targets*len(resourceFields)),
	}
}

// Add registra el resultado de un par.
func (s *RunSummary) Add(p PairResult) {
	s.Pairs = append(s.Pairs, p)
}

// Finish marca el final de la ejecución.
func (s *RunSummary) Finish() {
	s.FinishedAt = time.Now()
}

// Duration retorna la duración total de la ejecución.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Extracted cuenta los pares que produjeron valores reales.
func (s *RunSummary) Extracted() int {
	n := 0
	for _, p := range s.Pairs {
		if !p.Diagnostic {
			n++
		}
	}
	return n
}

// Exhausted cuenta los pares cuyo presupuesto de reintentos se agotó.
func (s *RunSummary) Exhausted() int {
	n := 0
	for _, p := range s.Pairs {
		if p.Exhausted {
			n++
		}
	}
	return n
}

// TotalValues suma los valores reales extraídos.
func (s *RunSummary) TotalValues() int {
	n := 0
	for _, p := range s.Pairs {
		if !p.Diagnostic {
			n += p.Values
		}
	}
	return n
}
