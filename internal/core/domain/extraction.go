// internal/core/domain/extraction.go
package domain

import "fmt"

// ExtractionFailure describe por qué no se pudieron extraer valores reales.
type ExtractionFailure string

const (
	FailureNone               ExtractionFailure = ""
	FailureEmptyBody          ExtractionFailure = "no data returned"
	FailureParse              ExtractionFailure = "parse failure"
	FailureStatus             ExtractionFailure = "server reported non-success status"
	FailureMissingContainer   ExtractionFailure = "missing expected container"
	FailureMalformedContainer ExtractionFailure = "malformed container type"
	FailureNoValues           ExtractionFailure = "no valid field values found"
	FailureFetchExhausted     ExtractionFailure = "request failed"
)

// ExtractionResult es la secuencia ordenada de valores extraídos, o un único
// placeholder de diagnóstico cuando Failure != FailureNone.
type ExtractionResult struct {
	Values  []string
	Failure ExtractionFailure
}

// IsDiagnostic indica si el resultado es un placeholder sintético.
func (r ExtractionResult) IsDiagnostic() bool {
	return r.Failure != FailureNone
}

// ValuesResult crea un resultado con valores reales.
func ValuesResult(values []string) ExtractionResult {
	return ExtractionResult{Values: values}
}

// DiagnosticResult crea un resultado de un solo elemento que nombra target y tipo de recurso.
// detail es opcional y se añade entre paréntesis.
func DiagnosticResult(target Target, resource ResourceType, failure ExtractionFailure, detail string) ExtractionResult {
	msg := fmt.Sprintf("[%s] %s: %s", target, resource, failure)
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	return ExtractionResult{
		Values:  []string{msg},
		Failure: failure,
	}
}

// ExtractionStats recuento de auditoría de una extracción exitosa.
type ExtractionStats struct {
	Total   int
	Valid   int
	Skipped int
}
