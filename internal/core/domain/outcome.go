// internal/core/domain/outcome.go
package domain

// AttemptOutcome es el resultado de un único intento.
type AttemptOutcome struct {
	// Kind clase del resultado
	Kind OutcomeKind

	// Attempt índice del intento (0 = primer intento)
	Attempt int

	// Body cuerpo crudo de la respuesta (solo en OutcomeSuccess)
	Body string

	// Reason descripción del fallo (solo en OutcomeTransientFailure)
	Reason string
}

// FetchResult es el estado terminal de una secuencia de intentos: Succeeded o Exhausted.
type FetchResult struct {
	// Kind OutcomeSuccess u OutcomeExhausted
	Kind OutcomeKind

	// Body cuerpo crudo cuando Kind == OutcomeSuccess
	Body string

	// Attempts número de intentos realizados
	Attempts int

	// LastErr último error observado cuando Kind == OutcomeExhausted
	LastErr error
}

// Succeeded indica si la secuencia terminó con una respuesta.
func (r FetchResult) Succeeded() bool {
	return r.Kind == OutcomeSuccess
}
