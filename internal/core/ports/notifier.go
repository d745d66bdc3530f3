// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"

	"icpharvest/internal/core/domain"
)

// Notifier es el port para notificaciones de progreso del pipeline.
// Desacopla el driver de la presentación (terminal, silencioso).
type Notifier interface {
	// Notify envía una notificación para un evento
	Notify(ctx context.Context, event Event) error

	// Close cierra el notifier y libera recursos
	Close() error
}

// Event representa un evento del pipeline.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// Target objetivo relacionado (opcional)
	Target domain.Target

	// Resource tipo de recurso relacionado (opcional)
	Resource domain.ResourceType

	// Data datos específicos del evento
	Data interface{}

	// Severity severidad del evento
	Severity EventSeverity
}

// EventType define los tipos de eventos del pipeline.
type EventType string

const (
	// Run events
	EventTypeRunStarted   EventType = "run.started"
	EventTypeRunCompleted EventType = "run.completed"

	// Target events
	EventTypeTargetStarted EventType = "target.started"

	// Pair events
	EventTypePairStarted   EventType = "pair.started"
	EventTypeAttemptFailed EventType = "pair.attempt_failed"
	EventTypePairCompleted EventType = "pair.completed"
	EventTypePairExhausted EventType = "pair.exhausted"

	// Pacing events
	EventTypeWaiting EventType = "pacing.waiting"

	// Downstream events
	EventTypeDownstreamStarted  EventType = "downstream.started"
	EventTypeDownstreamFinished EventType = "downstream.finished"
)

// EventSeverity define la severidad de un evento.
type EventSeverity string

const (
	EventSeverityInfo    EventSeverity = "info"
	EventSeverityWarning EventSeverity = "warning"
	EventSeverityError   EventSeverity = "error"
)

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, data interface{}) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Severity:  EventSeverityInfo,
	}
}

// ForPair asocia el evento a un par (target, tipo de recurso).
func (e Event) ForPair(target domain.Target, resource domain.ResourceType) Event {
	e.Target = target
	e.Resource = resource
	return e
}

// WithSeverity cambia la severidad del evento.
func (e Event) WithSeverity(s EventSeverity) Event {
	e.Severity = s
	return e
}

// RunStartedEvent datos para evento de inicio de ejecución.
type RunStartedEvent struct {
	RunID         string
	Targets       []domain.Target
	Transport     string
	MaxAttempts   int
	ResourceDelay string // "20s~30s"
	TargetDelay   string
}

// TargetStartedEvent datos para evento de inicio de target.
type TargetStartedEvent struct {
	Index int // base 0
	Total int
}

// AttemptFailedEvent datos para un intento fallido.
type AttemptFailedEvent struct {
	Attempt     int // base 1
	MaxAttempts int
	Class       string
	Reason      string
	Backoff     time.Duration // 0 cuando no hay más intentos
}

// PairCompletedEvent datos para un par terminado (incluidos los agotados).
type PairCompletedEvent struct {
	Result domain.PairResult
}

// WaitingEvent datos para una espera de pacing.
type WaitingEvent struct {
	Kind     string // "resource" | "target"
	Duration time.Duration
}

// RunCompletedEvent datos para evento de finalización de ejecución.
type RunCompletedEvent struct {
	Summary *domain.RunSummary
}

// DownstreamEvent datos para eventos del script final.
type DownstreamEvent struct {
	Script string
	Result *DownstreamResult // nil en EventTypeDownstreamStarted
	Err    error
}
