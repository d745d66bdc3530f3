// internal/platform/resilience/retry_engine.go
package resilience

import (
	"context"
	"fmt"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/metrics"
	"icpharvest/internal/platform/pacing"
	"icpharvest/internal/platform/reqlog"
)

// State es el estado de la secuencia de intentos de un par.
type State int

const (
	StateAttempting State = iota // Attempting(n)
	StateSucceeded               // terminal: cuerpo obtenido
	StateExhausted               // terminal: presupuesto agotado
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// BackoffPolicy retorna la espera previa al reintento número retry (1..maxRetries).
type BackoffPolicy func(retry int) time.Duration

// JitterBackoff sortea uniformemente dentro de r antes de cada reintento.
func JitterBackoff(r pacing.Range, rnd pacing.Rand) BackoffPolicy {
	if rnd == nil {
		rnd = pacing.DefaultRand()
	}
	return func(int) time.Duration {
		return pacing.Draw(rnd, r)
	}
}

// ZeroBackoff reintenta sin espera.
func ZeroBackoff(int) time.Duration { return 0 }

// DefaultBackoff ventana de espera entre reintentos (5s a 10s).
var DefaultBackoff = pacing.Between(5*time.Second, 10*time.Second)

// Options configura el RetryEngine. Los campos nil usan valores por defecto o se omiten.
type Options struct {
	// MaxRetries reintentos después del primer intento (total = MaxRetries + 1)
	MaxRetries int

	// Backoff política de espera entre intentos
	Backoff BackoffPolicy

	// Sleeper realiza las esperas (TimerSleeper por defecto)
	Sleeper ports.Sleeper

	// RequestLog sink de auditoría por recurso (opcional)
	RequestLog *reqlog.Sink

	// Metrics colector Prometheus (opcional)
	Metrics *metrics.Collector

	// Notifier recibe los intentos fallidos (opcional)
	Notifier ports.Notifier
}

// RetryEngine ejecuta las peticiones de un par con reintentos acotados y backoff con jitter.
// Cada intento construye un descriptor nuevo, por lo que la identidad rota entre reintentos.
type RetryEngine struct {
	builder    ports.RequestBuilder
	transport  ports.Transport
	maxRetries int
	backoff    BackoffPolicy
	sleeper    ports.Sleeper
	reqlog     *reqlog.Sink
	metrics    *metrics.Collector
	notifier   ports.Notifier
	logger     logx.Logger
}

// NewRetryEngine crea un nuevo RetryEngine.
func NewRetryEngine(builder ports.RequestBuilder, transport ports.Transport, logger logx.Logger, opts Options) *RetryEngine {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff == nil {
		opts.Backoff = JitterBackoff(DefaultBackoff, nil)
	}
	if opts.Sleeper == nil {
		opts.Sleeper = pacing.TimerSleeper{}
	}

	return &RetryEngine{
		builder:    builder,
		transport:  transport,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		sleeper:    opts.Sleeper,
		reqlog:     opts.RequestLog,
		metrics:    opts.Metrics,
		notifier:   opts.Notifier,
		logger:     logger.With("component", "retry-engine", "transport", transport.Name()),
	}
}

// MaxAttempts retorna el número máximo de intentos por par.
func (e *RetryEngine) MaxAttempts() int {
	return e.maxRetries + 1
}

// Fetch recorre Attempting(0..maxRetries) hasta Succeeded o Exhausted.
// No hay espera antes del primer intento.
// Nunca retorna error: el agotamiento es un resultado terminal no fatal.
// Si ctx se cancela durante una espera, la secuencia termina como Exhausted con LastErr = ctx.Err().
func (e *RetryEngine) Fetch(ctx context.Context, target domain.Target, resource domain.ResourceType) domain.FetchResult {
	log := e.logger.With("target", target, "resource", resource)

	state := StateAttempting
	n := 0
	var lastErr error

	for state == StateAttempting {
		out := e.attempt(ctx, target, resource, n)

		if out.Kind == domain.OutcomeSuccess {
			if n > 0 {
				log.Info("request succeeded after retry", "attempts", n+1)
			}
			return domain.FetchResult{
				Kind:     domain.OutcomeSuccess,
				Body:     out.Body,
				Attempts: n + 1,
			}
		}

		lastErr = out.err
		state = e.next(n)

		var wait time.Duration
		if state == StateAttempting {
			wait = e.backoff(n + 1)
		}
		e.reportFailure(ctx, log, target, resource, n, out, state, wait)

		if state == StateExhausted {
			break
		}

		if err := e.sleeper.Sleep(ctx, wait); err != nil {
			log.Warn("backoff interrupted", "error", err.Error())
			lastErr = errors.Join(lastErr, err)
			break
		}
		n++
	}

	attempts := n + 1
	log.Warn("request failed after all retries",
		"attempts", attempts,
		"last_error", errString(lastErr),
	)
	e.reqlog.Logf(resource, target, "exceeded max retries (%d), request failed", e.maxRetries)

	return domain.FetchResult{
		Kind:     domain.OutcomeExhausted,
		Attempts: attempts,
		LastErr:  fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryExhausted, attempts, lastErr),
	}
}

// next aplica la transición tras un fallo en Attempting(n).
func (e *RetryEngine) next(n int) State {
	if n < e.maxRetries {
		return StateAttempting
	}
	return StateExhausted
}

type attemptResult struct {
	domain.AttemptOutcome
	err error
}

// attempt ejecuta un único intento con un descriptor recién construido.
func (e *RetryEngine) attempt(ctx context.Context, target domain.Target, resource domain.ResourceType, n int) attemptResult {
	desc := e.builder.Build(target, resource)

	e.reqlog.Logf(resource, target, "executing request: GET %s (attempt %d/%d, user-agent: %s)",
		desc.URL(), n+1, e.MaxAttempts(), desc.Identity)
	e.logger.Debug("executing request",
		"target", target,
		"resource", resource,
		"attempt", n+1,
		"url", desc.URL(),
	)

	body, err := e.transport.Execute(ctx, desc)
	if err != nil {
		class := errors.Classify(err)
		e.metrics.Attempt(resource, class)
		return attemptResult{
			AttemptOutcome: domain.AttemptOutcome{
				Kind:    domain.OutcomeTransientFailure,
				Attempt: n,
				Reason:  class,
			},
			err: err,
		}
	}

	e.metrics.Attempt(resource, "success")
	return attemptResult{
		AttemptOutcome: domain.AttemptOutcome{
			Kind:    domain.OutcomeSuccess,
			Attempt: n,
			Body:    body,
		},
	}
}

func (e *RetryEngine) reportFailure(
	ctx context.Context,
	log logx.Logger,
	target domain.Target,
	resource domain.ResourceType,
	n int,
	out attemptResult,
	next State,
	wait time.Duration,
) {
	log.Warn("request attempt failed",
		"attempt", n+1,
		"max_attempts", e.MaxAttempts(),
		"class", out.Reason,
		"error", errString(out.err),
	)
	e.reqlog.Logf(resource, target, "request failed (attempt %d/%d, %s): %s",
		n+1, e.MaxAttempts(), out.Reason, errString(out.err))

	if next == StateAttempting {
		e.metrics.Retry(resource, wait)
		e.reqlog.Logf(resource, target, "retrying in %s (%d retries left)", wait, e.maxRetries-n)
	}

	if e.notifier != nil {
		ev := ports.NewEvent(ports.EventTypeAttemptFailed, ports.AttemptFailedEvent{
			Attempt:     n + 1,
			MaxAttempts: e.MaxAttempts(),
			Class:       out.Reason,
			Reason:      errString(out.err),
			Backoff:     wait,
		}).ForPair(target, resource).WithSeverity(ports.EventSeverityWarning)
		if err := e.notifier.Notify(ctx, ev); err != nil {
			log.Debug("notifier failed", "error", err.Error())
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
