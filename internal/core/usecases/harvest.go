// internal/core/usecases/harvest.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/metrics"
	"icpharvest/internal/platform/reqlog"
)

// Pacing kinds reportados en eventos y métricas.
const (
	WaitResource = "resource"
	WaitTarget   = "target"
)

// Harvester recorre targets × tipos de recurso en orden fijo:
// fetch -> extract -> write, con esperas del Pacer entre iteraciones.
type Harvester struct {
	fetcher   ports.Fetcher
	extractor ports.Extractor
	writer    ports.ResultWriter
	pacer     ports.Pacer
	sleeper   ports.Sleeper
	logger    logx.Logger
	observers []ports.Notifier
	metrics   *metrics.Collector
	reqlog    *reqlog.Sink
	now       func() time.Time

	info RunInfo
}

// RunInfo describe la ejecución para el evento de inicio y el resumen final.
type RunInfo struct {
	Transport     string
	MaxAttempts   int
	ResourceDelay string
	TargetDelay   string
	OutputFiles   []string
	LogDir        string
}

// HarvesterOptions configura el Harvester.
type HarvesterOptions struct {
	Fetcher    ports.Fetcher
	Extractor  ports.Extractor
	Writer     ports.ResultWriter
	Pacer      ports.Pacer
	Sleeper    ports.Sleeper
	Logger     logx.Logger
	Observers  []ports.Notifier
	Metrics    *metrics.Collector
	RequestLog *reqlog.Sink
	Info       RunInfo

	// Now reloj para los timestamps de los bloques (default: time.Now)
	Now func() time.Time
}

// NewHarvester crea una nueva instancia del driver.
func NewHarvester(opts HarvesterOptions) *Harvester {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Harvester{
		fetcher:   opts.Fetcher,
		extractor: opts.Extractor,
		writer:    opts.Writer,
		pacer:     opts.Pacer,
		sleeper:   opts.Sleeper,
		logger:    opts.Logger.With("component", "harvester"),
		observers: opts.Observers,
		metrics:   opts.Metrics,
		reqlog:    opts.RequestLog,
		now:       opts.Now,
		info:      opts.Info,
	}
}

// Run procesa todos los pares y retorna el resumen.
// Un error de escritura o la cancelación de ctx abortan la ejecución; el resumen
// parcial se retorna junto al error.
func (h *Harvester) Run(ctx context.Context, runID string, targets []domain.Target) (*domain.RunSummary, error) {
	if len(targets) == 0 {
		return nil, domain.ErrNoTargets
	}
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	summary := domain.NewRunSummary(runID, len(targets))
	summary.OutputFiles = h.info.OutputFiles
	summary.LogDir = h.info.LogDir

	h.logger.Info("starting batch",
		"run_id", runID,
		"targets", len(targets),
		"transport", h.info.Transport,
		"max_attempts", h.info.MaxAttempts,
	)
	h.notify(ctx, ports.NewEvent(ports.EventTypeRunStarted, ports.RunStartedEvent{
		RunID:         runID,
		Targets:       targets,
		Transport:     h.info.Transport,
		MaxAttempts:   h.info.MaxAttempts,
		ResourceDelay: h.info.ResourceDelay,
		TargetDelay:   h.info.TargetDelay,
	}))

	resources := domain.AllResourceTypes()
	for i, target := range targets {
		h.notify(ctx, ports.NewEvent(ports.EventTypeTargetStarted, ports.TargetStartedEvent{
			Index: i,
			Total: len(targets),
		}).ForPair(target, ""))

		for j, resource := range resources {
			if err := ctx.Err(); err != nil {
				return h.abort(summary, err)
			}

			pair, err := h.processPair(ctx, target, resource)
			if err != nil {
				return h.abort(summary, err)
			}
			summary.Add(pair)

			if d, ok := h.pacer.AfterResource(j, len(resources)); ok {
				if err := h.wait(ctx, WaitResource, d); err != nil {
					return h.abort(summary, err)
				}
			}
		}

		if d, ok := h.pacer.AfterTarget(i, len(targets)); ok {
			if err := h.wait(ctx, WaitTarget, d); err != nil {
				return h.abort(summary, err)
			}
		}
	}

	summary.Finish()

	h.logger.Info("batch completed",
		"run_id", runID,
		"pairs", len(summary.Pairs),
		"extracted", summary.Extracted(),
		"exhausted", summary.Exhausted(),
		"values", summary.TotalValues(),
		"duration_ms", summary.Duration().Milliseconds(),
	)
	h.notify(ctx, ports.NewEvent(ports.EventTypeRunCompleted, ports.RunCompletedEvent{Summary: summary}))

	return summary, nil
}

// processPair ejecuta fetch -> extract -> write para un par y escribe exactamente un bloque.
func (h *Harvester) processPair(ctx context.Context, target domain.Target, resource domain.ResourceType) (domain.PairResult, error) {
	h.notify(ctx, ports.NewEvent(ports.EventTypePairStarted, nil).ForPair(target, resource))

	res := h.fetcher.Fetch(ctx, target, resource)
	if !res.Succeeded() && ctx.Err() != nil {
		return domain.PairResult{}, ctx.Err()
	}

	var extraction domain.ExtractionResult
	if res.Succeeded() {
		extraction = h.extractor.Extract(res.Body, target, resource)
	} else {
		extraction = domain.DiagnosticResult(target, resource, domain.FailureFetchExhausted,
			fmt.Sprintf("request failed after %d attempts", res.Attempts))
		h.logger.Warn("pair exhausted",
			"target", target,
			"resource", resource,
			"attempts", res.Attempts,
			"error", errString(res.LastErr),
		)
	}

	path, err := h.writer.Write(domain.NewOutputRecord(target, resource, extraction, h.now()))
	if err != nil {
		return domain.PairResult{}, fmt.Errorf("write %s results for %s: %w", resource, target, err)
	}

	pair := domain.PairResult{
		Target:     target,
		Resource:   resource,
		Values:     len(extraction.Values),
		Diagnostic: extraction.IsDiagnostic(),
		Failure:    extraction.Failure,
		Attempts:   res.Attempts,
		Exhausted:  !res.Succeeded(),
		File:       path,
	}

	outcome, severity := "extracted", ports.EventSeverityInfo
	switch {
	case pair.Exhausted:
		outcome, severity = "exhausted", ports.EventSeverityError
	case pair.Diagnostic:
		outcome, severity = "diagnostic", ports.EventSeverityWarning
	}

	if pair.Diagnostic {
		h.reqlog.Logf(resource, target, "completed with diagnostic: %s", pair.Failure)
	} else {
		h.reqlog.Logf(resource, target, "completed: %d %s value(s) written to %s", pair.Values, resource.FieldName(), path)
	}
	h.metrics.Pair(resource, outcome, valueCount(pair))
	h.logger.Debug("pair completed",
		"target", target,
		"resource", resource,
		"outcome", outcome,
		"values", pair.Values,
		"attempts", pair.Attempts,
	)

	h.notify(ctx, ports.NewEvent(ports.EventTypePairCompleted, ports.PairCompletedEvent{Result: pair}).
		ForPair(target, resource).
		WithSeverity(severity))

	return pair, nil
}

// wait duerme d notificando la espera. Solo la cancelación de ctx la interrumpe.
func (h *Harvester) wait(ctx context.Context, kind string, d time.Duration) error {
	h.logger.Info("waiting", "kind", kind, "duration", d.String())
	h.metrics.Pacing(kind, d)
	h.notify(ctx, ports.NewEvent(ports.EventTypeWaiting, ports.WaitingEvent{Kind: kind, Duration: d}))
	return h.sleeper.Sleep(ctx, d)
}

func (h *Harvester) abort(summary *domain.RunSummary, err error) (*domain.RunSummary, error) {
	summary.Finish()
	h.logger.Err(err, "processed_pairs", len(summary.Pairs))
	return summary, err
}

// notify envía el evento a todos los observers de forma síncrona para preservar el orden.
func (h *Harvester) notify(ctx context.Context, event ports.Event) {
	for _, obs := range h.observers {
		if err := obs.Notify(ctx, event); err != nil {
			h.logger.Debug("observer notification failed", "event", string(event.Type), "error", err.Error())
		}
	}
}

func valueCount(p domain.PairResult) int {
	if p.Diagnostic {
		return 0
	}
	return p.Values
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
