// cmd/icpharvest/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"icpharvest/internal/adapters/downstream"
	"icpharvest/internal/adapters/extract"
	"icpharvest/internal/adapters/input"
	"icpharvest/internal/adapters/output"
	"icpharvest/internal/adapters/request"
	"icpharvest/internal/adapters/transport"
	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/core/usecases"
	"icpharvest/internal/platform/config"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/metrics"
	"icpharvest/internal/platform/pacing"
	"icpharvest/internal/platform/reqlog"
	"icpharvest/internal/platform/resilience"
	"icpharvest/internal/platform/ui"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitError lleva el código de salida del proceso.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exit(code int, err error) error {
	return &exitError{code: code, err: err}
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		// Errores de parseo de flags
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "icpharvest [flags]",
		Short:         "Batch ICP record harvester",
		Long:          config.LongHelp,
		Example:       config.Example,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	cmd.SetVersionTemplate(config.VersionString(version, commit, date) + "\n")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command) error {
	// 1. Config centralizada
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return exit(2, fmt.Errorf("configuration load failed: %w", err))
	}

	// 2. Presenter y logger compartido
	presenter := ui.NewPresenter(ui.UIMode(cfg.UI.Mode), cmd.OutOrStdout())
	defer presenter.Close()

	logger := logx.NewWithLevel(logx.ParseLevel(cfg.UI.LogLevel))
	if _, fancy := presenter.(*ui.PTermPresenter); fancy && cfg.UI.LogLevel == "info" {
		// El presenter ya muestra el progreso: solo avisos y errores en stderr
		logger.SetLevel(logx.LevelWarn)
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logger.Info("icpharvest starting",
		"version", version,
		"commit", commit,
		"date", date,
		"config", cfg.ConfigPath,
	)

	// 3. Contexto y señales
	ctx, cancel := rootContextWithSignals(cmd.Context())
	defer cancel()

	// 4. Targets
	targets, err := collectTargets(ctx, cfg, cmd, logger)
	if err != nil {
		return exit(2, err)
	}

	// 5. Componentes
	sink := reqlog.New(cfg.Core.LogDir, logger)
	collector := metrics.New()
	collector.SetRun(runID)

	tr, err := transport.New(cfg.Transport, logger)
	if err != nil {
		return exit(2, err)
	}

	builder := request.New(request.Options{
		BaseURL:        cfg.Core.BaseURL,
		PageSize:       cfg.Core.PageSize,
		ConnectTimeout: cfg.Transport.ConnectTimeout,
		Timeout:        cfg.Transport.Timeout,
	})

	engine := resilience.NewRetryEngine(builder, tr, logger, resilience.Options{
		MaxRetries: cfg.Retry.MaxRetries,
		Backoff:    resilience.JitterBackoff(cfg.BackoffRange(), nil),
		Sleeper:    pacing.TimerSleeper{},
		RequestLog: sink,
		Metrics:    collector,
		Notifier:   presenter,
	})

	writer := output.NewResultWriter(cfg.Core.OutputDir, logger)
	scheduler := pacing.NewScheduler(cfg.ResourceDelay(), cfg.TargetDelay(), nil)

	harvester := usecases.NewHarvester(usecases.HarvesterOptions{
		Fetcher:    engine,
		Extractor:  extract.New(sink, logger),
		Writer:     writer,
		Pacer:      scheduler,
		Sleeper:    pacing.TimerSleeper{},
		Logger:     logger,
		Observers:  []ports.Notifier{presenter},
		Metrics:    collector,
		RequestLog: sink,
		Info: usecases.RunInfo{
			Transport:     tr.Name(),
			MaxAttempts:   engine.MaxAttempts(),
			ResourceDelay: cfg.ResourceDelay().String(),
			TargetDelay:   cfg.TargetDelay().String(),
			OutputFiles:   writer.Paths(),
			LogDir:        sink.Dir(),
		},
	})

	// 6. Ejecutar el lote
	summary, runErr := harvester.Run(ctx, runID, targets)

	// 7. Exportes (no alteran el código de salida)
	writeExports(cfg, collector, summary, logger)

	if runErr != nil {
		presenter.Error(fmt.Sprintf("run aborted: %v", runErr))
		return exit(1, runErr)
	}

	// 8. Script posterior
	if !cfg.Downstream.Enabled {
		logger.Info("downstream script disabled")
		return nil
	}
	return runDownstream(ctx, cfg, presenter, logger)
}

// collectTargets carga los targets desde --targets o los pide de forma interactiva.
func collectTargets(ctx context.Context, cfg config.Config, cmd *cobra.Command, logger logx.Logger) ([]domain.Target, error) {
	if cfg.Core.TargetsFile != "" {
		targets, err := input.LoadTargets(cfg.Core.TargetsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("targets loaded", "file", cfg.Core.TargetsFile, "count", len(targets))
		return targets, nil
	}

	_, targets, err := input.NewPrompter(cmd.OutOrStdout(), logger).Collect(ctx)
	return targets, err
}

func writeExports(cfg config.Config, collector *metrics.Collector, summary *domain.RunSummary, logger logx.Logger) {
	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("metrics export failed", "path", cfg.Metrics.Textfile, "error", err.Error())
		}
	}
	if cfg.Metrics.SummaryJSON != "" && summary != nil {
		if err := output.OutputJSON(cfg.Metrics.SummaryJSON, summary); err != nil {
			logger.Warn("summary export failed", "path", cfg.Metrics.SummaryJSON, "error", err.Error())
		}
	}
}

func runDownstream(ctx context.Context, cfg config.Config, presenter ui.Presenter, logger logx.Logger) error {
	script, err := downstream.ResolveScript(cfg.Downstream.Script)
	if err != nil {
		return exit(1, err)
	}

	runner := downstream.New(script, logger)
	presenter.Notify(ctx, ports.NewEvent(ports.EventTypeDownstreamStarted, ports.DownstreamEvent{Script: script}))

	res, err := runner.Run(ctx)
	if err != nil {
		presenter.Notify(ctx, ports.NewEvent(ports.EventTypeDownstreamFinished, ports.DownstreamEvent{
			Script: script,
			Err:    err,
		}).WithSeverity(ports.EventSeverityError))
		return exit(1, err)
	}

	presenter.Notify(ctx, ports.NewEvent(ports.EventTypeDownstreamFinished, ports.DownstreamEvent{
		Script: script,
		Result: &res,
	}))
	if !res.Success() {
		return exit(1, fmt.Errorf("downstream script %s exited with code %d", script, res.ExitCode))
	}
	return nil
}

// rootContextWithSignals creates a root context cancelled on SIGINT/SIGTERM.
// The returned cancel function stops signal delivery and releases the goroutine.
func rootContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	base, baseCancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
