// internal/core/usecases/harvest_test.go
package usecases

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/metrics"
	"icpharvest/internal/platform/pacing"
	"icpharvest/internal/platform/reqlog"
	"icpharvest/internal/testutil"
)

const (
	resourceWait = 25 * time.Second
	targetWait   = 120 * time.Second
)

type harness struct {
	fetcher   *mockFetcher
	extractor *mockExtractor
	writer    *mockWriter
	sleeper   *testutil.FakeSleeper
	notifier  *recordingNotifier
	metrics   *metrics.Collector
	logDir    string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		fetcher:   &mockFetcher{},
		extractor: &mockExtractor{},
		writer:    &mockWriter{},
		sleeper:   testutil.NewFakeSleeper(),
		notifier:  &recordingNotifier{},
		metrics:   metrics.New(),
		logDir:    t.TempDir(),
	}
}

func (h *harness) build() *Harvester {
	return h.buildWithSleeper(h.sleeper)
}

func (h *harness) buildWithSleeper(s ports.Sleeper) *Harvester {
	return NewHarvester(HarvesterOptions{
		Fetcher:    h.fetcher,
		Extractor:  h.extractor,
		Writer:     h.writer,
		Pacer:      fixedPacer{resource: resourceWait, target: targetWait},
		Sleeper:    s,
		Logger:     logx.NewSilent(),
		Observers:  []ports.Notifier{failingNotifier{}, h.notifier},
		Metrics:    h.metrics,
		RequestLog: reqlog.New(h.logDir, logx.NewSilent()).WithClock(testutil.FixedTime),
		Now:        testutil.FixedTime,
		Info: RunInfo{
			Transport:   "curl",
			MaxAttempts: 3,
			OutputFiles: []string{"web_results.txt", "app_results.txt", "mapp_results.txt"},
			LogDir:      h.logDir,
		},
	})
}

func TestHarvester_OrderAndPacing(t *testing.T) {
	h := newHarness(t)
	targets := []domain.Target{"example.com", "example.org"}

	summary, err := h.build().Run(context.Background(), "run-1", targets)
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, h.fetcher.calls, []string{
		"example.com/web", "example.com/app", "example.com/mapp",
		"example.org/web", "example.org/app", "example.org/mapp",
	}, "targets in list order, resources web -> app -> mapp")

	testutil.AssertEqual(t, h.sleeper.Recorded(), []time.Duration{
		resourceWait, resourceWait, targetWait,
		resourceWait, resourceWait,
	}, "no wait after the last resource of a target nor after the last target")

	testutil.AssertLen(t, summary.Pairs, 6, "one result per pair")
	testutil.AssertEqual(t, summary.Extracted(), 6, "all extracted")
	testutil.AssertEqual(t, summary.TotalValues(), 12, "two values per pair")
	testutil.AssertEqual(t, summary.RunID, "run-1", "run id")
	testutil.AssertFalse(t, summary.FinishedAt.IsZero(), "finished")
}

func TestHarvester_SingleTargetNeverWaitsAfterLastResource(t *testing.T) {
	h := newHarness(t)

	_, err := h.build().Run(context.Background(), "run-1", []domain.Target{"example.com"})
	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, h.sleeper.Recorded(), []time.Duration{resourceWait, resourceWait}, "two resource waits only")
}

func TestHarvester_OneRecordPerPair(t *testing.T) {
	h := newHarness(t)
	h.fetcher.fetchFunc = exhaustedFor(3, "example.com/app")
	h.extractor.extractFunc = func(body string, target domain.Target, resource domain.ResourceType) domain.ExtractionResult {
		if resource == domain.ResourceMApp {
			return domain.DiagnosticResult(target, resource, domain.FailureStatus, "code: 500")
		}
		return domain.ValuesResult([]string{"a.example.com"})
	}

	summary, err := h.build().Run(context.Background(), "run-1", []domain.Target{"example.com"})
	testutil.AssertNoError(t, err, "exhaustion is not fatal")

	testutil.AssertLen(t, h.writer.records, 3, "every pair written, even on total failure")
	testutil.AssertLen(t, h.extractor.bodies, 2, "extractor skipped for the exhausted pair")

	app := h.writer.records[1]
	testutil.AssertEqual(t, app.Resource, domain.ResourceApp, "record order")
	testutil.AssertEqual(t, app.Field, "serviceName", "field name")
	testutil.AssertLen(t, app.Values, 1, "single diagnostic value")
	testutil.AssertContains(t, app.Values[0], "request failed after 3 attempts", "diagnostic detail")
	testutil.AssertContains(t, app.Values[0], "example.com", "names target")
	testutil.AssertEqual(t, app.Timestamp, testutil.FixedTime(), "record timestamp from clock")

	testutil.AssertEqual(t, summary.Extracted(), 1, "web extracted")
	testutil.AssertEqual(t, summary.Exhausted(), 1, "app exhausted")
	testutil.AssertTrue(t, summary.Pairs[2].Diagnostic, "mapp diagnostic")
	testutil.AssertEqual(t, summary.Pairs[1].Attempts, 3, "attempts recorded")
	testutil.AssertEqual(t, summary.TotalValues(), 1, "diagnostics do not count as values")

	expected := `
# HELP icph_pairs_total Processed (target, resource) pairs by outcome
# TYPE icph_pairs_total counter
icph_pairs_total{outcome="diagnostic",resource="mapp"} 1
icph_pairs_total{outcome="exhausted",resource="app"} 1
icph_pairs_total{outcome="extracted",resource="web"} 1
# HELP icph_values_extracted_total Real field values appended to result files
# TYPE icph_values_extracted_total counter
icph_values_extracted_total{resource="web"} 1
`
	err = promtest.GatherAndCompare(h.metrics.Registry(), strings.NewReader(expected),
		"icph_pairs_total", "icph_values_extracted_total")
	testutil.AssertNoError(t, err, "metrics")

	log := testutil.ReadFile(t, filepath.Join(h.logDir, "web_20261019.log"))
	testutil.AssertContains(t, log, "[target: example.com] completed: 1 domain value(s) written to web_results.txt", "completion line")
}

func TestHarvester_WriteErrorAborts(t *testing.T) {
	h := newHarness(t)
	h.writer.failOn = "example.com/app"

	summary, err := h.build().Run(context.Background(), "run-1", []domain.Target{"example.com", "example.org"})
	testutil.AssertErrorIs(t, err, domain.ErrWriteFailed, "write error propagates")
	testutil.AssertContains(t, err.Error(), "app results for example.com", "names the pair")

	testutil.AssertLen(t, h.fetcher.calls, 2, "no pair processed after the failure")
	testutil.AssertLen(t, summary.Pairs, 1, "partial summary")
	testutil.AssertEqual(t, h.sleeper.Recorded(), []time.Duration{resourceWait}, "no further waits")
	testutil.AssertEqual(t, h.notifier.count(ports.EventTypeRunCompleted), 0, "run not reported complete")
}

func TestHarvester_CancelDuringWait(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleeper := pacing.SleepFunc(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})

	summary, err := h.buildWithSleeper(sleeper).Run(ctx, "run-1", []domain.Target{"example.com"})
	testutil.AssertErrorIs(t, err, context.Canceled, "cancelled")
	testutil.AssertLen(t, summary.Pairs, 1, "stopped after the first wait")
	testutil.AssertLen(t, h.writer.records, 1, "no record after cancel")
}

func TestHarvester_CancelDuringFetch(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.fetcher.fetchFunc = func(ctx context.Context, _ domain.Target, _ domain.ResourceType) domain.FetchResult {
		cancel()
		return domain.FetchResult{Kind: domain.OutcomeExhausted, Attempts: 1, LastErr: ctx.Err()}
	}

	_, err := h.build().Run(ctx, "run-1", []domain.Target{"example.com"})
	testutil.AssertErrorIs(t, err, context.Canceled, "cancelled")
	testutil.AssertLen(t, h.writer.records, 0, "interrupted pair is not recorded as a failure")
}

func TestHarvester_InvalidTargets(t *testing.T) {
	h := newHarness(t)

	_, err := h.build().Run(context.Background(), "run-1", nil)
	testutil.AssertErrorIs(t, err, domain.ErrNoTargets, "empty list")

	_, err = h.build().Run(context.Background(), "run-1", []domain.Target{"example.com", "  "})
	testutil.AssertErrorIs(t, err, domain.ErrEmptyTarget, "blank target")
	testutil.AssertLen(t, h.fetcher.calls, 0, "nothing fetched")
}

func TestHarvester_Events(t *testing.T) {
	h := newHarness(t)
	h.fetcher.fetchFunc = exhaustedFor(3, "example.com/mapp")

	_, err := h.build().Run(context.Background(), "run-1", []domain.Target{"example.com"})
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, h.notifier.types(), []ports.EventType{
		ports.EventTypeRunStarted,
		ports.EventTypeTargetStarted,
		ports.EventTypePairStarted, ports.EventTypePairCompleted, ports.EventTypeWaiting,
		ports.EventTypePairStarted, ports.EventTypePairCompleted, ports.EventTypeWaiting,
		ports.EventTypePairStarted, ports.EventTypePairCompleted,
		ports.EventTypeRunCompleted,
	}, "event order")

	events := h.notifier.events
	started := events[0].Data.(ports.RunStartedEvent)
	testutil.AssertEqual(t, started.MaxAttempts, 3, "max attempts")
	testutil.AssertEqual(t, events[1].Target, domain.Target("example.com"), "target event")

	last := events[9]
	testutil.AssertEqual(t, last.Severity, ports.EventSeverityError, "exhausted pair is an error")
	testutil.AssertTrue(t, last.Data.(ports.PairCompletedEvent).Result.Exhausted, "exhausted flag")

	wait := events[4].Data.(ports.WaitingEvent)
	testutil.AssertEqual(t, wait.Kind, WaitResource, "wait kind")
	testutil.AssertEqual(t, wait.Duration, resourceWait, "wait duration")

	done := events[10].Data.(ports.RunCompletedEvent)
	testutil.AssertEqual(t, done.Summary.OutputFiles, []string{"web_results.txt", "app_results.txt", "mapp_results.txt"}, "output files")
	testutil.AssertEqual(t, done.Summary.LogDir, h.logDir, "log dir")
}
