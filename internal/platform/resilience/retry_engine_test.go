// internal/platform/resilience/retry_engine_test.go
package resilience

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/metrics"
	"icpharvest/internal/platform/pacing"
	"icpharvest/internal/platform/reqlog"
	"icpharvest/internal/testutil"
)

// scriptedTransport returns the scripted results in order, then repeats the last one.
type scriptedTransport struct {
	mu      sync.Mutex
	results []error
	body    string
	calls   []domain.RequestDescriptor
}

func (s *scriptedTransport) Name() string { return "scripted" }

func (s *scriptedTransport) Execute(_ context.Context, d domain.RequestDescriptor) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, d)
	if len(s.results) == 0 {
		return s.body, nil
	}
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	if err := s.results[i]; err != nil {
		return "", err
	}
	return s.body, nil
}

// countingBuilder stamps every descriptor with a distinct identity.
type countingBuilder struct {
	n int
}

func (b *countingBuilder) Build(t domain.Target, r domain.ResourceType) domain.RequestDescriptor {
	b.n++
	return domain.RequestDescriptor{
		BaseURL:  "http://127.0.0.1:16181/query",
		Resource: r,
		Target:   t,
		PageSize: 1000,
		Identity: "agent-" + string(rune('0'+b.n)),
	}
}

type recordingNotifier struct {
	events []ports.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e ports.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

var (
	errExit    = &errors.ExitError{Code: 7, Stderr: "curl: (7) Failed to connect"}
	errTimeout = errors.Wrap(errors.ErrTimeout, "deadline after 60s")
	errOther   = errors.New("fork/exec: resource temporarily unavailable")
)

func newEngine(tr ports.Transport, b ports.RequestBuilder, opts Options) *RetryEngine {
	return NewRetryEngine(b, tr, logx.NewSilent(), opts)
}

func TestFetch_SucceedsFirstAttempt(t *testing.T) {
	tr := &scriptedTransport{body: testutil.BodyWebMixed}
	sleeper := testutil.NewFakeSleeper()
	e := newEngine(tr, &countingBuilder{}, Options{MaxRetries: 2, Sleeper: sleeper})

	res := e.Fetch(context.Background(), "example.com", domain.ResourceWeb)

	testutil.AssertTrue(t, res.Succeeded(), "should succeed")
	testutil.AssertEqual(t, res.Body, testutil.BodyWebMixed, "body passthrough")
	testutil.AssertEqual(t, res.Attempts, 1, "attempts")
	testutil.AssertLen(t, sleeper.Recorded(), 0, "no delay before the first attempt")
}

func TestFetch_FailureClassesAreEquivalent(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"non-zero exit", errExit},
		{"timeout", errTimeout},
		{"other fault", errOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &scriptedTransport{results: []error{tt.err, nil}, body: "{}"}
			sleeper := testutil.NewFakeSleeper()
			e := newEngine(tr, &countingBuilder{}, Options{MaxRetries: 2, Sleeper: sleeper, Backoff: ZeroBackoff})

			res := e.Fetch(context.Background(), "example.com", domain.ResourceApp)

			testutil.AssertTrue(t, res.Succeeded(), "recovered on retry")
			testutil.AssertEqual(t, res.Attempts, 2, "attempts")
			testutil.AssertLen(t, sleeper.Recorded(), 1, "one backoff")
		})
	}
}

func TestFetch_ExhaustsAfterMaxRetries(t *testing.T) {
	tests := []struct {
		maxRetries int
		wantWaits  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{5, 5},
	}

	for _, tt := range tests {
		t.Run(string(rune('0'+tt.maxRetries)), func(t *testing.T) {
			tr := &scriptedTransport{results: []error{errExit}}
			b := &countingBuilder{}
			sleeper := testutil.NewFakeSleeper()
			e := newEngine(tr, b, Options{MaxRetries: tt.maxRetries, Sleeper: sleeper})

			res := e.Fetch(context.Background(), "example.com", domain.ResourceMApp)

			testutil.AssertFalse(t, res.Succeeded(), "should be exhausted")
			testutil.AssertEqual(t, res.Kind, domain.OutcomeExhausted, "kind")
			testutil.AssertEqual(t, res.Attempts, tt.maxRetries+1, "attempt count")
			testutil.AssertLen(t, tr.calls, tt.maxRetries+1, "transport calls")
			testutil.AssertEqual(t, b.n, tt.maxRetries+1, "descriptor rebuilt per attempt")
			testutil.AssertLen(t, sleeper.Recorded(), tt.wantWaits, "backoff waits")
			testutil.AssertErrorIs(t, res.LastErr, domain.ErrRetryExhausted, "exhausted sentinel")
			testutil.AssertErrorIs(t, res.LastErr, errors.ErrNonZeroExit, "last cause kept")
		})
	}
}

func TestFetch_BackoffWithinRange(t *testing.T) {
	tr := &scriptedTransport{results: []error{errTimeout}}
	sleeper := testutil.NewFakeSleeper()
	window := pacing.Between(5*time.Second, 10*time.Second)
	e := newEngine(tr, &countingBuilder{}, Options{
		MaxRetries: 20,
		Sleeper:    sleeper,
		Backoff:    JitterBackoff(window, nil),
	})

	e.Fetch(context.Background(), "example.com", domain.ResourceWeb)

	waits := sleeper.Recorded()
	testutil.AssertLen(t, waits, 20, "one wait per retry")
	for _, w := range waits {
		testutil.AssertDurationBetween(t, w, window.Min(), window.Max(), "backoff")
	}
}

func TestFetch_IdentityChangesBetweenAttempts(t *testing.T) {
	tr := &scriptedTransport{results: []error{errExit, errExit, nil}, body: "{}"}
	e := newEngine(tr, &countingBuilder{}, Options{MaxRetries: 2, Sleeper: testutil.NewFakeSleeper()})

	e.Fetch(context.Background(), "example.com", domain.ResourceWeb)

	testutil.AssertLen(t, tr.calls, 3, "calls")
	testutil.AssertNotEqual(t, tr.calls[0].Identity, tr.calls[1].Identity, "identity 1 vs 2")
	testutil.AssertNotEqual(t, tr.calls[1].Identity, tr.calls[2].Identity, "identity 2 vs 3")
}

func TestFetch_CancelledDuringBackoff(t *testing.T) {
	tr := &scriptedTransport{results: []error{errExit}}
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := pacing.SleepFunc(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})
	e := newEngine(tr, &countingBuilder{}, Options{MaxRetries: 2, Sleeper: sleeper})

	res := e.Fetch(ctx, "example.com", domain.ResourceWeb)

	testutil.AssertEqual(t, res.Kind, domain.OutcomeExhausted, "kind")
	testutil.AssertEqual(t, res.Attempts, 1, "no attempt after cancellation")
	testutil.AssertErrorIs(t, res.LastErr, context.Canceled, "cancellation cause")
}

func TestFetch_NotifiesAndRecords(t *testing.T) {
	tr := &scriptedTransport{results: []error{errExit, errTimeout, nil}, body: "{}"}
	n := &recordingNotifier{}
	m := metrics.New()
	dir := t.TempDir()
	sink := reqlog.New(dir, logx.NewSilent()).WithClock(testutil.FixedTime)

	e := newEngine(tr, &countingBuilder{}, Options{
		MaxRetries: 2,
		Sleeper:    testutil.NewFakeSleeper(),
		Backoff:    func(int) time.Duration { return 7 * time.Second },
		Notifier:   n,
		Metrics:    m,
		RequestLog: sink,
	})

	res := e.Fetch(context.Background(), "example.com", domain.ResourceWeb)
	testutil.AssertTrue(t, res.Succeeded(), "succeeds on third attempt")

	testutil.AssertLen(t, n.events, 2, "one event per failed attempt")
	first := n.events[0].Data.(ports.AttemptFailedEvent)
	testutil.AssertEqual(t, first.Attempt, 1, "attempt")
	testutil.AssertEqual(t, first.MaxAttempts, 3, "max attempts")
	testutil.AssertEqual(t, first.Class, errors.ClassNonZeroExit, "class")
	testutil.AssertEqual(t, first.Backoff, 7*time.Second, "backoff")
	testutil.AssertEqual(t, n.events[1].Data.(ports.AttemptFailedEvent).Class, errors.ClassTimeout, "second class")
	testutil.AssertEqual(t, n.events[0].Target, domain.Target("example.com"), "event target")

	expected := `
# HELP icph_attempts_total Fetch attempts by resource and result class
# TYPE icph_attempts_total counter
icph_attempts_total{resource="web",result="non_zero_exit"} 1
icph_attempts_total{resource="web",result="success"} 1
icph_attempts_total{resource="web",result="timeout"} 1
# HELP icph_retries_total Attempts beyond the first by resource
# TYPE icph_retries_total counter
icph_retries_total{resource="web"} 2
`
	err := promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected), "icph_attempts_total", "icph_retries_total")
	testutil.AssertNoError(t, err, "metrics")

	log := testutil.ReadFile(t, filepath.Join(dir, "web_20261019.log"))
	testutil.AssertEqual(t, strings.Count(log, "executing request"), 3, "one line per attempt")
	testutil.AssertContains(t, log, "[14:05:09] [target: example.com] request failed (attempt 1/3, non_zero_exit)", "failure line")
	testutil.AssertContains(t, log, "retrying in 7s (2 retries left)", "retry line")
}

func TestFetch_ExhaustionIsLogged(t *testing.T) {
	tr := &scriptedTransport{results: []error{errOther}}
	dir := t.TempDir()
	sink := reqlog.New(dir, logx.NewSilent()).WithClock(testutil.FixedTime)
	e := newEngine(tr, &countingBuilder{}, Options{MaxRetries: 1, Sleeper: testutil.NewFakeSleeper(), RequestLog: sink})

	e.Fetch(context.Background(), "example.com", domain.ResourceApp)

	log := testutil.ReadFile(t, filepath.Join(dir, "app_20261019.log"))
	testutil.AssertContains(t, log, "exceeded max retries (1), request failed", "exhaustion line")
}

func TestState_String(t *testing.T) {
	testutil.AssertEqual(t, StateAttempting.String(), "attempting", "attempting")
	testutil.AssertEqual(t, StateSucceeded.String(), "succeeded", "succeeded")
	testutil.AssertEqual(t, StateExhausted.String(), "exhausted", "exhausted")
	testutil.AssertEqual(t, State(9).String(), "unknown", "unknown")
}
