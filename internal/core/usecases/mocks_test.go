// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
)

// pairKey identifica un par en los mocks.
func pairKey(t domain.Target, r domain.ResourceType) string {
	return fmt.Sprintf("%s/%s", t, r)
}

// mockFetcher es un mock de ports.Fetcher: por defecto retorna éxito con body "{}"
type mockFetcher struct {
	mu        sync.Mutex
	calls     []string
	fetchFunc func(ctx context.Context, target domain.Target, resource domain.ResourceType) domain.FetchResult
}

func (m *mockFetcher) Fetch(ctx context.Context, target domain.Target, resource domain.ResourceType) domain.FetchResult {
	m.mu.Lock()
	m.calls = append(m.calls, pairKey(target, resource))
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, target, resource)
	}
	return domain.FetchResult{Kind: domain.OutcomeSuccess, Body: "{}", Attempts: 1}
}

// exhaustedFor retorna un fetchFunc que agota los pares indicados
func exhaustedFor(attempts int, keys ...string) func(context.Context, domain.Target, domain.ResourceType) domain.FetchResult {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(_ context.Context, t domain.Target, r domain.ResourceType) domain.FetchResult {
		if set[pairKey(t, r)] {
			return domain.FetchResult{
				Kind:     domain.OutcomeExhausted,
				Attempts: attempts,
				LastErr:  errors.New("exit status 7"),
			}
		}
		return domain.FetchResult{Kind: domain.OutcomeSuccess, Body: "{}", Attempts: 1}
	}
}

// mockExtractor retorna dos valores por par salvo que extractFunc diga otra cosa
type mockExtractor struct {
	bodies      []string
	extractFunc func(body string, target domain.Target, resource domain.ResourceType) domain.ExtractionResult
}

func (m *mockExtractor) Extract(body string, target domain.Target, resource domain.ResourceType) domain.ExtractionResult {
	m.bodies = append(m.bodies, body)
	if m.extractFunc != nil {
		return m.extractFunc(body, target, resource)
	}
	return domain.ValuesResult([]string{"a." + string(target), "b." + string(target)})
}

// mockWriter registra los OutputRecord recibidos
type mockWriter struct {
	records []domain.OutputRecord
	failOn  string
}

func (m *mockWriter) Write(rec domain.OutputRecord) (string, error) {
	if m.failOn != "" && pairKey(rec.Target, rec.Resource) == m.failOn {
		return "", fmt.Errorf("%w: disk full", domain.ErrWriteFailed)
	}
	m.records = append(m.records, rec)
	return rec.Resource.ResultsFile(), nil
}

// fixedPacer retorna duraciones fijas y respeta la regla de "sin espera tras el último"
type fixedPacer struct {
	resource time.Duration
	target   time.Duration
}

func (p fixedPacer) AfterResource(i, n int) (time.Duration, bool) {
	if i >= n-1 {
		return 0, false
	}
	return p.resource, true
}

func (p fixedPacer) AfterTarget(i, n int) (time.Duration, bool) {
	if i >= n-1 {
		return 0, false
	}
	return p.target, true
}

// recordingNotifier guarda los eventos recibidos en orden
type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func (r *recordingNotifier) Notify(ctx context.Context, event ports.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) types() []ports.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recordingNotifier) count(t ports.EventType) int {
	n := 0
	for _, et := range r.types() {
		if et == t {
			n++
		}
	}
	return n
}

// failingNotifier siempre falla; el driver debe ignorarlo
type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, ports.Event) error { return errors.New("observer down") }
func (failingNotifier) Close() error                              { return nil }
