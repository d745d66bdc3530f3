// internal/testutil/mocks.go
package testutil

import (
	"context"
	"sync"
	"time"
)

// Nota: Los mocks específicos de domain/ports están en sus respectivos paquetes
// Este archivo contiene solo utilidades genéricas sin dependencias circulares

// FakeSleeper registra las esperas solicitadas sin bloquear.
type FakeSleeper struct {
	mu    sync.Mutex
	Waits []time.Duration
	Err   error
}

// NewFakeSleeper crea un sleeper que nunca bloquea.
func NewFakeSleeper() *FakeSleeper {
	return &FakeSleeper{}
}

// Sleep registra d y retorna Err (o el error del contexto si ya está cancelado).
func (f *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Waits = append(f.Waits, d)
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Err
}

// Recorded retorna una copia de las esperas registradas.
func (f *FakeSleeper) Recorded() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.Waits...)
}

// SeqRand retorna valores fijos en orden para IntN/Int64N (módulo n), para tests deterministas.
type SeqRand struct {
	mu     sync.Mutex
	values []int64
	next   int
}

// NewSeqRand crea un generador que devuelve values cíclicamente.
func NewSeqRand(values ...int64) *SeqRand {
	if len(values) == 0 {
		values = []int64{0}
	}
	return &SeqRand{values: values}
}

// Int64N implementa la interfaz de aleatoriedad usada por los componentes.
func (s *SeqRand) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// IntN implementa la interfaz de aleatoriedad usada por los componentes.
func (s *SeqRand) IntN(n int) int {
	return int(s.Int64N(int64(n)))
}
