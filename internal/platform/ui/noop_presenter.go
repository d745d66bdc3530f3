// internal/platform/ui/noop_presenter.go
package ui

import (
	"context"

	"icpharvest/internal/core/ports"
)

// NoopPresenter es un presenter que no hace nada (para modo quiet)
type NoopPresenter struct{}

// NewNoopPresenter crea un presenter que no muestra nada
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Notify no hace nada
func (n *NoopPresenter) Notify(ctx context.Context, event ports.Event) error { return nil }

// Info no hace nada
func (n *NoopPresenter) Info(msg string) {}

// Warning no hace nada
func (n *NoopPresenter) Warning(msg string) {}

// Error no hace nada
func (n *NoopPresenter) Error(msg string) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
