// internal/core/ports/downstream.go
package ports

import (
	"context"
	"time"
)

// DownstreamResult es lo único que se observa del script externo.
type DownstreamResult struct {
	Script   string
	ExitCode int

	// PermissionGranted indica que se añadieron bits de ejecución antes de lanzarlo
	PermissionGranted bool

	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success indica si el script terminó con código 0.
func (r DownstreamResult) Success() bool {
	return r.ExitCode == 0
}

// DownstreamRunner ejecuta el script de automatización al final de la ejecución.
// Un código de salida no cero no es un error Go; sí lo es no poder arrancarlo.
type DownstreamRunner interface {
	Run(ctx context.Context) (DownstreamResult, error)
}
