// internal/platform/ui/presenter.go
package ui

import (
	"io"
	"os"

	"icpharvest/internal/core/ports"
)

// UIMode define el modo de visualización
type UIMode string

const (
	UIModeAuto  UIMode = "auto"  // pterm en terminal, raw en pipes (default)
	UIModePTerm UIMode = "pterm" // Salida con colores y tablas
	UIModeRaw   UIMode = "raw"   // Una línea logfmt/json por evento
	UIModeQuiet UIMode = "quiet" // Sin UI visual
)

// Presenter presenta el progreso del pipeline. Recibe los eventos como ports.Notifier
// y expone mensajes sueltos para el comando.
type Presenter interface {
	ports.Notifier

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)
}

// NewPresenter elige el presenter para mode escribiendo en w.
func NewPresenter(mode UIMode, w io.Writer) Presenter {
	switch mode {
	case UIModeQuiet:
		return NewNoopPresenter()
	case UIModeRaw:
		return NewRawPresenter(w, LogFormatText)
	case UIModePTerm:
		return NewPTermPresenter(w)
	default:
		if IsTerminal(w) {
			return NewPTermPresenter(w)
		}
		return NewRawPresenter(w, LogFormatText)
	}
}

// IsTerminal reporta si w es un dispositivo de caracteres.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
