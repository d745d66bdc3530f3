// internal/adapters/output/results.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/logx"
)

const (
	separatorWidth  = 50
	timestampLayout = "2006-01-02 15:04:05"
)

// ResultWriter añade bloques de resultados a {dir}/{resource}_results.txt.
// Cada escritura abre, añade y cierra el archivo: nunca se trunca ni se reescribe contenido previo.
type ResultWriter struct {
	mu     sync.Mutex
	dir    string
	logger logx.Logger
}

// NewResultWriter crea un nuevo writer de resultados.
func NewResultWriter(dir string, logger logx.Logger) *ResultWriter {
	if dir == "" {
		dir = "."
	}
	return &ResultWriter{
		dir:    dir,
		logger: logger.With("component", "result-writer"),
	}
}

// Write añade el bloque de rec a su archivo y retorna la ruta escrita.
func (w *ResultWriter) Write(rec domain.OutputRecord) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !rec.Resource.IsValid() {
		return "", fmt.Errorf("%w: %w: %q", domain.ErrWriteFailed, domain.ErrUnknownResource, rec.Resource)
	}

	// Asegurar que el directorio existe
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create output directory: %w", domain.ErrWriteFailed, err)
	}

	path := w.PathFor(rec.Resource)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open results file: %w", domain.ErrWriteFailed, err)
	}

	if _, err := f.WriteString(FormatBlock(rec)); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: failed to append block: %w", domain.ErrWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close results file: %w", domain.ErrWriteFailed, err)
	}

	w.logger.Debug("block appended",
		"target", rec.Target,
		"resource", rec.Resource,
		"values", len(rec.Values),
		"file", path,
	)

	return path, nil
}

// PathFor retorna el archivo de resultados de un tipo de recurso.
func (w *ResultWriter) PathFor(resource domain.ResourceType) string {
	return filepath.Join(w.dir, resource.ResultsFile())
}

// Paths retorna los archivos de resultados de todos los tipos, en orden de iteración.
func (w *ResultWriter) Paths() []string {
	paths := make([]string, 0, len(domain.AllResourceTypes()))
	for _, r := range domain.AllResourceTypes() {
		paths = append(paths, w.PathFor(r))
	}
	return paths
}

// FormatBlock renderiza un registro:
//
//	==================================================
//	[target: example.com] web domain list (2026-10-19 14:05:09)
//	==================================================
//	a.example.com
//	b.example.com
//	<línea en blanco>
func FormatBlock(rec domain.OutputRecord) string {
	sep := strings.Repeat("=", separatorWidth)

	var b strings.Builder
	b.WriteString(sep)
	b.WriteString("\n")
	fmt.Fprintf(&b, "[target: %s] %s %s list (%s)\n",
		rec.Target, rec.Resource, rec.Field, rec.Timestamp.Format(timestampLayout))
	b.WriteString(sep)
	b.WriteString("\n")
	for _, v := range rec.Values {
		b.WriteString(v)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
