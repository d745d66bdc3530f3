// internal/core/domain/target.go
package domain

import "strings"

// Target es el identificador que se envía como parámetro de búsqueda.
// No se asume estructura interna: puede ser un dominio, una razón social o un número de registro.
type Target string

// NewTarget crea un target eliminando espacios alrededor.
func NewTarget(raw string) Target {
	return Target(strings.TrimSpace(raw))
}

// Validate verifica que el target no esté vacío.
func (t Target) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return ErrEmptyTarget
	}
	return nil
}

// String retorna el valor del target.
func (t Target) String() string {
	return string(t)
}

// ParseTargets convierte líneas de texto en targets, ignorando líneas en blanco
// y preservando el orden original.
func ParseTargets(lines []string) []Target {
	targets := make([]Target, 0, len(lines))
	for _, line := range lines {
		t := NewTarget(line)
		if t.Validate() != nil {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}
