// internal/core/domain/record.go
package domain

import "time"

// OutputRecord es el bloque que se añade una vez por par (target, tipo de recurso).
// Nunca se modifica ni se elimina después de escribirse.
type OutputRecord struct {
	Resource  ResourceType
	Target    Target
	Field     string
	Timestamp time.Time
	Values    []string
}

// NewOutputRecord crea un registro a partir de un resultado de extracción.
func NewOutputRecord(target Target, resource ResourceType, result ExtractionResult, ts time.Time) OutputRecord {
	return OutputRecord{
		Resource:  resource,
		Target:    target,
		Field:     resource.FieldName(),
		Timestamp: ts,
		Values:    result.Values,
	}
}
