// internal/core/domain/enums.go
package domain

import "fmt"

// ResourceType identifica una de las categorías consultadas al servicio de agregación.
type ResourceType string

const (
	// ResourceWeb registros de sitios web (campo "domain")
	ResourceWeb ResourceType = "web"

	// ResourceApp registros de aplicaciones (campo "serviceName")
	ResourceApp ResourceType = "app"

	// ResourceMApp registros de mini-aplicaciones (campo "serviceName")
	ResourceMApp ResourceType = "mapp"
)

// resourceFields es la asociación fija tipo -> campo extraído. No se modifica en runtime.
var resourceFields = map[ResourceType]string{
	ResourceWeb:  "domain",
	ResourceApp:  "serviceName",
	ResourceMApp: "serviceName",
}

// AllResourceTypes retorna los tipos de recurso en el orden fijo de iteración.
func AllResourceTypes() []ResourceType {
	return []ResourceType{ResourceWeb, ResourceApp, ResourceMApp}
}

// IsValid verifica si el tipo de recurso pertenece al conjunto cerrado.
func (r ResourceType) IsValid() bool {
	_, ok := resourceFields[r]
	return ok
}

// FieldName retorna el nombre del campo que se extrae de cada elemento de la lista.
// Retorna cadena vacía para tipos desconocidos.
func (r ResourceType) FieldName() string {
	return resourceFields[r]
}

// ResultsFile retorna el nombre del archivo de resultados para el tipo.
func (r ResourceType) ResultsFile() string {
	return fmt.Sprintf("%s_results.txt", r)
}

// String retorna la representación string del tipo.
func (r ResourceType) String() string {
	return string(r)
}

// ParseResourceType convierte un string en ResourceType validando el conjunto.
func ParseResourceType(s string) (ResourceType, error) {
	r := ResourceType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}
	return r, nil
}

// OutcomeKind clasifica el resultado de un intento de petición.
type OutcomeKind int

const (
	// OutcomeSuccess el transporte completó con estado cero y devolvió un cuerpo
	OutcomeSuccess OutcomeKind = iota

	// OutcomeTransientFailure fallo recuperable (estado no cero, timeout u otro fallo)
	OutcomeTransientFailure

	// OutcomeExhausted se agotó el presupuesto de reintentos
	OutcomeExhausted
)

// String retorna la representación string del resultado.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransientFailure:
		return "transient_failure"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
