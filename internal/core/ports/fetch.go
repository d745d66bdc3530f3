// internal/core/ports/fetch.go
package ports

import (
	"context"
	"time"

	"icpharvest/internal/core/domain"
)

// Transport ejecuta una única petición descrita por un RequestDescriptor.
// Cualquier error (salida no cero, timeout, fallo de transporte) es transitorio para el llamador.
type Transport interface {
	// Name retorna el nombre del transporte (ej: "curl", "http")
	Name() string

	// Execute realiza la petición y retorna el cuerpo crudo de la respuesta
	Execute(ctx context.Context, req domain.RequestDescriptor) (string, error)
}

// RequestBuilder construye descriptores de petición.
// Cada llamada elige una identidad nueva, incluso para el mismo par.
type RequestBuilder interface {
	Build(target domain.Target, resource domain.ResourceType) domain.RequestDescriptor
}

// Fetcher obtiene el cuerpo de respuesta de un par aplicando la política de reintentos.
// Nunca retorna error: el agotamiento es un resultado terminal (domain.OutcomeExhausted).
type Fetcher interface {
	Fetch(ctx context.Context, target domain.Target, resource domain.ResourceType) domain.FetchResult
}

// Extractor valida y parsea el cuerpo de una respuesta.
// Los problemas de validación se convierten en placeholders de diagnóstico, nunca en errores.
type Extractor interface {
	Extract(body string, target domain.Target, resource domain.ResourceType) domain.ExtractionResult
}

// ResultWriter añade un OutputRecord al archivo de su tipo de recurso.
// Retorna la ruta escrita. Un error aquí aborta la ejecución completa.
type ResultWriter interface {
	Write(rec domain.OutputRecord) (string, error)
}

// Pacer decide las esperas entre iteraciones. No duerme: solo retorna la duración.
// ok == false cuando i es la última iteración de su tipo.
type Pacer interface {
	AfterResource(i, n int) (d time.Duration, ok bool)
	AfterTarget(i, n int) (d time.Duration, ok bool)
}

// Sleeper realiza las esperas bloqueantes (inyectable en tests).
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
