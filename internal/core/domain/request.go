// internal/core/domain/request.go
package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RequestDescriptor describe una petición concreta para un par (target, tipo de recurso).
// Se construye de nuevo en cada intento, por lo que la identidad cambia entre reintentos.
type RequestDescriptor struct {
	// BaseURL endpoint del servicio de agregación (sin el tipo de recurso)
	BaseURL string

	// Resource tipo de recurso consultado
	Resource ResourceType

	// Target valor enviado como parámetro search
	Target Target

	// PageSize tamaño de página solicitado
	PageSize int

	// Identity identidad de cliente (User-Agent) elegida para este intento
	Identity string

	// ConnectTimeout límite para establecer la conexión
	ConnectTimeout time.Duration

	// Timeout límite total del intento
	Timeout time.Duration
}

// URL construye GET {base}/{resource}?search={target}&pageSize={n}.
// El target se codifica por completo, incluidos los caracteres reservados.
func (d RequestDescriptor) URL() string {
	return fmt.Sprintf("%s/%s?search=%s&pageSize=%d",
		strings.TrimRight(d.BaseURL, "/"),
		d.Resource,
		escapeQueryValue(string(d.Target)),
		d.PageSize,
	)
}

// escapeQueryValue codifica todo salvo los caracteres no reservados; los espacios quedan como %20.
func escapeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
