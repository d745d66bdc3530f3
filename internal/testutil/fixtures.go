// internal/testutil/fixtures.go
package testutil

import "time"

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureTargets contiene targets de prueba.
var FixtureTargets = []string{
	"example.com",
	"example.org",
	"Example Tech Co Ltd",
}

// Cuerpos de respuesta del servicio de agregación.
const (
	// BodyWebMixed tiene 3 elementos, uno con domain vacío.
	BodyWebMixed = `{"code":200,"params":{"list":[{"domain":"a.example.com"},{"domain":""},{"domain":"b.example.com"}]}}`

	// BodyAppPadded tiene valores con espacios alrededor y un elemento sin el campo.
	BodyAppPadded = `{"code":200,"params":{"list":[{"serviceName":"  Alpha App "},{"other":"x"},{"serviceName":"Beta"}]}}`

	// BodyServerError respuesta con code distinto de 200.
	BodyServerError = `{"code":500,"params":{}}`

	// BodyMissingParams respuesta sin el contenedor params.
	BodyMissingParams = `{"code":200}`

	// BodyMissingList params presente pero sin list.
	BodyMissingList = `{"code":200,"params":{"total":0}}`

	// BodyListNotArray list con tipo incorrecto.
	BodyListNotArray = `{"code":200,"params":{"list":{"domain":"a.example.com"}}}`

	// BodyEmptyList lista vacía.
	BodyEmptyList = `{"code":200,"params":{"list":[]}}`

	// BodyNoValidValues todos los elementos sin el campo esperado.
	BodyNoValidValues = `{"code":200,"params":{"list":[{"domain":""},{"domain":"   "},{"unitName":"x"}]}}`

	// BodyNotJSON cuerpo HTML de error.
	BodyNotJSON = `<html><body>502 Bad Gateway</body></html>`
)

// FixedTime retorna un instante fijo para tests deterministas.
func FixedTime() time.Time {
	return time.Date(2026, time.October, 19, 14, 5, 9, 0, time.Local)
}
