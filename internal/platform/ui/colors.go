// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta de colores de la terminal

var (
	// Signal - valores extraídos, operaciones exitosas
	Signal = pterm.NewRGB(0, 206, 209)

	// Amber - placeholders de diagnóstico, reintentos
	Amber = pterm.NewRGB(255, 182, 39)

	// Alarm - pares agotados, errores
	Alarm = pterm.NewRGB(215, 38, 56)

	// Slate - texto secundario, esperas
	Slate = pterm.NewRGB(110, 110, 110)
)

// Estilos preconfigurados para diferentes contextos
var (
	// StyleSuccess - Estilo para operaciones exitosas
	StyleSuccess = Signal.ToRGBStyle()

	// StyleWarning - Estilo para advertencias
	StyleWarning = Amber.ToRGBStyle()

	// StyleError - Estilo para errores
	StyleError = Alarm.ToRGBStyle()

	// StyleSecondary - Estilo para texto secundario
	StyleSecondary = Slate.ToRGBStyle()
)
