// internal/adapters/input/prompter.go
package input

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/logx"
)

// AskFunc pide una línea de texto al usuario.
type AskFunc func(prompt string) (string, error)

// Prompter solicita de forma interactiva la ruta del archivo de targets
// hasta que se proporcione uno válido.
type Prompter struct {
	ask    AskFunc
	out    io.Writer
	logger logx.Logger
}

// NewPrompter crea un Prompter que lee con pterm y escribe en out.
func NewPrompter(out io.Writer, logger logx.Logger) *Prompter {
	return &Prompter{
		ask:    ptermAsk,
		out:    out,
		logger: logger.With("component", "input"),
	}
}

// WithAsk reemplaza la función de lectura (útil para tests).
func (p *Prompter) WithAsk(ask AskFunc) *Prompter {
	p.ask = ask
	return p
}

// Collect pregunta por el archivo de targets, re-preguntando en cada error de validación,
// y muestra la lista numerada cargada.
func (p *Prompter) Collect(ctx context.Context) (string, []domain.Target, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		path, err := p.ask("Path to the targets file (one target per line)")
		if err != nil {
			return "", nil, fmt.Errorf("read targets path: %w", err)
		}
		path = strings.TrimSpace(path)

		targets, err := LoadTargets(path)
		if err != nil {
			p.logger.Debug("invalid targets file", "path", path, "error", err.Error())
			fmt.Fprint(p.out, pterm.Error.Sprintln(err.Error()))
			continue
		}

		Echo(p.out, targets)
		return path, targets, nil
	}
}

// Echo imprime la lista numerada de targets.
func Echo(w io.Writer, targets []domain.Target) {
	fmt.Fprint(w, pterm.Success.Sprintln(fmt.Sprintf("Loaded %d target(s):", len(targets))))
	for i, t := range targets {
		fmt.Fprintf(w, "  %d. %s\n", i+1, t)
	}
}

func ptermAsk(prompt string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(prompt)
}
