// internal/platform/ui/pterm_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar secciones, colores y tablas en la terminal.
type PTermPresenter struct {
	mu sync.Mutex
	w  io.Writer

	runStart time.Time
	total    int
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter(w io.Writer) *PTermPresenter {
	return &PTermPresenter{w: w}
}

// Notify renderiza un evento del pipeline
func (p *PTermPresenter) Notify(ctx context.Context, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch data := event.Data.(type) {
	case ports.RunStartedEvent:
		p.runStarted(data)
	case ports.TargetStartedEvent:
		p.targetStarted(event.Target, data)
	case ports.AttemptFailedEvent:
		p.attemptFailed(event, data)
	case ports.PairCompletedEvent:
		p.pairCompleted(data.Result)
	case ports.WaitingEvent:
		p.print(pterm.Info.Sprintln(fmt.Sprintf("%s waiting %s before the %s",
			IconTime, formatDuration(data.Duration), waitLabel(data.Kind))))
	case ports.RunCompletedEvent:
		p.runCompleted(data.Summary)
	case ports.DownstreamEvent:
		p.downstream(event.Type, data)
	default:
		if event.Type == ports.EventTypePairStarted {
			p.print(StyleSecondary.Sprintf("   %s %s querying...\n", event.Resource, event.Target))
		}
	}
	return nil
}

func (p *PTermPresenter) runStarted(data ports.RunStartedEvent) {
	p.runStart = time.Now()
	p.total = len(data.Targets)

	p.print(pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintln("icpharvest - ICP batch query"))

	var b strings.Builder
	fmt.Fprintf(&b, "%s Targets: %s\n", IconTarget, pterm.Cyan(len(data.Targets)))
	fmt.Fprintf(&b, "   Resource types: %s\n", pterm.Cyan(joinResources()))
	fmt.Fprintf(&b, "   Transport: %s\n", pterm.Yellow(data.Transport))
	fmt.Fprintf(&b, "   Attempts per pair: %d\n", data.MaxAttempts)
	fmt.Fprintf(&b, "%s Resource delay: %s\n", IconTime, data.ResourceDelay)
	fmt.Fprintf(&b, "%s Target delay: %s\n", IconTime, data.TargetDelay)
	fmt.Fprintf(&b, "   Run: %s", StyleSecondary.Sprint(data.RunID))

	p.print(pterm.DefaultBox.
		WithTitle("Batch").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprintln(b.String()))

	for i, t := range data.Targets {
		p.print(fmt.Sprintf("  %d. %s\n", i+1, t))
	}
	p.print("\n" + pterm.LightBlue(SeparatorHeavy) + "\n")
}

func (p *PTermPresenter) targetStarted(target domain.Target, data ports.TargetStartedEvent) {
	title := fmt.Sprintf("%s Target %d/%d: %s", IconTarget, data.Index+1, data.Total, pterm.Cyan(target))
	p.print(pterm.DefaultSection.WithLevel(2).Sprintln(title))
}

func (p *PTermPresenter) attemptFailed(event ports.Event, data ports.AttemptFailedEvent) {
	msg := fmt.Sprintf("%s %s: attempt %d/%d failed (%s)",
		event.Resource, event.Target, data.Attempt, data.MaxAttempts, data.Class)
	if data.Backoff > 0 {
		msg += fmt.Sprintf(", %d retries left, waiting %s",
			data.MaxAttempts-data.Attempt, formatDuration(data.Backoff))
	}
	p.print(pterm.Warning.Sprintln(msg))
}

func (p *PTermPresenter) pairCompleted(r domain.PairResult) {
	switch {
	case r.Exhausted:
		p.print(pterm.Error.Sprintln(fmt.Sprintf("%s %s: request failed after %d attempts",
			r.Resource, r.Target, r.Attempts)))
	case r.Diagnostic:
		p.print(pterm.Warning.Sprintln(fmt.Sprintf("%s %s: %s -> %s",
			r.Resource, r.Target, r.Failure, absPath(r.File))))
	default:
		p.print(pterm.Success.Sprintln(fmt.Sprintf("%s %s: %d %s -> %s",
			r.Resource, r.Target, r.Values, r.Resource.FieldName(), absPath(r.File))))
	}
}

func (p *PTermPresenter) runCompleted(s *domain.RunSummary) {
	if s == nil {
		return
	}

	p.print("\n" + pterm.LightBlue(SeparatorHeavy) + "\n")
	p.print(pterm.DefaultSection.Sprintln(IconStats + " Summary"))

	data := pterm.TableData{{"Target", "Resource", "Result", "Attempts"}}
	for _, r := range s.Pairs {
		data = append(data, []string{string(r.Target), string(r.Resource), pairStatus(r), fmt.Sprint(r.Attempts)})
	}
	if table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		p.print(table + "\n")
	}

	p.print(fmt.Sprintf("\n%s Pairs: %d  extracted: %s  diagnostic: %s  failed: %s  values: %d  duration: %s\n",
		IconInfo,
		len(s.Pairs),
		StyleSuccess.Sprint(s.Extracted()),
		StyleWarning.Sprint(len(s.Pairs)-s.Extracted()-s.Exhausted()),
		StyleError.Sprint(s.Exhausted()),
		s.TotalValues(),
		formatDuration(s.Duration()),
	))

	p.print("\n" + IconFiles + " Result files:\n")
	for _, f := range s.OutputFiles {
		p.print("   - " + absPath(f) + "\n")
	}
	p.print(fmt.Sprintf("%s Request logs: %s\n", IconStats, absPath(s.LogDir)))
}

func (p *PTermPresenter) downstream(t ports.EventType, data ports.DownstreamEvent) {
	if t == ports.EventTypeDownstreamStarted {
		p.print(pterm.DefaultSection.Sprintln("Downstream script"))
		p.print(pterm.Info.Sprintln("running " + data.Script))
		return
	}

	if data.Err != nil {
		p.print(pterm.Error.Sprintln(data.Err.Error()))
		return
	}
	res := data.Result
	if res == nil {
		return
	}
	if res.PermissionGranted {
		p.print(pterm.Info.Sprintln("granted execute permission to " + res.Script))
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		p.print(pterm.DefaultBox.WithTitle("stdout").Sprintln(out))
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		p.print(pterm.DefaultBox.WithTitle("stderr").WithBoxStyle(pterm.NewStyle(pterm.FgRed)).Sprintln(errOut))
	}
	if res.Success() {
		p.print(pterm.Success.Sprintln(fmt.Sprintf("downstream script finished in %s", formatDuration(res.Duration))))
	} else {
		p.print(pterm.Error.Sprintln(fmt.Sprintf("downstream script failed (exit code %d)", res.ExitCode)))
	}
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(pterm.Info.Sprintln(msg))
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(pterm.Warning.Sprintln(msg))
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(pterm.Error.Sprintln(msg))
}

// Close no libera nada: todo se escribe de forma síncrona
func (p *PTermPresenter) Close() error {
	return nil
}

func (p *PTermPresenter) print(s string) {
	fmt.Fprint(p.w, s)
}

func pairStatus(r domain.PairResult) string {
	switch {
	case r.Exhausted:
		return StatusError.Style().Sprint(StatusError.Symbol() + " failed")
	case r.Diagnostic:
		return StatusWarning.Style().Sprint(StatusWarning.Symbol() + " " + string(r.Failure))
	default:
		return StatusSuccess.Style().Sprint(fmt.Sprintf("%s %d", StatusSuccess.Symbol(), r.Values))
	}
}

func joinResources() string {
	var names []string
	for _, r := range domain.AllResourceTypes() {
		names = append(names, string(r))
	}
	return strings.Join(names, " -> ")
}
