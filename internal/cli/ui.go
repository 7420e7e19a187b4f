package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type style string

const (
	styleReset  style = "\x1b[0m"
	styleKey    style = "\x1b[1m\x1b[38;5;51m"
	styleOK     style = "\x1b[1m\x1b[38;5;82m"
	styleWarn   style = "\x1b[1m\x1b[38;5;214m"
	styleErr    style = "\x1b[1m\x1b[38;5;196m"
	styleAccent style = "\x1b[1m\x1b[38;5;201m"
	styleDim    style = "\x1b[2m"
)

const meterWidth = 24

// renderer decorates terminal output. Color and the spinner are only used
// when out is a terminal, NO_COLOR is unset and JSON output is off.
type renderer struct {
	out         io.Writer
	interactive bool
}

func newRenderer(out io.Writer, asJSON bool) renderer {
	return renderer{out: out, interactive: !asJSON && isTerminal(out)}
}

func isTerminal(out io.Writer) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	term := strings.TrimSpace(os.Getenv("TERM"))
	return term != "" && term != "dumb"
}

func (r renderer) paint(s style, value string) string {
	if !r.interactive || value == "" {
		return value
	}
	return string(s) + value + string(styleReset)
}

func (r renderer) key(value string) string    { return r.paint(styleKey, value) }
func (r renderer) ok(value string) string     { return r.paint(styleOK, value) }
func (r renderer) warn(value string) string   { return r.paint(styleWarn, value) }
func (r renderer) err(value string) string    { return r.paint(styleErr, value) }
func (r renderer) accent(value string) string { return r.paint(styleAccent, value) }
func (r renderer) dim(value string) string    { return r.paint(styleDim, value) }

func (r renderer) outcome(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeSaved:
		return r.ok(string(outcome))
	case domain.OutcomeSkipped:
		return r.dim(string(outcome))
	case domain.OutcomePlanned:
		return r.accent(string(outcome))
	case domain.OutcomeFailed:
		return r.err(string(outcome))
	default:
		return string(outcome)
	}
}

// meter draws "[====----] part/total".
func (r renderer) meter(part, total int) string {
	filled := 0
	if total > 0 {
		filled = min(max(part*meterWidth/total, 0), meterWidth)
	}
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", meterWidth-filled) + "]"
	return fmt.Sprintf("%s %d/%d", bar, part, total)
}

// spin runs fn while drawing a spinner after label. fn always runs to
// completion, even when ctx is canceled.
func (r renderer) spin(ctx context.Context, label string, fn func() error) error {
	if !r.interactive {
		return fn()
	}
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	frames := `|/-\`
	canceled := ctx.Done()
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case err := <-done:
			fmt.Fprint(r.out, "\r\x1b[2K")
			return err
		case <-ticker.C:
			fmt.Fprintf(r.out, "\r%c %s", frames[frame%len(frames)], r.dim(label))
		case <-canceled:
			canceled = nil
		}
	}
}
