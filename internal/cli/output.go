package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	integrityapp "github.com/osvaldoandrade/docforge/internal/app/integrity"
	"github.com/osvaldoandrade/docforge/internal/app/run"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/spf13/cobra"
)

type reportOutput struct {
	Target    string `json:"target"`
	Path      string `json:"path,omitempty"`
	Identity  string `json:"identity,omitempty"`
	Outcome   string `json:"outcome"`
	Hash      uint32 `json:"hash"`
	Size      int64  `json:"size"`
	Sources   int    `json:"sources"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Diff      string `json:"diff,omitempty"`
	Error     string `json:"error,omitempty"`
}

type runOutput struct {
	RunID     string         `json:"run_id"`
	Service   string         `json:"service,omitempty"`
	Saved     int            `json:"saved"`
	Skipped   int            `json:"skipped"`
	Planned   int            `json:"planned"`
	Failed    int            `json:"failed"`
	Errors    int            `json:"errors"`
	ElapsedMS int64          `json:"elapsed_ms"`
	Documents []reportOutput `json:"documents"`
}

type indexView struct {
	Path    string
	Entries []domain.IndexEntry
}

type indexOutput struct {
	Path    string              `json:"path"`
	Entries []domain.IndexEntry `json:"entries"`
}

type verifyOutput struct {
	Indexes int                 `json:"indexes"`
	Valid   int                 `json:"valid"`
	Entries int                 `json:"entries"`
	Pruned  int                 `json:"pruned"`
	Issues  []verifyIssueOutput `json:"issues,omitempty"`
}

type verifyIssueOutput struct {
	IndexPath string `json:"index_path"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type historyOutput struct {
	RunID     string `json:"run_id"`
	Target    string `json:"target"`
	Identity  string `json:"identity,omitempty"`
	Outcome   string `json:"outcome"`
	Hash      uint32 `json:"hash"`
	Size      int64  `json:"size"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// runReporter prints one line per document as the run progresses. In JSON
// mode reports are buffered and written once by finish.
type runReporter struct {
	out     io.Writer
	ui      renderer
	asJSON  bool
	reports []reportOutput
}

func newRunReporter(out io.Writer, asJSON bool) *runReporter {
	return &runReporter{out: out, ui: newRenderer(out, asJSON), asJSON: asJSON}
}

func (r *runReporter) Observe(report run.Report) {
	if r.asJSON {
		output := reportOutput{
			Target:    report.Target,
			Path:      report.Path,
			Identity:  report.Identity,
			Outcome:   string(report.Outcome),
			Hash:      uint32(report.Hash),
			Size:      report.Size,
			Sources:   report.Sources,
			ElapsedMS: report.Elapsed.Milliseconds(),
			Diff:      report.Diff,
		}
		if report.Err != nil {
			output.Error = report.Err.Error()
		}
		r.reports = append(r.reports, output)
		return
	}

	size := r.ui.dim(fmt.Sprintf("(%d file(s), %s)", report.Sources, humanize.Bytes(uint64(max(report.Size, 0)))))
	switch report.Outcome {
	case domain.OutcomeSkipped:
		fmt.Fprintf(r.out, "%s : %s %s\n", r.ui.dim("skipped, unchanged"), report.Target, size)
	case domain.OutcomePlanned:
		fmt.Fprintf(r.out, "%s : %s %s\n", r.ui.accent("would run"), report.Target, size)
	case domain.OutcomeSaved:
		fmt.Fprintf(r.out, "%s: %s %s %s\n", r.ui.ok("result saved"), report.Path, size, r.ui.dim("executed in "+formatElapsed(report.Elapsed)))
		if report.Diff != "" {
			fmt.Fprint(r.out, report.Diff)
		}
	default:
		fmt.Fprintf(r.out, "%s: %s: %v\n", r.ui.err("not saved"), report.Target, report.Err)
	}
}

func (r *runReporter) finish(summary run.Summary, service string) error {
	if r.asJSON {
		payload := runOutput{
			RunID:     summary.RunID,
			Service:   service,
			Saved:     summary.Saved,
			Skipped:   summary.Skipped,
			Planned:   summary.Planned,
			Failed:    summary.Failed,
			Errors:    summary.Errors,
			ElapsedMS: summary.Elapsed.Milliseconds(),
			Documents: r.reports,
		}
		if payload.Documents == nil {
			payload.Documents = []reportOutput{}
		}
		return writeJSON(r.out, payload)
	}

	if total := summary.Total(); total > 0 {
		if _, err := fmt.Fprintf(r.out, "%s %s unchanged\n", r.ui.key("Cache"), r.ui.meter(summary.Skipped, total)); err != nil {
			return err
		}
	}
	status := r.ui.ok("Done")
	if summary.Incomplete() {
		status = r.ui.warn("Incomplete")
	}
	_, err := fmt.Fprintf(r.out, "%s: %d saved, %d skipped, %d planned, %d failed, %d unreadable in %s %s\n",
		status, summary.Saved, summary.Skipped, summary.Planned, summary.Failed, summary.Errors,
		formatElapsed(summary.Elapsed), r.ui.dim("run "+summary.RunID))
	return err
}

func writeIndexes(cmd *cobra.Command, views []indexView, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := make([]indexOutput, 0, len(views))
		for _, view := range views {
			entries := view.Entries
			if entries == nil {
				entries = []domain.IndexEntry{}
			}
			payload = append(payload, indexOutput{Path: view.Path, Entries: entries})
		}
		return writeJSON(out, payload)
	}

	ui := newRenderer(out, asJSON)
	for _, view := range views {
		if err := writeKV(out, ui, "Index", view.Path); err != nil {
			return err
		}
		if len(view.Entries) == 0 {
			if _, err := fmt.Fprintf(out, "  %s\n", ui.dim("(empty)")); err != nil {
				return err
			}
			continue
		}
		for _, entry := range view.Entries {
			length := ui.dim("-")
			if entry.Length != nil {
				length = humanize.Bytes(uint64(max(*entry.Length, 0)))
			}
			hash := ui.warn("pending")
			if entry.Hash != 0 {
				hash = fmt.Sprintf("%d", entry.Hash)
			}
			if _, err := fmt.Fprintf(out, "  %s %s %s\n", entry.Name, hash, length); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeVerifyResult(cmd *cobra.Command, result integrityapp.VerifyResult, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := verifyOutput{
			Indexes: result.Indexes,
			Valid:   result.Valid,
			Entries: result.Entries,
			Pruned:  result.Pruned,
			Issues:  make([]verifyIssueOutput, 0, len(result.Issues)),
		}
		for _, issue := range result.Issues {
			payload.Issues = append(payload.Issues, verifyIssueOutput{
				IndexPath: issue.IndexPath,
				Code:      issue.Code,
				Message:   issue.Message,
			})
		}
		return writeJSON(out, payload)
	}

	ui := newRenderer(out, asJSON)
	if result.Indexes > 0 {
		if _, err := fmt.Fprintf(out, "%s %s\n", ui.key("Indexes"), ui.meter(result.Valid, result.Indexes)); err != nil {
			return err
		}
	}

	if len(result.Issues) == 0 {
		_, err := fmt.Fprintf(out, "%s: %d index file(s), %d entries verified\n", ui.ok("OK"), result.Indexes, result.Entries)
		return err
	}

	if _, err := fmt.Fprintf(out, "%s %d index file(s): %d ok, %d issue(s), %d pruned\n", ui.warn("Issues"), result.Indexes, result.Valid, len(result.Issues), result.Pruned); err != nil {
		return err
	}
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(out, "- %s [%s] %s\n", issue.IndexPath, ui.err(issue.Code), issue.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(cmd *cobra.Command, records []domain.RunRecord, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := make([]historyOutput, 0, len(records))
		for _, record := range records {
			payload = append(payload, historyOutput{
				RunID:     record.RunID,
				Target:    record.Target,
				Identity:  record.Identity,
				Outcome:   string(record.Outcome),
				Hash:      record.Hash,
				Size:      record.Size,
				ElapsedMS: record.Elapsed.Milliseconds(),
				Error:     record.Error,
				CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
			})
		}
		return writeJSON(out, payload)
	}

	ui := newRenderer(out, asJSON)
	for _, record := range records {
		line := fmt.Sprintf("%s %s %s %s", ui.dim(record.RunID), ui.outcome(record.Outcome), record.Target, ui.dim(humanize.Time(record.CreatedAt)))
		if record.Error != "" {
			line += " " + ui.err(record.Error)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.Marshal(v, jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}

func writeKV(out io.Writer, ui renderer, key, value string) error {
	_, err := fmt.Fprintf(out, "%s: %s\n", ui.key(key), value)
	return err
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
