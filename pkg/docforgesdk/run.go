package docforgesdk

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/osvaldoandrade/docforge/internal/app/ledger"
	"github.com/osvaldoandrade/docforge/internal/app/parse"
	"github.com/osvaldoandrade/docforge/internal/app/prompt"
	"github.com/osvaldoandrade/docforge/internal/app/run"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/docforge/internal/infra/chat"
	"github.com/osvaldoandrade/docforge/internal/infra/filesystem"
	"github.com/osvaldoandrade/docforge/internal/infra/ident"
	"github.com/osvaldoandrade/docforge/internal/infra/sidecar"
	"github.com/osvaldoandrade/docforge/internal/platform"
)

type Message struct {
	Role    string
	Content string
}

// Request is what a Transformer receives for one document.
type Request struct {
	Service  string
	Model    string
	Messages []Message
}

// Transformer replaces the HTTP chat client, for tests or other backends.
type Transformer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type TransformerFunc func(ctx context.Context, req Request) (string, error)

func (f TransformerFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// RunRequest describes one pass over source trees. Concurrent runs must not
// share an Output folder.
type RunRequest struct {
	Sources []string
	Output  string
	// Pattern may carry a " -folder" or " -all" suffix; Strategy wins when
	// both are set.
	Pattern        string
	Strategy       Strategy
	Extension      string
	Prompt         string
	Service        string
	DryRun         bool
	Diff           bool
	RebuildMissing bool
	Transformer    Transformer
	OnDocument     func(DocumentResult)
}

type DocumentResult struct {
	Target  string
	Path    string
	Outcome string
	Hash    uint32
	Size    int64
	Sources int
	Elapsed time.Duration
	Diff    string
	Err     error
}

type RunResult struct {
	RunID     string
	Saved     int
	Skipped   int
	Planned   int
	Failed    int
	Errors    int
	Elapsed   time.Duration
	Documents []DocumentResult
}

// Run processes every document of req. Failed documents are reported in the
// result and make Run return ErrIncomplete; indexes are saved either way.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	if err := c.ensureOpen(); err != nil {
		return RunResult{}, err
	}
	logger := c.cfg.Logger

	serviceName := req.Service
	if strings.TrimSpace(serviceName) == "" {
		serviceName = c.cfg.Service
	}
	profile, err := c.settings.Service(serviceName)
	if err != nil {
		return RunResult{}, err
	}
	promptText, err := prompt.Resolve(ctx, filesystem.PromptDir{Dir: filepath.Join(c.cfg.ConfigDir, "Prompts")}, req.Prompt)
	if err != nil {
		return RunResult{}, err
	}

	glob, strategy := domain.ParsePattern(req.Pattern)
	if req.Strategy != "" {
		strategy, err = domain.ParseParseStrategy(string(req.Strategy))
		if err != nil {
			return RunResult{}, err
		}
	}
	extension := req.Extension
	if strings.TrimSpace(extension) == "" {
		extension = ".md"
	}

	store := ledger.NewStore(sidecar.NewCodec(), ledger.Options{
		SidecarName: ledger.PromptSidecarName(promptText),
		Logger:      platform.Component(logger, "ledger"),
	})
	defer store.Close()

	parser, err := parse.NewService(store, parse.Options{
		Sources:  req.Sources,
		Target:   req.Output,
		Pattern:  glob,
		Generate: parse.ExtensionGenerator(extension),
	}, platform.Component(logger, "parse"))
	if err != nil {
		return RunResult{}, err
	}
	builder, err := prompt.NewBuilder(filesystem.SourceReader{}, canonicaljson.HeaderEncoder{}, prompt.Options{
		Prompt:  promptText,
		Profile: profile,
	})
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{}
	ports := run.Ports{
		Builder:     builder,
		Transformer: chat.NewClient(),
		Artifacts:   filesystem.Artifacts{},
		IDs:         ident.NewRunIDs(),
		Observer:    observerFunc(func(report run.Report) { result.add(report, req.OnDocument) }),
	}
	if req.Transformer != nil {
		ports.Transformer = transformerAdapter{inner: req.Transformer}
	}
	if req.Diff {
		ports.Differ = filesystem.Differ{Context: 3}
	}
	if journal, err := c.ensureJournal(); err == nil {
		ports.Journal = journal
	}

	runner, err := run.NewService(ports, run.Options{
		DryRun:         req.DryRun,
		Diff:           req.Diff,
		RebuildMissing: req.RebuildMissing,
	}, platform.Component(logger, "run"))
	if err != nil {
		return RunResult{}, err
	}

	summary, runErr := runner.Run(ctx, parser.Units(ctx, strategy))
	result.RunID = summary.RunID
	result.Saved = summary.Saved
	result.Skipped = summary.Skipped
	result.Planned = summary.Planned
	result.Failed = summary.Failed
	result.Errors = summary.Errors
	result.Elapsed = summary.Elapsed

	if err := errors.Join(runErr, store.Close()); err != nil {
		return result, err
	}
	if summary.Incomplete() {
		return result, fmt.Errorf("%w: %d failed, %d unreadable", ErrIncomplete, summary.Failed, summary.Errors)
	}
	return result, nil
}

func (r *RunResult) add(report run.Report, notify func(DocumentResult)) {
	doc := DocumentResult{
		Target:  report.Target,
		Path:    report.Path,
		Outcome: string(report.Outcome),
		Hash:    uint32(report.Hash),
		Size:    report.Size,
		Sources: report.Sources,
		Elapsed: report.Elapsed,
		Diff:    report.Diff,
		Err:     report.Err,
	}
	r.Documents = append(r.Documents, doc)
	if notify != nil {
		notify(doc)
	}
}

type observerFunc func(run.Report)

func (f observerFunc) Observe(report run.Report) {
	f(report)
}

type transformerAdapter struct {
	inner Transformer
}

func (t transformerAdapter) Complete(ctx context.Context, payload domain.Payload) (string, error) {
	req := Request{
		Service:  payload.Profile.Name,
		Model:    payload.Profile.Model,
		Messages: make([]Message, 0, len(payload.Messages)),
	}
	for _, message := range payload.Messages {
		req.Messages = append(req.Messages, Message{Role: string(message.Role), Content: message.Content})
	}
	return t.inner.Complete(ctx, req)
}
