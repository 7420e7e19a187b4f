package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	integrityapp "github.com/osvaldoandrade/docforge/internal/app/integrity"
	"github.com/osvaldoandrade/docforge/internal/app/ledger"
	"github.com/osvaldoandrade/docforge/internal/app/parse"
	"github.com/osvaldoandrade/docforge/internal/app/prompt"
	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
	"github.com/osvaldoandrade/docforge/internal/app/run"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/docforge/internal/infra/chat"
	"github.com/osvaldoandrade/docforge/internal/infra/config"
	"github.com/osvaldoandrade/docforge/internal/infra/filesystem"
	"github.com/osvaldoandrade/docforge/internal/infra/gitrepo"
	"github.com/osvaldoandrade/docforge/internal/infra/ident"
	"github.com/osvaldoandrade/docforge/internal/infra/sidecar"
	"github.com/osvaldoandrade/docforge/internal/infra/sqlitejournal"
	"github.com/osvaldoandrade/docforge/internal/platform"
	"github.com/spf13/cobra"
)

const promptsDir = "Prompts"

type runFlags struct {
	Parse          []string
	Output         string
	Pattern        string
	Strategy       string
	Name           string
	Service        string
	Prompt         string
	GitURL         string
	DryRun         bool
	Diff           bool
	RebuildMissing bool
}

func newRunCmd(opts *RootOptions) *cobra.Command {
	flags := &runFlags{
		Pattern:        domain.DefaultPattern,
		Name:           envDefault("DOCFORGE_TARGET_EXT", ".md"),
		RebuildMissing: envBoolDefault("DOCFORGE_REBUILD_MISSING", true),
		GitURL:         envDefault("DOCFORGE_GIT", ""),
	}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send changed documents to the AI service and save the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRun(cmd, opts, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.Parse, "parse", nil, "Source folder or file to read (repeatable)")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Target folder for the results")
	cmd.Flags().StringVar(&flags.Pattern, "pattern", flags.Pattern, `File pattern, optionally suffixed with " -folder" or " -all"`)
	cmd.Flags().StringVar(&flags.Strategy, "strategy", "", "Grouping strategy (file, folder, all); overrides the pattern suffix")
	cmd.Flags().StringVar(&flags.Name, "name", flags.Name, "Extension appended to result file names")
	cmd.Flags().StringVar(&flags.Service, "service", "", "Service profile name (defaults to the configured default)")
	cmd.Flags().StringVar(&flags.Prompt, "prompt", "", `Prompt text, or "file:<name>" to load <config>/Prompts/<name>`)
	cmd.Flags().StringVar(&flags.GitURL, "git", flags.GitURL, "Clone or pull this repository into the config folder first")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Report what would run without calling the service")
	cmd.Flags().BoolVar(&flags.Diff, "diff", false, "Show a unified diff of every rewritten result")
	cmd.Flags().BoolVar(&flags.RebuildMissing, "rebuild-missing", flags.RebuildMissing, "Run unchanged documents whose result file is missing")
	for _, name := range []string{"parse", "output", "prompt"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			return cmd
		}
	}
	return cmd
}

func executeRun(cmd *cobra.Command, opts *RootOptions, flags *runFlags) error {
	ctx := cmd.Context()
	logger := slog.Default()

	if strings.TrimSpace(flags.GitURL) != "" {
		if err := syncConfig(cmd, opts, flags.GitURL); err != nil {
			return err
		}
	}

	cfg, err := config.NewLoader(platform.Component(logger, "config")).Load(ctx, opts.ConfigDir)
	if err != nil {
		return err
	}
	profile, err := cfg.Service(flags.Service)
	if err != nil {
		return err
	}
	promptText, err := prompt.Resolve(ctx, filesystem.PromptDir{Dir: filepath.Join(opts.ConfigDir, promptsDir)}, flags.Prompt)
	if err != nil {
		return err
	}

	glob, strategy := domain.ParsePattern(flags.Pattern)
	if strings.TrimSpace(flags.Strategy) != "" {
		strategy, err = domain.ParseParseStrategy(flags.Strategy)
		if err != nil {
			return err
		}
	}

	store := ledger.NewStore(sidecar.NewCodec(), ledger.Options{
		SidecarName: ledger.PromptSidecarName(promptText),
		Logger:      platform.Component(logger, "ledger"),
	})
	defer store.Close()

	parser, err := parse.NewService(store, parse.Options{
		Sources:  flags.Parse,
		Target:   flags.Output,
		Pattern:  glob,
		Generate: parse.ExtensionGenerator(flags.Name),
	}, platform.Component(logger, "parse"))
	if err != nil {
		return err
	}

	builder, err := prompt.NewBuilder(filesystem.SourceReader{}, canonicaljson.HeaderEncoder{}, prompt.Options{
		Prompt:  promptText,
		Profile: profile,
	})
	if err != nil {
		return err
	}

	reporter := newRunReporter(cmd.OutOrStdout(), opts.JSONOutput)
	ports := run.Ports{
		Builder:     builder,
		Transformer: chat.NewClient(),
		Artifacts:   filesystem.Artifacts{},
		IDs:         ident.NewRunIDs(),
		Observer:    reporter,
	}
	if flags.Diff {
		ports.Differ = filesystem.Differ{Context: 3}
	}
	if strings.TrimSpace(opts.JournalPath) != "" {
		journal, err := sqlitejournal.OpenWithOptions(opts.JournalPath, sqlitejournal.OpenOptions{Fast: true})
		if err != nil {
			return err
		}
		defer journal.Close()
		ports.Journal = journal
	}

	runner, err := run.NewService(ports, run.Options{
		DryRun:         flags.DryRun,
		Diff:           flags.Diff,
		RebuildMissing: flags.RebuildMissing,
	}, platform.Component(logger, "run"))
	if err != nil {
		return err
	}

	logger.Debug("run started",
		"service", profile.Name,
		"model", profile.Model,
		"strategy", string(strategy),
		"pattern", glob,
		"sidecar", store.SidecarName(),
	)

	summary, runErr := runner.Run(ctx, parser.Units(ctx, strategy))
	saveErr := store.Close()
	if err := reporter.finish(summary, profile.Name); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if saveErr != nil {
		return fmt.Errorf("save indexes: %w", saveErr)
	}
	if summary.Incomplete() {
		return fmt.Errorf("%d failed, %d unreadable: %w", summary.Failed, summary.Errors, run.ErrIncomplete)
	}
	return nil
}

func syncConfig(cmd *cobra.Command, opts *RootOptions, url string) error {
	service := repoapp.NewSyncService(gitrepo.NewStore())
	ui := newRenderer(cmd.ErrOrStderr(), opts.JSONOutput)
	var result repoapp.SyncResult
	err := ui.spin(cmd.Context(), "Syncing configuration", func() error {
		var err error
		result, err = service.Sync(cmd.Context(), url, opts.ConfigDir)
		return err
	})
	if err != nil {
		return err
	}
	slog.Default().Info("configuration synced",
		"path", result.Path,
		"cloned", result.Cloned,
		"updated", result.Updated,
		"head", result.Head,
	)
	return nil
}

func newIndexCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect the fingerprint indexes of a target folder",
		RunE:  runHelp,
	}
	cmd.AddCommand(newIndexShowCmd(opts), newIndexVerifyCmd(opts))
	return cmd
}

func newIndexVerifyCmd(opts *RootOptions) *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "verify <dir>",
		Short: "Check every index file below a target folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := integrityapp.NewVerifyService(filesystem.IndexFiles{}, sidecar.NewCodec())
			result, err := service.Verify(cmd.Context(), args[0], integrityapp.VerifyOptions{Prune: prune})
			if err != nil {
				return err
			}
			return writeVerifyResult(cmd, result, opts.JSONOutput)
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "Reset corrupt index files and drop duplicate or pending entries")
	return cmd
}

func newIndexShowCmd(opts *RootOptions) *cobra.Command {
	var promptValue string
	cmd := &cobra.Command{
		Use:   "show <dir>",
		Short: "Print the index entries stored in a target folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			names, err := sidecarNames(ctx, opts, args[0], promptValue)
			if err != nil {
				return err
			}

			views := make([]indexView, 0, len(names))
			for _, name := range names {
				store := ledger.NewStore(sidecar.NewCodec(), ledger.Options{
					SidecarName: name,
					Logger:      platform.Component(slog.Default(), "ledger"),
				})
				idx, err := store.ForDirectory(ctx, args[0])
				if err != nil {
					return err
				}
				views = append(views, indexView{Path: idx.Path(), Entries: idx.Entries()})
			}
			return writeIndexes(cmd, views, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&promptValue, "prompt", "", "Only show the index of this prompt (text or file:<name>)")
	return cmd
}

// sidecarNames lists the index files to show: the one scoped to prompt when
// given, otherwise every index file present in dir.
func sidecarNames(ctx context.Context, opts *RootOptions, dir, promptValue string) ([]string, error) {
	if strings.TrimSpace(promptValue) != "" {
		text, err := prompt.Resolve(ctx, filesystem.PromptDir{Dir: filepath.Join(opts.ConfigDir, promptsDir)}, promptValue)
		if err != nil {
			return nil, err
		}
		return []string{ledger.PromptSidecarName(text)}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read index dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ledger.DefaultSidecarName) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, errNoIndexFiles)
	}
	sort.Strings(names)
	return names, nil
}

var errNoIndexFiles = errors.New("no index files found")

func newHistoryCmd(opts *RootOptions) *cobra.Command {
	var runID string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded run outcomes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.JournalPath) == "" {
				return errJournalRequired
			}
			if strings.TrimSpace(runID) != "" {
				if _, err := ident.Time(runID); err != nil {
					return fmt.Errorf("%w: %w", errInvalidRunID, err)
				}
			}
			journal, err := sqlitejournal.Open(opts.JournalPath)
			if err != nil {
				return err
			}
			defer journal.Close()

			records, err := journal.Recent(cmd.Context(), runID, limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd, records, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Only list records of this run id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records")
	return cmd
}

var errJournalRequired = errors.New("journal path is required (use --journal or DOCFORGE_JOURNAL)")
var errInvalidRunID = errors.New("invalid run id")

func runHelp(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
