package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/platform"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	ConfigDir   string
	JournalPath string
	JSONOutput  bool
	LogLevel    string
	LogFormat   string
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{
		ConfigDir:   envDefault("DOCFORGE_CONFIG", "."),
		JournalPath: envDefault("DOCFORGE_JOURNAL", ""),
		LogLevel:    envDefault("DOCFORGE_LOG_LEVEL", "info"),
		LogFormat:   envDefault("DOCFORGE_LOG_FORMAT", "text"),
	}
	cmd := &cobra.Command{
		Use:           "docforge",
		Short:         "Run AI prompts over source trees, skipping unchanged documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := platform.ConfigureLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr())
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", opts.ConfigDir, "Configuration folder (service profiles and Prompts/)")
	cmd.PersistentFlags().StringVar(&opts.JournalPath, "journal", opts.JournalPath, "SQLite file recording every run outcome")
	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Emit JSON output")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error, off)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json)")

	cmd.AddCommand(
		newRunCmd(opts),
		newIndexCmd(opts),
		newHistoryCmd(opts),
	)

	return cmd
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBoolDefault(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
