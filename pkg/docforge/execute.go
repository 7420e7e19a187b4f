package docforge

import "github.com/osvaldoandrade/docforge/internal/cli"

// Execute runs the docforge CLI entrypoint.
func Execute() int {
	return cli.Execute()
}
