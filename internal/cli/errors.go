package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/osvaldoandrade/docforge/internal/app/parse"
	"github.com/osvaldoandrade/docforge/internal/app/paths"
	"github.com/osvaldoandrade/docforge/internal/app/prompt"
	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
	"github.com/osvaldoandrade/docforge/internal/app/run"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/chat"
	"github.com/osvaldoandrade/docforge/internal/infra/config"
)

type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindIncomplete ErrorKind = "incomplete"
)

const (
	ExitInternal   = 1
	ExitInvalid    = 2
	ExitNotFound   = 3
	ExitConflict   = 4
	ExitIncomplete = 5
)

type ExitError struct {
	Code    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	switch {
	case errors.Is(err, run.ErrIncomplete):
		return ExitError{Code: ExitIncomplete, Kind: KindIncomplete, Err: err}
	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrNoServices),
		errors.Is(err, errNoIndexFiles),
		errors.Is(err, fs.ErrNotExist):
		return ExitError{Code: ExitNotFound, Kind: KindNotFound, Err: err}
	case errors.Is(err, repoapp.ErrCloneDirNotEmpty):
		return ExitError{Code: ExitConflict, Kind: KindConflict, Err: err}
	case errors.Is(err, paths.ErrPathRequired),
		errors.Is(err, parse.ErrTargetRequired),
		errors.Is(err, parse.ErrSourcesRequired),
		errors.Is(err, parse.ErrInvalidPattern),
		errors.Is(err, prompt.ErrPromptRequired),
		errors.Is(err, domain.ErrInvalidStrategy),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, repoapp.ErrRepoURLRequired),
		errors.Is(err, repoapp.ErrClonePathRequired),
		errors.Is(err, chat.ErrEndpointRequired),
		errors.Is(err, chat.ErrModelRequired),
		errors.Is(err, errJournalRequired),
		errors.Is(err, errInvalidRunID):
		return ExitError{Code: ExitInvalid, Kind: KindValidation, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code    int    `json:"code"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
		}
		return writeJSON(w, payload)
	}

	ui := newRenderer(w, false)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	_, err := fmt.Fprintf(w, "%s: %s\n", prefix, message)
	return err
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
