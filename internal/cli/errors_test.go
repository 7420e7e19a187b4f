package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/osvaldoandrade/docforge/internal/app/parse"
	"github.com/osvaldoandrade/docforge/internal/app/paths"
	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
	"github.com/osvaldoandrade/docforge/internal/app/run"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/config"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind ErrorKind
	}{
		{err: fmt.Errorf("2 failed, 0 unreadable: %w", run.ErrIncomplete), wantCode: ExitIncomplete, wantKind: KindIncomplete},
		{err: config.ErrConfigNotFound, wantCode: ExitNotFound, wantKind: KindNotFound},
		{err: fmt.Errorf("azure: %w", domain.ErrServiceNotFound), wantCode: ExitNotFound, wantKind: KindNotFound},
		{err: fmt.Errorf("read prompt: %w", os.ErrNotExist), wantCode: ExitNotFound, wantKind: KindNotFound},
		{err: repoapp.ErrCloneDirNotEmpty, wantCode: ExitConflict, wantKind: KindConflict},
		{err: paths.ErrPathRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: parse.ErrTargetRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: domain.ErrInvalidStrategy, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: errJournalRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: errors.New("boom"), wantCode: ExitInternal, wantKind: KindInternal},
	}

	for _, tt := range tests {
		got := NormalizeError(tt.err)
		if got.Code != tt.wantCode {
			t.Fatalf("expected code %d, got %d for %v", tt.wantCode, got.Code, tt.err)
		}
		if got.Kind != tt.wantKind {
			t.Fatalf("expected kind %s, got %s for %v", tt.wantKind, got.Kind, tt.err)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("expected ExitCode(nil) == 0")
	}

	custom := ExitError{Code: 9, Kind: KindInternal, Message: "custom"}
	if ExitCode(custom) != 9 {
		t.Fatalf("expected ExitCode(custom) == 9")
	}
}

func TestWriteCLIErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCLIError(&buf, NormalizeError(config.ErrConfigNotFound), true); err != nil {
		t.Fatalf("writeCLIError returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "not_found"`) || !strings.Contains(out, `"code": 3`) {
		t.Fatalf("unexpected output %s", out)
	}
}
