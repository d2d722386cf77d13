package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/akhdanfadh/notekeep/internal/notes"
)

// Process exit codes. Scripts can tell a rejected request (e.g. unknown id)
// apart from an unreachable or failing API.
const (
	ExitOK          = 0
	ExitError       = 1   // config, usage or transport failure
	ExitAPIRejected = 3   // the API answered 4xx
	ExitAPIFailed   = 4   // the API answered 5xx or another non-2xx status
	ExitInterrupted = 130 // 128 + SIGINT(2)
)

// ExitCode maps the result of Run to a process exit code.
// An interrupted ctx wins over whatever error the cancellation produced.
func ExitCode(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}
	if ctx.Err() != nil {
		return ExitInterrupted
	}
	var apiErr *notes.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsClientError() {
			return ExitAPIRejected
		}
		return ExitAPIFailed
	}
	return ExitError
}

// ReportError prints err to w the way the CLI reports failures and returns
// the exit code to use.
func ReportError(ctx context.Context, w io.Writer, err error) int {
	code := ExitCode(ctx, err)
	switch code {
	case ExitOK:
	case ExitInterrupted:
		_, _ = fmt.Fprintln(w, "\n"+mutedStyle.Render("Interrupted, pending requests cancelled"))
	default:
		_, _ = fmt.Fprintln(w, errorStyle.Render("Error:")+" "+err.Error())
	}
	return code
}
