package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors.
const (
	CodeInvalidMessage = "DYNCMS_COMMAND_INVALID"
	CodeCanceled       = "DYNCMS_COMMAND_CANCELED"
	CodeTimedOut       = "DYNCMS_COMMAND_TIMED_OUT"
	CodeContext        = "DYNCMS_COMMAND_CONTEXT"
	CodeFailed         = "DYNCMS_COMMAND_FAILED"
)

type failureKind struct {
	category goerrors.Category
	message  string
	code     string
}

var (
	invalidMessage = failureKind{goerrors.CategoryValidation, "command message rejected", CodeInvalidMessage}
	canceled       = failureKind{goerrors.CategoryCommand, "command canceled", CodeCanceled}
	timedOut       = failureKind{goerrors.CategoryCommand, "command timed out", CodeTimedOut}
	contextFailed  = failureKind{goerrors.CategoryCommand, "command context failed", CodeContext}
	execFailed     = failureKind{goerrors.CategoryCommand, "command failed", CodeFailed}
)

// tag wraps err as kind unless it already carries a go-errors category.
func (kind failureKind) tag(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, kind.category, kind.message).WithTextCode(kind.code)
}

func invalid(err error) error { return invalidMessage.tag(err) }

func interrupted(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return canceled.tag(err)
	case errors.Is(err, context.DeadlineExceeded):
		return timedOut.tag(err)
	default:
		return contextFailed.tag(err)
	}
}

// failed keeps the category of domain errors; anything else is a command
// failure.
func failed(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if tagged := domain.ToGoError(err); goerrors.IsWrapped(tagged) {
		return tagged
	}
	return execFailed.tag(err)
}
