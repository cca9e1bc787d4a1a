package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation = "BLOG_COMMAND_INVALID"
	TextCodeCanceled   = "BLOG_COMMAND_CANCELED"
	TextCodeTimeout    = "BLOG_COMMAND_TIMEOUT"
	TextCodeFailed     = "BLOG_COMMAND_FAILED"
)

// wrapCommandError tags err with a category, text code and the command type.
// Errors already carrying a go-errors category, such as posts.NotFoundError,
// pass through so callers can still classify them.
func wrapCommandError(err error, category goerrors.Category, code, msg, commandType string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).
		WithTextCode(code).
		WithMetadata(map[string]any{"command": commandType})
}

func wrapValidationError(err error, commandType string) error {
	return wrapCommandError(err, goerrors.CategoryValidation, TextCodeValidation, "command validation failed", commandType)
}

func wrapContextError(err error, commandType string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return wrapCommandError(err, goerrors.CategoryCommand, TextCodeTimeout, "command deadline exceeded", commandType)
	}
	return wrapCommandError(err, goerrors.CategoryCommand, TextCodeCanceled, "command cancelled", commandType)
}

func wrapExecuteError(err error, commandType string) error {
	return wrapCommandError(err, goerrors.CategoryCommand, TextCodeFailed, "command execution failed", commandType)
}
