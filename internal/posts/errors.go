package posts

import (
	"fmt"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// CategoryStorage tags failures to read the source directory or a post file.
const CategoryStorage goerrors.Category = "storage"

const (
	TextCodeStorage   = "POST_STORAGE_UNAVAILABLE"
	TextCodeNotFound  = "POST_NOT_FOUND"
	TextCodeMalformed = "POST_MALFORMED_CONTENT"
)

// StorageError reports that path could not be read.
func StorageError(err error, path string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, CategoryStorage, fmt.Sprintf("post storage unavailable: %s", path)).
		WithTextCode(TextCodeStorage).
		WithMetadata(map[string]any{"path": path})
}

// NotFoundError reports that no file matches slug.
func NotFoundError(slug, path string, cause error) error {
	msg := fmt.Sprintf("post %q not found", slug)
	var err *goerrors.Error
	if cause != nil {
		err = goerrors.Wrap(cause, goerrors.CategoryNotFound, msg)
	} else {
		err = goerrors.New(msg, goerrors.CategoryNotFound)
	}
	return err.WithTextCode(TextCodeNotFound).
		WithMetadata(map[string]any{"slug": slug, "path": path})
}

// MalformedContentError reports a frontmatter block that is missing, cannot
// be decoded, or lacks required fields. ozzo-validation errors are expanded
// into per-field validation errors.
func MalformedContentError(slug, path string, cause error) error {
	msg := fmt.Sprintf("post %q has malformed frontmatter", slug)
	err := goerrors.FromOzzoValidation(cause, msg)
	if err == nil {
		err = goerrors.New(msg, goerrors.CategoryValidation)
	}
	slices.SortFunc(err.ValidationErrors, func(a, b goerrors.FieldError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return err.WithTextCode(TextCodeMalformed).
		WithMetadata(map[string]any{"slug": slug, "path": path})
}

// IsStorageError reports whether err is a StorageError.
func IsStorageError(err error) bool {
	return goerrors.IsCategory(err, CategoryStorage)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsMalformed reports whether err is a MalformedContentError.
func IsMalformed(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// MissingFields lists the frontmatter fields named by a MalformedContentError.
func MissingFields(err error) []string {
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Field)
	}
	return out
}
