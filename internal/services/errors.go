package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHostNotFound    = errors.New("steam installation not found")
	ErrProfileNotFound = errors.New("steam user profile not found")
	ErrStoreWrite      = errors.New("shortcut store write failed")
	ErrCatalog         = errors.New("artwork catalog error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrTransient       = errors.New("transient failure")
)

// Wrap builds an error message that includes phase context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort a sync run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrHostNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrStoreWrite)
}

// FailureMessage maps a run error to the short message shown in the sync status.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrHostNotFound):
		return "Steam not found."
	case errors.Is(err, ErrProfileNotFound):
		return "Steam user not found."
	case errors.Is(err, ErrStoreWrite):
		return "Failed to write Steam shortcuts."
	case errors.Is(err, ErrConfiguration):
		return "Configuration error."
	default:
		return "Sync failed."
	}
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
