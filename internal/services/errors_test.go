package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"steamsyncer/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrCatalog, "artwork", "search", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCatalog) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"artwork", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestFailureMessageMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
		fat  bool
	}{
		{services.Wrap(services.ErrHostNotFound, "sync", "locate steam", "", nil), "Steam not found.", true},
		{fmt.Errorf("resolve: %w", services.ErrProfileNotFound), "Steam user not found.", true},
		{services.Wrap(services.ErrStoreWrite, "sync", "save", "", errors.New("disk full")), "Failed to write Steam shortcuts.", true},
		{services.Wrap(services.ErrCatalog, "artwork", "", "", nil), "Sync failed.", false},
	}
	for _, tc := range cases {
		if got := services.FailureMessage(tc.err); got != tc.want {
			t.Fatalf("FailureMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
		if got := services.IsFatal(tc.err); got != tc.fat {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fat)
		}
	}
	if services.FailureMessage(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}
