package services_test

import (
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"questlog/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "critics", "search", "request failed", base)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"critics", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestClassifySearchError(t *testing.T) {
	var syntaxErr error
	var target any
	syntaxErr = json.Unmarshal([]byte("<html>blocked</html>"), &target)

	tests := []struct {
		name string
		err  error
		want services.SearchFailure
	}{
		{"nil", nil, services.SearchFailureNone},
		{"blocked marker", services.Wrap(services.ErrConnectionBlocked, "catalog", "search", "html body", nil), services.SearchFailureConnectionBlocked},
		{"json syntax", fmt.Errorf("decode: %w", syntaxErr), services.SearchFailureConnectionBlocked},
		{"unknown authority", fmt.Errorf("get: %w", x509.UnknownAuthorityError{}), services.SearchFailureCertificate},
		{"tls text", errors.New("Post \"https://x\": tls: failed to verify certificate"), services.SearchFailureCertificate},
		{"generic", errors.New("connection reset"), services.SearchFailureGeneric},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ClassifySearchError(tc.err); got != tc.want {
				t.Fatalf("ClassifySearchError = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSearchFailureMessages(t *testing.T) {
	for _, failure := range []services.SearchFailure{
		services.SearchFailureConnectionBlocked,
		services.SearchFailureCertificate,
		services.SearchFailureGeneric,
	} {
		if failure.Message() == "" {
			t.Fatalf("expected message for %q", failure)
		}
	}
	if services.SearchFailureNone.Message() != "" {
		t.Fatal("expected empty message for none")
	}
}
