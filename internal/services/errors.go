package services

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConnectionBlocked = errors.New("connection blocked")
	ErrCertificate       = errors.New("certificate error")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
	ErrNotFound          = errors.New("not found")
	ErrTransient         = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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

// SearchFailure classifies interactive search errors for presentation.
type SearchFailure string

const (
	SearchFailureNone              SearchFailure = ""
	SearchFailureConnectionBlocked SearchFailure = "connection_blocked"
	SearchFailureCertificate       SearchFailure = "certificate"
	SearchFailureGeneric           SearchFailure = "generic"
)

// Message returns the user-facing text for the failure class.
func (f SearchFailure) Message() string {
	switch f {
	case SearchFailureConnectionBlocked:
		return "the search service returned an unexpected page; the connection may be blocked or intercepted by a proxy or firewall"
	case SearchFailureCertificate:
		return "the search service certificate could not be verified; check the system clock and any TLS-inspecting proxy"
	case SearchFailureGeneric:
		return "search failed; try again later"
	default:
		return ""
	}
}

// ClassifySearchError maps a search failure to a presentation class. Non-JSON
// responses are treated as blocked or intercepted traffic.
func ClassifySearchError(err error) SearchFailure {
	if err == nil {
		return SearchFailureNone
	}
	if errors.Is(err, ErrConnectionBlocked) {
		return SearchFailureConnectionBlocked
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return SearchFailureConnectionBlocked
	}
	if errors.Is(err, ErrCertificate) || isCertificateError(err) {
		return SearchFailureCertificate
	}
	return SearchFailureGeneric
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "x509:") || strings.Contains(msg, "tls: ")
}
