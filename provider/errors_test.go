package provider

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
)

func TestHTTPErrorTaxonomy(t *testing.T) {
	unauthorized := &HTTPError{StatusCode: http.StatusUnauthorized, Body: "token expired"}
	forbidden := &HTTPError{StatusCode: http.StatusForbidden, Body: "no access"}
	serverErr := &HTTPError{StatusCode: http.StatusInternalServerError, Body: "boom"}

	if !IsUnauthorized(unauthorized) {
		t.Error("expected 401 to be unauthorized")
	}
	if IsUnauthorized(forbidden) || IsUnauthorized(serverErr) {
		t.Error("non-401 statuses must not be unauthorized")
	}
	if !IsForbidden(forbidden) {
		t.Error("expected 403 to be forbidden")
	}
	if IsForbidden(unauthorized) {
		t.Error("401 must not be forbidden")
	}

	// Wrapped errors are still recognized.
	wrapped := fmt.Errorf("request failed: %w", unauthorized)
	if !IsUnauthorized(wrapped) {
		t.Error("expected wrapped 401 to be unauthorized")
	}

	if IsUnauthorized(errors.New("plain error")) {
		t.Error("plain errors must not be unauthorized")
	}
}

func TestTransactionErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		errors []GatewayError
		want   string
	}{
		{
			name:   "empty list falls back to generic message",
			errors: nil,
			want:   "unknown error",
		},
		{
			name:   "single error",
			errors: []GatewayError{{Code: "104", Message: "No se pudo procesar"}},
			want:   "104: No se pudo procesar",
		},
		{
			name: "lowest code wins regardless of order",
			errors: []GatewayError{
				{Code: "205", Message: "later"},
				{Code: "104", Message: "No se pudo procesar"},
				{Code: "300", Message: "even later"},
			},
			want: "104: No se pudo procesar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &TransactionError{Errors: tt.errors}
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransactionErrorCodes(t *testing.T) {
	err := &TransactionError{Errors: []GatewayError{
		{Code: "205", Message: "a"},
		{Code: "104", Message: "b"},
	}}

	codes := err.Codes()
	if len(codes) != 2 || codes[0] != "205" || codes[1] != "104" {
		t.Errorf("Codes() = %v, want reported order [205 104]", codes)
	}
}

func TestKeyLoadErrorUnwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := &KeyLoadError{Path: "/missing.pem", Err: cause}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected KeyLoadError to unwrap its cause")
	}

	var keyErr *KeyLoadError
	wrapped := fmt.Errorf("init: %w", err)
	if !errors.As(wrapped, &keyErr) {
		t.Fatal("expected errors.As to find KeyLoadError")
	}
	if keyErr.Path != "/missing.pem" {
		t.Errorf("unexpected path %q", keyErr.Path)
	}
}
