package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned when the gateway answers with a non-2xx status.
// The response body is kept verbatim for logging; callers branch on the
// status code, not the text.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether err is an HTTP 401 from the gateway.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is an HTTP 403 from the gateway.
func IsForbidden(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusForbidden
}

// GatewayError is one entry of the gateway's ErrorList.
type GatewayError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

// TransactionError is returned when the gateway reports Success=false inside
// an otherwise successful HTTP response. It carries the full error list; the
// raw codes are the contract, the message is for display only.
type TransactionError struct {
	Errors []GatewayError
}

// Error returns the message of the lowest-sorted error code so that multiple
// gateway errors always render the same way.
func (e *TransactionError) Error() string {
	if len(e.Errors) == 0 {
		return "unknown error"
	}
	lowest := e.Errors[0]
	for _, ge := range e.Errors[1:] {
		if ge.Code < lowest.Code {
			lowest = ge
		}
	}
	return fmt.Sprintf("%s: %s", lowest.Code, lowest.Message)
}

// Codes returns the raw gateway error codes in reported order.
func (e *TransactionError) Codes() []string {
	codes := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		codes = append(codes, ge.Code)
	}
	return codes
}

// KeyLoadError is returned when the gateway public key cannot be read or
// parsed. It is fatal to client construction and never retried.
type KeyLoadError struct {
	Path string
	Err  error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("load public key %s: %v", e.Path, e.Err)
}

func (e *KeyLoadError) Unwrap() error {
	return e.Err
}
