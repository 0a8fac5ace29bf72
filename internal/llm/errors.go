package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

type ErrorKind string

const (
	KindTransient      ErrorKind = "transient"
	KindRateLimited    ErrorKind = "rate_limited"
	KindAuth           ErrorKind = "auth"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindUnknown        ErrorKind = "unknown"
)

// APIError is a provider failure tagged with how the caller should treat it.
type APIError struct {
	Provider   string
	StatusCode int
	Kind       ErrorKind
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func kindForStatus(code int) ErrorKind {
	switch {
	case code == 429:
		return KindRateLimited
	case code == 401 || code == 403:
		return KindAuth
	case code == 408 || code >= 500:
		return KindTransient
	case code >= 400:
		return KindInvalidRequest
	}
	return KindUnknown
}

func wrapStatus(provider string, code int, err error) error {
	return &APIError{Provider: provider, StatusCode: code, Kind: kindForStatus(code), Err: err}
}

// IsRetryable reports whether err is worth another attempt: timeouts,
// rate limiting, server-side failures and dropped connections.
// Authentication and request errors are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindTransient, KindRateLimited:
			return true
		case KindAuth, KindInvalidRequest:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "connection reset", "broken pipe", "timeout", "unexpected eof", "temporarily unavailable", "overloaded"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// IsRateLimited reports whether err came from provider throttling.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindRateLimited
}
