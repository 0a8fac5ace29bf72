package classifier

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrInvalidResponse           = errors.New("invalid classifier response")
)

// ClassificationUnavailableError means the model could not produce an
// answer: retries were exhausted or the failure was permanent.
type ClassificationUnavailableError struct {
	Attempts int
	Err      error
}

func (e *ClassificationUnavailableError) Error() string {
	return fmt.Sprintf("classification unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ClassificationUnavailableError) Unwrap() error { return e.Err }

func (e *ClassificationUnavailableError) Is(target error) bool {
	return target == ErrClassificationUnavailable
}

const maxFragment = 200

// InvalidClassifierResponseError means the model answered with something
// that does not fit the expected structure. Fragment is the start of the
// raw response.
type InvalidClassifierResponseError struct {
	Reason   string
	Fragment string
}

func newInvalidResponse(raw string, format string, args ...any) *InvalidClassifierResponseError {
	return &InvalidClassifierResponseError{
		Reason:   fmt.Sprintf(format, args...),
		Fragment: fragment(raw),
	}
}

func (e *InvalidClassifierResponseError) Error() string {
	return fmt.Sprintf("invalid classifier response: %s (response starts %q)", e.Reason, e.Fragment)
}

func (e *InvalidClassifierResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

func fragment(raw string) string {
	if len(raw) <= maxFragment {
		return raw
	}
	cut := maxFragment
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut]
}
