// Package apperr defines the failure taxonomy shared by the fetch, insight and
// analysis stages, and maps each kind to a user-facing message and HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Kind classifies a failure.
type Kind string

const (
	InvalidInput   Kind = "invalid_input"
	NotFound       Kind = "not_found"
	RateLimited    Kind = "rate_limited"
	NetworkFailure Kind = "network_failure"
	Malformed      Kind = "malformed"
	AIUnavailable  Kind = "ai_unavailable"
	NoSourceFiles  Kind = "no_source_files"
)

// Error is a classified failure. The embedded builder carries the status code
// and the underlying cause.
type Error struct {
	*errbuilder.ErrBuilder
	Kind Kind
}

// New returns an Error of the given kind. cause may be nil.
func New(kind Kind, msg string, cause error) *Error {
	b := builderFor(kind).WithMsg(msg)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return &Error{ErrBuilder: b, Kind: kind}
}

// Newf is New with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...), nil)
}

func (e *Error) Error() string {
	if cause := e.ErrBuilder.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.ErrBuilder.Msg, cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns a message suitable for end users that distinguishes
// every terminal failure kind.
func UserMessage(err error) string {
	switch KindOf(err) {
	case InvalidInput:
		return "Please provide a valid GitHub URL (https://github.com/<owner>/<repo> or https://github.com/<user>)."
	case NotFound:
		return "The requested repository or user could not be found on GitHub."
	case RateLimited:
		return "GitHub API rate limit exceeded. Provide a token or try again later."
	case NetworkFailure:
		return "Could not reach GitHub. Check your network connection and try again."
	case Malformed:
		return "GitHub returned an unexpected response."
	case AIUnavailable:
		return "The AI analysis service is unavailable or returned an unreadable response."
	case NoSourceFiles:
		return "No representative source files were found in this repository."
	default:
		return "An unexpected error occurred during analysis."
	}
}

// HTTPStatus maps a kind to the status code returned by the HTTP API.
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	case NoSourceFiles:
		return http.StatusUnprocessableEntity
	case NetworkFailure, Malformed, AIUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// builderFor starts a builder carrying the status code that matches kind.
func builderFor(kind Kind) *errbuilder.ErrBuilder {
	switch kind {
	case InvalidInput:
		return errbuilder.New().WithCode(errbuilder.CodeInvalidArgument)
	case NotFound:
		return errbuilder.New().WithCode(errbuilder.CodeNotFound)
	case RateLimited:
		return errbuilder.New().WithCode(errbuilder.CodeResourceExhausted)
	case NetworkFailure, AIUnavailable:
		return errbuilder.New().WithCode(errbuilder.CodeUnavailable)
	case NoSourceFiles:
		return errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition)
	default:
		return errbuilder.New().WithCode(errbuilder.CodeInternal)
	}
}
