package ghfetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"

	"github.com/drpaneas/gitinsight/internal/apperr"
)

// classify converts a go-github or transport error into a typed failure.
func classify(what string, err error) error {
	if err == nil {
		return nil
	}
	var rle *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	var er *github.ErrorResponse
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &rle), errors.As(err, &abuse):
		return apperr.New(apperr.RateLimited, what, err)
	case errors.As(err, &er) && er.Response != nil:
		return apperr.New(kindForStatus(er.Response.StatusCode), what, err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return apperr.New(apperr.Malformed, what, err)
	default:
		return apperr.New(apperr.NetworkFailure, what, err)
	}
}

// statusError classifies a non-200 response from a plain HTTP endpoint.
func statusError(what string, status int) error {
	return apperr.New(kindForStatus(status), what, fmt.Errorf("unexpected status %d", status))
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusNotFound:
		return apperr.NotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return apperr.RateLimited
	default:
		return apperr.Malformed
	}
}

func statusOf(err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}
