package ghfetch

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// lowQuotaThreshold is the remaining-request count below which the transport
// starts warning.
const lowQuotaThreshold = 10

func newHTTPClient(token string, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		}
	}
	return &http.Client{
		Transport: &quotaTransport{base: rt},
		Timeout:   30 * time.Second,
	}
}

func newGitHubClient(token string, base http.RoundTripper) *github.Client {
	return github.NewClient(newHTTPClient(token, base))
}

// quotaTransport reports GitHub quota exhaustion. It makes exactly one
// attempt per request: it never sleeps and never retries.
type quotaTransport struct {
	base http.RoundTripper
}

func (t *quotaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return resp, nil
	}
	rem, parseErr := strconv.Atoi(remaining)
	if parseErr != nil || rem > lowQuotaThreshold {
		return resp, nil
	}
	attrs := []any{"remaining", rem, "path", req.URL.Path}
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		attrs = append(attrs, "resets_in", time.Until(time.Unix(reset, 0)).Round(time.Second))
	}
	slog.Warn("github rate limit nearly exhausted", attrs...)
	return resp, nil
}
