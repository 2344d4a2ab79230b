package analysis

import (
	"net/url"
	"strings"

	"github.com/drpaneas/gitinsight/internal/apperr"
)

// TargetKind says whether a URL names a repository or a developer.
type TargetKind int

const (
	TargetRepository TargetKind = iota
	TargetProfile
)

// Target is a validated GitHub location. Repo is empty for profiles.
type Target struct {
	Owner string
	Repo  string
}

func (t Target) String() string {
	if t.Repo == "" {
		return t.Owner
	}
	return t.Owner + "/" + t.Repo
}

// ParseTarget validates a github.com URL. The scheme is optional and a
// trailing ".git" is ignored. Repository URLs need at least owner and name;
// profile URLs need at least the login. Extra path segments are ignored.
func ParseTarget(raw string, kind TargetKind) (Target, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Target{}, apperr.New(apperr.InvalidInput, "empty URL", nil)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return Target{}, apperr.New(apperr.InvalidInput, "malformed URL "+raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Target{}, apperr.Newf(apperr.InvalidInput, "unsupported scheme %q", u.Scheme)
	}
	switch strings.ToLower(u.Hostname()) {
	case "github.com", "www.github.com":
	default:
		return Target{}, apperr.Newf(apperr.InvalidInput, "%s is not a github.com URL", raw)
	}

	var segs []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			segs = append(segs, p)
		}
	}

	switch kind {
	case TargetRepository:
		if len(segs) < 2 {
			return Target{}, apperr.Newf(apperr.InvalidInput, "%s does not name a repository (expected github.com/owner/repo)", raw)
		}
		name := strings.TrimSuffix(segs[1], ".git")
		if name == "" {
			return Target{}, apperr.Newf(apperr.InvalidInput, "%s has an empty repository name", raw)
		}
		return Target{Owner: segs[0], Repo: name}, nil
	default:
		if len(segs) < 1 {
			return Target{}, apperr.Newf(apperr.InvalidInput, "%s does not name a user (expected github.com/login)", raw)
		}
		return Target{Owner: segs[0]}, nil
	}
}
