// Package ghfetch issues the upstream requests an analysis needs (GitHub REST
// and the contribution feed) and normalizes every failure into an apperr kind.
package ghfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/model"
	"github.com/drpaneas/gitinsight/internal/textutil"
)

const (
	maxFileSizeBytes = 32 * 1024
	maxUserRepos     = 100

	// DefaultContributionsURL serves a year of daily contribution counts per user.
	DefaultContributionsURL = "https://github-contributions-api.jogruber.de"
)

// Fetcher reads repository and profile facts from GitHub.
type Fetcher struct {
	client           *github.Client
	feed             *http.Client
	contributionsURL string
}

// Option customizes a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	apiURL           string
	contributionsURL string
	transport        http.RoundTripper
}

// WithAPIURL points the GitHub client at a different REST endpoint.
func WithAPIURL(u string) Option {
	return func(o *fetcherOptions) { o.apiURL = u }
}

// WithContributionsURL overrides the contribution feed base URL.
func WithContributionsURL(u string) Option {
	return func(o *fetcherOptions) { o.contributionsURL = u }
}

// WithTransport sets the base HTTP transport for all requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *fetcherOptions) { o.transport = rt }
}

// NewFetcher returns a Fetcher. An empty token makes anonymous requests,
// which GitHub allows at a lower rate limit.
func NewFetcher(token string, opts ...Option) (*Fetcher, error) {
	o := fetcherOptions{contributionsURL: DefaultContributionsURL}
	for _, opt := range opts {
		opt(&o)
	}

	client := newGitHubClient(token, o.transport)
	if o.apiURL != "" {
		base := o.apiURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing api url: %w", err)
		}
		client.BaseURL = u
	}

	// The feed is a third party: it never sees the GitHub token.
	return &Fetcher{
		client:           client,
		feed:             newHTTPClient("", o.transport),
		contributionsURL: strings.TrimRight(o.contributionsURL, "/"),
	}, nil
}

// Repository returns metadata for owner/name.
func (f *Fetcher) Repository(ctx context.Context, owner, name string) (model.RepoMeta, error) {
	slog.Debug("fetching repository", "repo", owner+"/"+name)
	repo, _, err := f.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return model.RepoMeta{}, classify("fetching repository "+owner+"/"+name, err)
	}
	return model.RepoMeta{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		URL:           repo.GetHTMLURL(),
	}, nil
}

// CommitCount infers the number of commits on branch, or on the default
// branch when branch is empty. See commitCountFrom for the accuracy limits
// when GitHub omits the Link header.
func (f *Fetcher) CommitCount(ctx context.Context, owner, name, branch string) (int, error) {
	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, resp, err := f.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		// An empty repository answers 409 Conflict.
		if statusOf(err) == http.StatusConflict {
			return 0, nil
		}
		return 0, classify("listing commits", err)
	}
	link := ""
	if resp != nil && resp.Response != nil {
		link = resp.Header.Get("Link")
	}
	return commitCountFrom(link, len(commits)), nil
}

// FileTree returns the recursive tree at ref. A truncated listing is flagged
// rather than treated as an error.
func (f *Fetcher) FileTree(ctx context.Context, owner, name, ref string) (model.FileTree, error) {
	tree, _, err := f.client.Git.GetTree(ctx, owner, name, ref, true)
	if err != nil {
		return model.FileTree{}, classify("fetching file tree", err)
	}
	ft := model.FileTree{
		Entries:   make([]model.TreeEntry, 0, len(tree.Entries)),
		Truncated: tree.GetTruncated(),
	}
	for _, e := range tree.Entries {
		ft.Entries = append(ft.Entries, model.TreeEntry{Path: e.GetPath(), Kind: e.GetType()})
	}
	if ft.Truncated {
		slog.Warn("file tree truncated by github", "repo", owner+"/"+name, "entries", len(ft.Entries))
	}
	return ft, nil
}

// FileContent returns the decoded content of path at ref, truncated to 32 KiB.
func (f *Fetcher) FileContent(ctx context.Context, owner, name, ref, path string) (string, error) {
	fc, _, _, err := f.client.Repositories.GetContents(ctx, owner, name, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", classify("fetching "+path, err)
	}
	if fc == nil {
		return "", apperr.Newf(apperr.Malformed, "%s is not a file", path)
	}
	content, err := fc.GetContent()
	if err != nil {
		return "", apperr.New(apperr.Malformed, "decoding "+path, err)
	}
	return textutil.Excerpt(content, maxFileSizeBytes, textutil.TruncationMarker), nil
}

// User returns the public profile of login.
func (f *Fetcher) User(ctx context.Context, login string) (model.UserFact, error) {
	slog.Debug("fetching user", "login", login)
	u, _, err := f.client.Users.Get(ctx, login)
	if err != nil {
		return model.UserFact{}, classify("fetching user "+login, err)
	}
	return model.UserFact{
		Login:           u.GetLogin(),
		DisplayName:     u.GetName(),
		AvatarURL:       u.GetAvatarURL(),
		Bio:             u.GetBio(),
		Followers:       u.GetFollowers(),
		Following:       u.GetFollowing(),
		PublicRepoCount: u.GetPublicRepos(),
		CreatedAt:       u.GetCreatedAt().Time,
	}, nil
}

// Repositories returns up to 100 of login's own repositories, most recently
// pushed first. Forks are flagged, not dropped.
func (f *Fetcher) Repositories(ctx context.Context, login string) ([]model.RepoInfo, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: maxUserRepos},
	}
	repos, _, err := f.client.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		return nil, classify("listing repositories", err)
	}

	out := make([]model.RepoInfo, 0, len(repos))
	for _, r := range repos {
		out = append(out, model.RepoInfo{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			Language:    r.GetLanguage(),
			URL:         r.GetHTMLURL(),
			Fork:        r.GetFork(),
			PushedAt:    r.GetPushedAt().Time,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PushedAt.After(out[j].PushedAt)
	})
	if len(out) > maxUserRepos {
		out = out[:maxUserRepos]
	}
	return out, nil
}

type contributionsResponse struct {
	Contributions []model.ContributionDay `json:"contributions"`
}

// Contributions returns the trailing year of daily contribution counts.
func (f *Fetcher) Contributions(ctx context.Context, login string) ([]model.ContributionDay, error) {
	endpoint := fmt.Sprintf("%s/v4/%s?y=last", f.contributionsURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "building contributions request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.feed.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.NetworkFailure, "fetching contributions", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetching contributions", resp.StatusCode)
	}
	var body contributionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.New(apperr.Malformed, "decoding contributions", err)
	}
	return body.Contributions, nil
}
