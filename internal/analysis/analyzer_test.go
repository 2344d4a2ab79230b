package analysis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/insight"
	"github.com/drpaneas/gitinsight/internal/model"
)

type fakeSource struct {
	meta       model.RepoMeta
	metaErr    error
	count      int
	countErr   error
	tree       model.FileTree
	treeErr    error
	contents   map[string]string
	contentErr map[string]error

	user     model.UserFact
	userErr  error
	repos    []model.RepoInfo
	reposErr error
	days     []model.ContributionDay
	daysErr  error

	countRef string
	treeRef  string
	fileRefs sync.Map

	fileCalls atomic.Int32
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (f *fakeSource) Repository(context.Context, string, string) (model.RepoMeta, error) {
	return f.meta, f.metaErr
}

func (f *fakeSource) CommitCount(_ context.Context, _, _, branch string) (int, error) {
	f.countRef = branch
	return f.count, f.countErr
}

func (f *fakeSource) FileTree(_ context.Context, _, _, ref string) (model.FileTree, error) {
	f.treeRef = ref
	return f.tree, f.treeErr
}

func (f *fakeSource) FileContent(_ context.Context, _, _, ref, path string) (string, error) {
	f.fileRefs.Store(ref, true)
	f.fileCalls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	if err := f.contentErr[path]; err != nil {
		return "", err
	}
	return f.contents[path], nil
}

func (f *fakeSource) User(context.Context, string) (model.UserFact, error) {
	return f.user, f.userErr
}

func (f *fakeSource) Repositories(context.Context, string) ([]model.RepoInfo, error) {
	return f.repos, f.reposErr
}

func (f *fakeSource) Contributions(context.Context, string) ([]model.ContributionDay, error) {
	return f.days, f.daysErr
}

type fakeEngine struct {
	mu          sync.Mutex
	repoInsight model.RepoInsight
	profile     model.ProfileInsight
	err         error
	gotFiles    []model.SampledFile
	gotProfile  insight.ProfileInput
}

func (e *fakeEngine) AnalyzeRepository(_ context.Context, _ model.RepoFact, files []model.SampledFile) (model.RepoInsight, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gotFiles = files
	return e.repoInsight, e.err
}

func (e *fakeEngine) AnalyzeProfile(_ context.Context, in insight.ProfileInput) (model.ProfileInsight, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gotProfile = in
	return e.profile, e.err
}

const repoURL = "https://github.com/octo/hello"

// mixedTree interleaves 20 qualifying Go files with 5 vendored ones.
func mixedTree() (model.FileTree, []string) {
	var entries []model.TreeEntry
	var qualifying []string
	for i := 0; i < 20; i++ {
		p := fmt.Sprintf("pkg/file%02d.go", i)
		qualifying = append(qualifying, p)
		entries = append(entries, model.TreeEntry{Path: p, Kind: "blob"})
		if i%4 == 0 {
			entries = append(entries, model.TreeEntry{Path: fmt.Sprintf("vendor/dep%02d.go", i), Kind: "blob"})
		}
	}
	return model.FileTree{Entries: entries}, qualifying
}

func newRepoSource() (*fakeSource, []string) {
	tree, qualifying := mixedTree()
	contents := map[string]string{}
	for i, p := range qualifying {
		contents[p] = fmt.Sprintf("package pkg\n\nfunc Handler%02d() {}\n", i)
	}
	return &fakeSource{
		meta:     model.RepoMeta{FullName: "octo/hello", DefaultBranch: "main", Language: "Go"},
		count:    42,
		tree:     tree,
		contents: contents,
	}, qualifying
}

func TestAnalyzeRepository_FetchesLeavesWithoutWaitingForMetadata(t *testing.T) {
	src, _ := newRepoSource()
	eng := &fakeEngine{repoInsight: model.RepoInsight{StarRating: 3, Items: []model.Item{{Name: "x", Kind: model.KindFunction, Path: "pkg/file00.go"}}}}

	res, err := New(src, eng).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)

	assert.Equal(t, "", src.countRef, "commit listing resolves the default branch itself")
	assert.Equal(t, "HEAD", src.treeRef)
	assert.Equal(t, "main", res.Repository.DefaultBranch)
	_, usedBranch := src.fileRefs.Load("main")
	assert.True(t, usedBranch, "file contents are read at the default branch")
}

func TestAnalyzeRepository_SamplesFifteenInTreeOrder(t *testing.T) {
	src, qualifying := newRepoSource()
	eng := &fakeEngine{repoInsight: model.RepoInsight{TechStack: []string{"Go"}, StarRating: 4, Items: []model.Item{}}}

	res, err := New(src, eng).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)

	require.Len(t, res.SampledFiles, 15)
	for i, f := range res.SampledFiles {
		assert.Equal(t, qualifying[i], f.Path)
		assert.True(t, f.FetchSucceeded)
		assert.NotContains(t, f.Path, "vendor/")
	}
	assert.Equal(t, 42, res.Repository.CommitCount)
	assert.Equal(t, "main", res.Repository.DefaultBranch)
	assert.Empty(t, res.Degradations)
	assert.Len(t, eng.gotFiles, 15)
	assert.EqualValues(t, 15, src.fileCalls.Load())
	assert.LessOrEqual(t, src.maxFlight.Load(), int32(maxConcurrentFiles))
}

func TestAnalyzeRepository_DegradesNonCriticalFetches(t *testing.T) {
	src, qualifying := newRepoSource()
	src.countErr = apperr.New(apperr.NetworkFailure, "listing commits", nil)
	src.contentErr = map[string]error{qualifying[3]: apperr.New(apperr.NotFound, "fetching "+qualifying[3], nil)}
	eng := &fakeEngine{repoInsight: model.RepoInsight{StarRating: 3}}

	res, err := New(src, eng).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)

	assert.Zero(t, res.Repository.CommitCount)
	require.Len(t, res.SampledFiles, 15)
	failed := res.SampledFiles[3]
	assert.False(t, failed.FetchSucceeded)
	assert.Empty(t, failed.Content)

	var sources []string
	for _, d := range res.Degradations {
		sources = append(sources, d.Source)
	}
	assert.Equal(t, []string{"commitCount", "file:" + qualifying[3]}, sources)
}

func TestAnalyzeRepository_TerminalFailures(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		mutate func(*fakeSource, *fakeEngine)
		want   apperr.Kind
	}{
		{"invalid url", "https://example.com/octo/hello", func(*fakeSource, *fakeEngine) {}, apperr.InvalidInput},
		{"repository missing", repoURL, func(s *fakeSource, _ *fakeEngine) {
			s.metaErr = apperr.New(apperr.NotFound, "fetching repository", nil)
		}, apperr.NotFound},
		{"rate limited", repoURL, func(s *fakeSource, _ *fakeEngine) {
			s.metaErr = apperr.New(apperr.RateLimited, "fetching repository", nil)
		}, apperr.RateLimited},
		{"tree unavailable", repoURL, func(s *fakeSource, _ *fakeEngine) {
			s.treeErr = apperr.New(apperr.NetworkFailure, "fetching file tree", nil)
		}, apperr.NetworkFailure},
		{"no source files", repoURL, func(s *fakeSource, _ *fakeEngine) {
			s.tree = model.FileTree{Entries: []model.TreeEntry{
				{Path: "README.md", Kind: "blob"},
				{Path: "docs/main.go", Kind: "blob"},
			}}
		}, apperr.NoSourceFiles},
		{"ai unavailable", repoURL, func(_ *fakeSource, e *fakeEngine) {
			e.err = apperr.New(apperr.AIUnavailable, "generating repository insight", nil)
		}, apperr.AIUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := newRepoSource()
			eng := &fakeEngine{}
			tt.mutate(src, eng)

			res, err := New(src, eng).AnalyzeRepository(context.Background(), tt.url)
			assert.Nil(t, res)
			assert.Equal(t, tt.want, apperr.KindOf(err), "error: %v", err)
		})
	}
}

func TestAnalyzeRepository_SymbolFallback(t *testing.T) {
	src, _ := newRepoSource()
	eng := &fakeEngine{repoInsight: model.RepoInsight{StarRating: 3, Items: []model.Item{}}}

	res, err := New(src, eng, WithSymbolFallback(true)).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)
	assert.LessOrEqual(t, len(res.Items), maxItems)
	assert.Equal(t, model.KindFunction, res.Items[0].Kind)
	require.Len(t, res.Degradations, 1)
	assert.Equal(t, "items", res.Degradations[0].Source)

	off, err := New(src, eng).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)
	assert.Empty(t, off.Items)
}

var fixedNow = func() time.Time { return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC) }

func profileSource() *fakeSource {
	langs := []string{"Go", "Rust", "Python", "TypeScript", "C", "Haskell"}
	var repos []model.RepoInfo
	for i, l := range langs {
		repos = append(repos, model.RepoInfo{Name: "proj-" + l, Language: l, Stars: i})
	}
	repos[2].Stars = 150
	repos[2].Forks = 30
	repos = append(repos, model.RepoInfo{Name: "upstream-fork", Language: "Java", Stars: 5000, Fork: true})

	return &fakeSource{
		user:  model.UserFact{Login: "octo", PublicRepoCount: 7},
		repos: repos,
		days: []model.ContributionDay{
			{Date: "2026-10-01", Count: 300, Level: 4},
			{Date: "2026-09-01", Count: 300, Level: 4},
		},
	}
}

func TestAnalyzeProfile_AllBadges(t *testing.T) {
	src := profileSource()
	eng := &fakeEngine{profile: model.ProfileInsight{
		ProfileSummary: "Polyglot",
		StarRating:     4.8,
		HealthScore:    92,
		TopRepos:       []model.TopRepoInsight{{Name: "proj-Python", Pitch: "Popular.", QualityScore: 93}},
	}}

	res, err := New(src, eng, WithClock(fixedNow)).AnalyzeProfile(context.Background(), "https://github.com/octo")
	require.NoError(t, err)

	require.Len(t, res.Badges, 6)
	for _, b := range res.Badges {
		assert.True(t, b.Earned, "badge %s", b.ID)
	}
	assert.Equal(t, 150+0+1+3+4+5, res.TotalStars, "forks excluded")
	assert.NotContains(t, res.Languages, "Java")
	assert.Equal(t, "proj-Python", res.TopRepos[0].Name)
	assert.Equal(t, 93, res.TopRepos[0].QualityScore)
	assert.Equal(t, model.FallbackPitch, res.TopRepos[1].Pitch)
	assert.True(t, res.Calendar.Available)
	assert.Equal(t, 600, res.Calendar.Total)
	assert.Empty(t, res.Degradations)

	for _, r := range eng.gotProfile.AllRepos {
		assert.False(t, r.Fork, "engine never sees forks")
	}
	assert.Len(t, eng.gotProfile.TopRepos, 6)
}

func TestAnalyzeProfile_DegradesFeed(t *testing.T) {
	src := profileSource()
	src.daysErr = apperr.New(apperr.NetworkFailure, "fetching contributions", nil)
	eng := &fakeEngine{profile: model.ProfileInsight{HealthScore: 40}}

	res, err := New(src, eng, WithClock(fixedNow)).AnalyzeProfile(context.Background(), "github.com/octo")
	require.NoError(t, err)

	assert.False(t, res.Calendar.Available)
	assert.Len(t, res.Calendar.Weeks, 53)
	assert.NotEmpty(t, res.TopRepos)
	require.Len(t, res.Degradations, 1)
	assert.Equal(t, "contributions", res.Degradations[0].Source)
}

func TestAnalyzeProfile_RepositoryListFailureIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"rate limited", apperr.New(apperr.RateLimited, "listing repositories", nil), apperr.RateLimited},
		{"network", apperr.New(apperr.NetworkFailure, "listing repositories", nil), apperr.NetworkFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := profileSource()
			src.reposErr = tt.err
			eng := &fakeEngine{}

			res, err := New(src, eng, WithClock(fixedNow)).AnalyzeProfile(context.Background(), "https://github.com/octo")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, apperr.Is(err, tt.want), "got %v", err)
			assert.Empty(t, eng.gotProfile.User.Login, "engine must not run without the repository list")
		})
	}
}

func TestAnalyzeProfile_TerminalFailures(t *testing.T) {
	src := profileSource()
	src.userErr = apperr.New(apperr.NotFound, "fetching user", nil)
	_, err := New(src, &fakeEngine{}).AnalyzeProfile(context.Background(), "https://github.com/ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = New(profileSource(), &fakeEngine{}).AnalyzeProfile(context.Background(), "https://bitbucket.org/octo")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	eng := &fakeEngine{err: apperr.New(apperr.AIUnavailable, "generating profile insight", nil)}
	_, err = New(profileSource(), eng).AnalyzeProfile(context.Background(), "https://github.com/octo")
	assert.True(t, apperr.Is(err, apperr.AIUnavailable))
}
