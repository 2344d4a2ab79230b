// Package analysis orchestrates a repository or profile analysis: validate
// the URL, fetch facts concurrently, sample, ask the model, aggregate.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/calendar"
	"github.com/drpaneas/gitinsight/internal/insight"
	"github.com/drpaneas/gitinsight/internal/metrics"
	"github.com/drpaneas/gitinsight/internal/model"
	"github.com/drpaneas/gitinsight/internal/sampler"
	"github.com/drpaneas/gitinsight/internal/symbols"
)

const (
	maxConcurrentFiles = 8
	maxItems           = 20

	// defaultRef names the default branch in git refs.
	defaultRef = "HEAD"
)

// Source is the upstream data an analysis reads. *ghfetch.Fetcher implements it.
type Source interface {
	Repository(ctx context.Context, owner, name string) (model.RepoMeta, error)
	CommitCount(ctx context.Context, owner, name, branch string) (int, error)
	FileTree(ctx context.Context, owner, name, ref string) (model.FileTree, error)
	FileContent(ctx context.Context, owner, name, ref, path string) (string, error)
	User(ctx context.Context, login string) (model.UserFact, error)
	Repositories(ctx context.Context, login string) ([]model.RepoInfo, error)
	Contributions(ctx context.Context, login string) ([]model.ContributionDay, error)
}

// Engine produces the AI assessment. *insight.Engine implements it.
type Engine interface {
	AnalyzeRepository(ctx context.Context, fact model.RepoFact, files []model.SampledFile) (model.RepoInsight, error)
	AnalyzeProfile(ctx context.Context, in insight.ProfileInput) (model.ProfileInsight, error)
}

// Analyzer runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Analyzer struct {
	src            Source
	engine         Engine
	now            func() time.Time
	symbolFallback bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the time source used to anchor the contribution calendar.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithSymbolFallback fills items from a local tree-sitter index when the
// model returns none.
func WithSymbolFallback(enabled bool) Option {
	return func(a *Analyzer) { a.symbolFallback = enabled }
}

// New returns an Analyzer reading from src and assessing with engine.
func New(src Source, engine Engine, opts ...Option) *Analyzer {
	a := &Analyzer{src: src, engine: engine, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// degradations collects the fallbacks taken during one request.
type degradations []model.Degradation

func (d *degradations) add(source string, err error) {
	slog.Warn("continuing with default value", "source", source, "error", err)
	d.note(source, err.Error())
}

func (d *degradations) note(source, reason string) {
	*d = append(*d, model.Degradation{Source: source, Reason: reason})
}

// AnalyzeRepository analyzes the repository at rawURL.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	target, err := ParseTarget(rawURL, TargetRepository)
	if err != nil {
		return nil, err
	}
	owner, name := target.Owner, target.Repo
	slog.Info("analyzing repository", "repo", target)

	// All three leaf calls run together; the commit listing and the tree
	// resolve the default branch on their own.
	var (
		meta  slot[model.RepoMeta]
		count slot[int]
		tree  slot[model.FileTree]
	)
	g := newGroup(0)
	spawn(g, &meta, func() (model.RepoMeta, error) { return a.src.Repository(ctx, owner, name) })
	spawn(g, &count, func() (int, error) { return a.src.CommitCount(ctx, owner, name, "") })
	spawn(g, &tree, func() (model.FileTree, error) { return a.src.FileTree(ctx, owner, name, defaultRef) })
	_ = g.Wait()

	if meta.err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", target, meta.err)
	}
	var degraded degradations
	if count.err != nil {
		degraded.add("commitCount", count.err)
		count.val = 0
	}
	if tree.err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", target, tree.err)
	}
	branch := meta.val.DefaultBranch
	if branch == "" {
		branch = defaultRef
	}

	fact := model.RepoFact{
		FullName:      meta.val.FullName,
		Description:   meta.val.Description,
		DefaultBranch: branch,
		Language:      meta.val.Language,
		Stars:         meta.val.Stars,
		FileTree:      tree.val.Entries,
		TreeTruncated: tree.val.Truncated,
		CommitCount:   count.val,
	}
	if fact.FullName == "" {
		fact.FullName = target.String()
	}

	paths := sampler.Select(tree.val.Entries)
	if len(paths) == 0 {
		return nil, apperr.Newf(apperr.NoSourceFiles, "%s has no representative source files", target)
	}
	slog.Debug("sampled files", "repo", target, "count", len(paths))

	files := a.fetchFiles(ctx, owner, name, branch, paths, &degraded)

	ins, err := a.engine.AnalyzeRepository(ctx, fact, files)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", target, err)
	}
	if len(ins.Items) == 0 && a.symbolFallback {
		if items := symbols.Extract(ctx, files, maxItems); len(items) > 0 {
			ins.Items = items
			slog.Info("model returned no items, using local symbol index", "repo", target, "items", len(items))
			degraded.note("items", "model returned no items; listed from local symbol index")
		}
	}

	res := metrics.AggregateRepository(metrics.RepoInputs{
		Fact:         fact,
		Files:        files,
		Insight:      ins,
		Degradations: degraded,
	})
	return &res, nil
}

// fetchFiles reads every sampled path concurrently. A failed read keeps its
// entry with empty content so the file count stays stable.
func (a *Analyzer) fetchFiles(ctx context.Context, owner, name, ref string, paths []string, degraded *degradations) []model.SampledFile {
	slots := make([]slot[string], len(paths))
	g := newGroup(maxConcurrentFiles)
	for i, p := range paths {
		spawn(g, &slots[i], func() (string, error) { return a.src.FileContent(ctx, owner, name, ref, p) })
	}
	_ = g.Wait()

	files := make([]model.SampledFile, len(paths))
	for i, p := range paths {
		files[i] = model.SampledFile{Path: p}
		if slots[i].err != nil {
			degraded.add("file:"+p, slots[i].err)
			continue
		}
		files[i].Content = slots[i].val
		files[i].FetchSucceeded = true
	}
	return files
}

// AnalyzeProfile analyzes the developer at rawURL.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, rawURL string) (*model.ProfileAnalysisResult, error) {
	target, err := ParseTarget(rawURL, TargetProfile)
	if err != nil {
		return nil, err
	}
	login := target.Owner
	slog.Info("analyzing profile", "login", login)

	var (
		user  slot[model.UserFact]
		repos slot[[]model.RepoInfo]
		days  slot[[]model.ContributionDay]
	)
	g := newGroup(0)
	spawn(g, &user, func() (model.UserFact, error) { return a.src.User(ctx, login) })
	spawn(g, &repos, func() ([]model.RepoInfo, error) { return a.src.Repositories(ctx, login) })
	spawn(g, &days, func() ([]model.ContributionDay, error) { return a.src.Contributions(ctx, login) })
	_ = g.Wait()

	if user.err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", login, user.err)
	}
	if repos.err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", login, repos.err)
	}
	var degraded degradations
	today := a.now()
	cal := calendar.Empty(today)
	if days.err != nil {
		degraded.add("contributions", days.err)
	} else {
		cal = calendar.Build(days.val, today)
	}

	owned := metrics.Owned(repos.val)
	ins, err := a.engine.AnalyzeProfile(ctx, insight.ProfileInput{
		User:      user.val,
		TopRepos:  metrics.RankRepos(owned, metrics.MaxTopRepos),
		AllRepos:  owned,
		Languages: metrics.Languages(owned),
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", login, err)
	}

	res := metrics.AggregateProfile(metrics.ProfileInputs{
		User:         user.val,
		Repos:        repos.val,
		Insight:      ins,
		Calendar:     cal,
		Degradations: degraded,
	})
	return &res, nil
}
