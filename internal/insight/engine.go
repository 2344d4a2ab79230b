// Package insight asks an LLM for a structured assessment of a repository or
// a developer profile and validates the answer into model types.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/llm"
	"github.com/drpaneas/gitinsight/internal/model"
	"github.com/drpaneas/gitinsight/internal/textutil"
)

const (
	maxTreeLines     = 400
	maxPromptBytes   = 60000
	maxOtherRepos    = 40
	maxDescription   = 200
	insightMaxTokens = 4096
)

// Engine performs one structured-generation call per analysis.
type Engine struct {
	provider llm.Provider
}

// New returns an Engine backed by provider.
func New(provider llm.Provider) *Engine {
	return &Engine{provider: provider}
}

// ProfileInput is the ground truth the profile assessment is based on.
// TopRepos should already be ranked; the model is asked to score exactly those.
type ProfileInput struct {
	User      model.UserFact
	TopRepos  []model.RepoInfo
	AllRepos  []model.RepoInfo
	Languages model.LanguageDistribution
}

// AnalyzeRepository assesses a repository from its facts and sampled files.
func (e *Engine) AnalyzeRepository(ctx context.Context, fact model.RepoFact, files []model.SampledFile) (model.RepoInsight, error) {
	prompt := buildRepoPrompt(fact, files)
	slog.Debug("requesting repository insight", "repo", fact.FullName, "prompt_bytes", len(prompt))

	raw, err := e.provider.Complete(ctx, repoSystemPrompt, prompt, &llm.CompleteOptions{
		MaxTokens: insightMaxTokens,
		Schema:    &RepoSchema,
	})
	if err != nil {
		return model.RepoInsight{}, apperr.New(apperr.AIUnavailable, "generating repository insight", err)
	}
	return ParseRepoInsight(raw)
}

// AnalyzeProfile assesses a developer profile.
func (e *Engine) AnalyzeProfile(ctx context.Context, in ProfileInput) (model.ProfileInsight, error) {
	prompt := buildProfilePrompt(in)
	slog.Debug("requesting profile insight", "login", in.User.Login, "prompt_bytes", len(prompt))

	raw, err := e.provider.Complete(ctx, profileSystemPrompt, prompt, &llm.CompleteOptions{
		MaxTokens: insightMaxTokens,
		Schema:    &ProfileSchema,
	})
	if err != nil {
		return model.ProfileInsight{}, apperr.New(apperr.AIUnavailable, "generating profile insight", err)
	}
	return ParseProfileInsight(raw)
}

func buildRepoPrompt(fact model.RepoFact, files []model.SampledFile) string {
	var tree strings.Builder
	shown := 0
	for _, e := range fact.FileTree {
		if e.Kind != "blob" {
			continue
		}
		if shown == maxTreeLines {
			break
		}
		tree.WriteString(e.Path)
		tree.WriteByte('\n')
		shown++
	}
	note := ""
	if fact.TreeTruncated || shown == maxTreeLines {
		note = ", partial"
	}

	var samples strings.Builder
	for _, f := range files {
		if !f.FetchSucceeded {
			fmt.Fprintf(&samples, "--- %s (content unavailable) ---\n\n", f.Path)
			continue
		}
		fmt.Fprintf(&samples, "--- %s ---\n%s\n\n", f.Path, f.Content)
	}

	prompt := fmt.Sprintf(repoPrompt,
		fact.FullName, orNone(fact.Description), orNone(fact.Language), fact.Stars, fact.CommitCount,
		shown, note, tree.String(), samples.String())
	return textutil.Excerpt(prompt, maxPromptBytes, textutil.TruncationMarker)
}

func buildProfilePrompt(in ProfileInput) string {
	u := in.User
	since := "unknown"
	if !u.CreatedAt.IsZero() {
		since = u.CreatedAt.Format("2006-01-02")
	}

	top := make(map[string]bool, len(in.TopRepos))
	var topText strings.Builder
	for _, r := range in.TopRepos {
		top[r.Name] = true
		writeRepoLine(&topText, r)
	}

	var other strings.Builder
	n := 0
	for _, r := range in.AllRepos {
		if r.Fork || top[r.Name] {
			continue
		}
		if n == maxOtherRepos {
			other.WriteString("...\n")
			break
		}
		writeRepoLine(&other, r)
		n++
	}

	prompt := fmt.Sprintf(profilePrompt,
		u.Login, orNone(u.DisplayName), orNone(u.Bio), u.Followers, u.Following, u.PublicRepoCount, since,
		languagesText(in.Languages), orNone(topText.String()), orNone(other.String()))
	return textutil.Excerpt(prompt, maxPromptBytes, textutil.TruncationMarker)
}

func writeRepoLine(b *strings.Builder, r model.RepoInfo) {
	fmt.Fprintf(b, "- %s [%s] stars:%d forks:%d", r.Name, orNone(r.Language), r.Stars, r.Forks)
	if !r.PushedAt.IsZero() {
		fmt.Fprintf(b, " pushed:%s", r.PushedAt.Format("2006-01-02"))
	}
	if r.Description != "" {
		fmt.Fprintf(b, " - %s", textutil.Excerpt(r.Description, maxDescription, "..."))
	}
	b.WriteByte('\n')
}

// languagesText renders the distribution most-used first, ties by name.
func languagesText(langs model.LanguageDistribution) string {
	if len(langs) == 0 {
		return "none\n"
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %d\n", name, langs[name])
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
