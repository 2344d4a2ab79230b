// Package metrics merges ground truth with the AI assessment and derives
// totals, distributions and badges. Everything here is pure.
package metrics

import (
	"sort"

	"github.com/drpaneas/gitinsight/internal/model"
)

// MaxTopRepos caps the ranked repository list.
const MaxTopRepos = 10

// Owned returns the non-fork repositories, preserving order.
func Owned(repos []model.RepoInfo) []model.RepoInfo {
	out := make([]model.RepoInfo, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			out = append(out, r)
		}
	}
	return out
}

// Languages counts non-fork repositories per declared primary language.
func Languages(repos []model.RepoInfo) model.LanguageDistribution {
	dist := model.LanguageDistribution{}
	for _, r := range repos {
		if r.Fork || r.Language == "" {
			continue
		}
		dist[r.Language]++
	}
	return dist
}

// TotalStars sums stars across all non-fork repositories.
func TotalStars(repos []model.RepoInfo) int {
	total := 0
	for _, r := range repos {
		if !r.Fork {
			total += r.Stars
		}
	}
	return total
}

// RankRepos returns the n most-starred non-fork repositories. Ties keep
// their fetch order.
func RankRepos(repos []model.RepoInfo, n int) []model.RepoInfo {
	ranked := Owned(repos)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Stars > ranked[j].Stars })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MergeTopRepos attaches the AI pitch and quality score to each ranked
// repository by exact name. Repositories the AI skipped get the fallbacks.
func MergeTopRepos(ranked []model.RepoInfo, ai []model.TopRepoInsight) []model.RepoInfo {
	byName := make(map[string]model.TopRepoInsight, len(ai))
	for _, t := range ai {
		if _, dup := byName[t.Name]; !dup {
			byName[t.Name] = t
		}
	}
	out := make([]model.RepoInfo, len(ranked))
	for i, r := range ranked {
		r.Pitch = model.FallbackPitch
		r.QualityScore = model.FallbackQualityScore
		if t, ok := byName[r.Name]; ok {
			if t.Pitch != "" {
				r.Pitch = t.Pitch
			}
			if t.QualityScore > 0 {
				r.QualityScore = clamp(t.QualityScore, 1, 100)
			}
		}
		out[i] = r
	}
	return out
}

// ClampHealth forces a health score into [0,100].
func ClampHealth(score int) int {
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// ProfileInputs is everything a profile aggregate is built from.
type ProfileInputs struct {
	User         model.UserFact
	Repos        []model.RepoInfo
	Insight      model.ProfileInsight
	Calendar     model.Calendar
	Degradations []model.Degradation
}

// AggregateProfile builds the profile result. Calling it twice on the same
// inputs yields identical output.
func AggregateProfile(in ProfileInputs) model.ProfileAnalysisResult {
	owned := Owned(in.Repos)
	langs := Languages(owned)
	top := MergeTopRepos(RankRepos(owned, MaxTopRepos), in.Insight.TopRepos)
	health := ClampHealth(in.Insight.HealthScore)

	badges := EvaluateBadges(Facts{
		Repos:           owned,
		Languages:       langs,
		TopRepos:        top,
		Calendar:        in.Calendar,
		PublicRepoCount: in.User.PublicRepoCount,
		HealthScore:     health,
	})

	return model.ProfileAnalysisResult{
		User:           in.User,
		ProfileSummary: in.Insight.ProfileSummary,
		StarRating:     in.Insight.StarRating,
		MainExpertise:  nonNil(in.Insight.MainExpertise),
		HealthScore:    health,
		Suggestions:    nonNil(in.Insight.Suggestions),
		TopRepos:       top,
		Languages:      langs,
		TotalStars:     TotalStars(owned),
		Badges:         badges,
		Calendar:       in.Calendar,
		Degradations:   degradations(in.Degradations),
	}
}

// RepoInputs is everything a repository aggregate is built from.
type RepoInputs struct {
	Fact         model.RepoFact
	Files        []model.SampledFile
	Insight      model.RepoInsight
	Degradations []model.Degradation
}

// AggregateRepository builds the repository result.
func AggregateRepository(in RepoInputs) model.AnalysisResult {
	files := in.Files
	if files == nil {
		files = []model.SampledFile{}
	}
	items := in.Insight.Items
	if items == nil {
		items = []model.Item{}
	}
	return model.AnalysisResult{
		Repository:           in.Fact,
		SampledFiles:         files,
		TechStack:            nonNil(in.Insight.TechStack),
		FileStructureSummary: in.Insight.FileStructureSummary,
		StarRating:           in.Insight.StarRating,
		Items:                items,
		Degradations:         degradations(in.Degradations),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func degradations(d []model.Degradation) []model.Degradation {
	if d == nil {
		return []model.Degradation{}
	}
	return d
}
