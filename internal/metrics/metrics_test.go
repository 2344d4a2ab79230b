package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drpaneas/gitinsight/internal/model"
)

func reposWithLanguages(langs ...string) []model.RepoInfo {
	repos := make([]model.RepoInfo, len(langs))
	for i, l := range langs {
		repos[i] = model.RepoInfo{Name: "repo-" + l, Language: l}
	}
	return repos
}

func earned(badges []model.Badge, id model.BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return b.Earned
		}
	}
	return false
}

func TestLanguagesSkipsForksAndBlanks(t *testing.T) {
	repos := []model.RepoInfo{
		{Name: "a", Language: "Go"},
		{Name: "b", Language: "Go"},
		{Name: "c", Language: ""},
		{Name: "d", Language: "Rust", Fork: true},
	}
	assert.Equal(t, model.LanguageDistribution{"Go": 2}, Languages(repos))
}

func TestTotalStarsCountsAllOwned(t *testing.T) {
	var repos []model.RepoInfo
	for i := 0; i < 15; i++ {
		repos = append(repos, model.RepoInfo{Name: "r", Stars: 10})
	}
	repos = append(repos, model.RepoInfo{Name: "fork", Stars: 1000, Fork: true})
	assert.Equal(t, 150, TotalStars(repos))
}

func TestRankReposStableAndCapped(t *testing.T) {
	repos := []model.RepoInfo{
		{Name: "first", Stars: 5},
		{Name: "big", Stars: 50},
		{Name: "second", Stars: 5},
		{Name: "fork", Stars: 500, Fork: true},
	}
	got := RankRepos(repos, 10)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"big", "first", "second"}, []string{got[0].Name, got[1].Name, got[2].Name})

	many := make([]model.RepoInfo, 25)
	assert.Len(t, RankRepos(many, MaxTopRepos), MaxTopRepos)
}

func TestMergeTopReposFallback(t *testing.T) {
	ranked := []model.RepoInfo{{Name: "alpha"}, {Name: "beta"}}
	ai := []model.TopRepoInsight{{Name: "alpha", Pitch: "Blazing fast.", QualityScore: 88}}

	got := MergeTopRepos(ranked, ai)
	require.Len(t, got, 2)
	assert.Equal(t, "Blazing fast.", got[0].Pitch)
	assert.Equal(t, 88, got[0].QualityScore)
	assert.Equal(t, model.FallbackPitch, got[1].Pitch)
	assert.Equal(t, model.FallbackQualityScore, got[1].QualityScore)
}

func TestMergeTopReposExactNameOnly(t *testing.T) {
	got := MergeTopRepos([]model.RepoInfo{{Name: "Alpha"}}, []model.TopRepoInsight{{Name: "alpha", Pitch: "x", QualityScore: 99}})
	assert.Equal(t, model.FallbackPitch, got[0].Pitch)
}

func TestClampHealth(t *testing.T) {
	tests := []struct{ in, want int }{{-5, 0}, {0, 0}, {73, 73}, {100, 100}, {140, 100}}
	for _, tt := range tests {
		if got := ClampHealth(tt.in); got != tt.want {
			t.Errorf("ClampHealth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPolyglotThreshold(t *testing.T) {
	four := reposWithLanguages("Go", "Rust", "Python", "C")
	five := reposWithLanguages("Go", "Rust", "Python", "C", "Zig")

	assert.False(t, earned(EvaluateBadges(Facts{Repos: four, Languages: Languages(four)}), model.BadgePolyglot))
	assert.True(t, earned(EvaluateBadges(Facts{Repos: five, Languages: Languages(five)}), model.BadgePolyglot))
}

func TestCommitMachine(t *testing.T) {
	tests := []struct {
		name  string
		facts Facts
		want  bool
	}{
		{"calendar above threshold", Facts{Calendar: model.Calendar{Available: true, Total: 501}}, true},
		{"calendar at threshold", Facts{Calendar: model.Calendar{Available: true, Total: 500}}, false},
		{"calendar low despite many repos", Facts{Calendar: model.Calendar{Available: true, Total: 10}, PublicRepoCount: 80}, false},
		{"proxy without calendar", Facts{PublicRepoCount: 51}, true},
		{"proxy at threshold", Facts{PublicRepoCount: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, earned(EvaluateBadges(tt.facts), model.BadgeCommitMachine))
		})
	}
}

func TestEvaluateBadgesAlwaysFullCatalog(t *testing.T) {
	badges := EvaluateBadges(Facts{})
	require.Len(t, badges, 6)
	for i, id := range Catalog() {
		assert.Equal(t, id, badges[i].ID)
		assert.False(t, badges[i].Earned)
		assert.NotEmpty(t, badges[i].Description)
	}
}

func profileScenario() ProfileInputs {
	repos := reposWithLanguages("Go", "Rust", "Python", "TypeScript", "C", "Haskell")
	repos[0].Stars = 150
	repos[0].Forks = 30
	return ProfileInputs{
		User:  model.UserFact{Login: "octo", PublicRepoCount: 6},
		Repos: repos,
		Insight: model.ProfileInsight{
			ProfileSummary: "Polyglot systems developer",
			StarRating:     4.5,
			HealthScore:    92,
			TopRepos:       []model.TopRepoInsight{{Name: "repo-Go", Pitch: "The flagship.", QualityScore: 95}},
		},
		Calendar: model.Calendar{Available: true, Total: 820},
	}
}

func TestAggregateProfileEarnsAllBadges(t *testing.T) {
	got := AggregateProfile(profileScenario())

	require.Len(t, got.Badges, 6)
	for _, b := range got.Badges {
		assert.True(t, b.Earned, "badge %s", b.ID)
	}
	assert.Equal(t, 150, got.TotalStars)
	assert.Len(t, got.Languages, 6)
	assert.Equal(t, "repo-Go", got.TopRepos[0].Name)
	assert.Equal(t, model.FallbackPitch, got.TopRepos[1].Pitch)
	assert.NotNil(t, got.MainExpertise)
	assert.NotNil(t, got.Degradations)
}

func TestAggregateIsIdempotent(t *testing.T) {
	in := profileScenario()
	first, err := json.Marshal(AggregateProfile(in))
	require.NoError(t, err)
	second, err := json.Marshal(AggregateProfile(in))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	repoIn := RepoInputs{
		Fact:    model.RepoFact{FullName: "octo/hello", CommitCount: 3},
		Insight: model.RepoInsight{StarRating: 3, Items: []model.Item{{Name: "main", Kind: model.KindFunction}}},
	}
	a, _ := json.Marshal(AggregateRepository(repoIn))
	b, _ := json.Marshal(AggregateRepository(repoIn))
	assert.Equal(t, string(a), string(b))
}

func TestAggregateRepositoryNeverNil(t *testing.T) {
	got := AggregateRepository(RepoInputs{})
	assert.NotNil(t, got.SampledFiles)
	assert.NotNil(t, got.TechStack)
	assert.NotNil(t, got.Items)
	assert.NotNil(t, got.Degradations)
}
