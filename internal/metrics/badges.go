package metrics

import "github.com/drpaneas/gitinsight/internal/model"

// Badge thresholds.
const (
	polyglotLanguages     = 5
	starGazerStars        = 100
	commitMachineCount    = 500
	commitMachineRepos    = 50
	perfectReadmeQuality  = 90
	communityBuilderForks = 25
	top10PercentHealth    = 90
)

// Facts is the immutable input every badge predicate is evaluated against.
type Facts struct {
	Repos           []model.RepoInfo // owned non-fork repositories
	Languages       model.LanguageDistribution
	TopRepos        []model.RepoInfo // merged with the AI assessment
	Calendar        model.Calendar
	PublicRepoCount int
	HealthScore     int
}

type badgeDef struct {
	id          model.BadgeID
	name        string
	description string
	earned      func(Facts) bool
}

// catalog is the fixed badge set in presentation order.
var catalog = []badgeDef{
	{
		id:          model.BadgePolyglot,
		name:        "Polyglot",
		description: "Owns repositories in 5 or more languages.",
		earned:      func(f Facts) bool { return len(f.Languages) >= polyglotLanguages },
	},
	{
		id:          model.BadgeStarGazer,
		name:        "Star Gazer",
		description: "Owns a repository with at least 100 stars.",
		earned: func(f Facts) bool {
			return anyRepo(f.Repos, func(r model.RepoInfo) bool { return r.Stars >= starGazerStars })
		},
	},
	{
		id:          model.BadgeCommitMachine,
		name:        "Commit Machine",
		description: "More than 500 contributions in the last year.",
		earned: func(f Facts) bool {
			if f.Calendar.Available {
				return f.Calendar.Total > commitMachineCount
			}
			// Without calendar data, fall back to a weak proxy.
			return f.PublicRepoCount > commitMachineRepos
		},
	},
	{
		id:          model.BadgePerfectReadme,
		name:        "Perfect README",
		description: "A top repository scored 90 or more for quality.",
		earned: func(f Facts) bool {
			return anyRepo(f.TopRepos, func(r model.RepoInfo) bool { return r.QualityScore >= perfectReadmeQuality })
		},
	},
	{
		id:          model.BadgeCommunityBuilder,
		name:        "Community Builder",
		description: "Owns a repository forked at least 25 times.",
		earned: func(f Facts) bool {
			return anyRepo(f.Repos, func(r model.RepoInfo) bool { return r.Forks >= communityBuilderForks })
		},
	},
	{
		id:          model.BadgeTop10Percent,
		name:        "Top 10%",
		description: "Profile health score of 90 or more.",
		earned:      func(f Facts) bool { return f.HealthScore >= top10PercentHealth },
	},
}

// Catalog returns the badge ids in presentation order.
func Catalog() []model.BadgeID {
	ids := make([]model.BadgeID, len(catalog))
	for i, b := range catalog {
		ids[i] = b.id
	}
	return ids
}

// EvaluateBadges returns every catalog badge with its earned flag.
func EvaluateBadges(f Facts) []model.Badge {
	out := make([]model.Badge, len(catalog))
	for i, b := range catalog {
		out[i] = model.Badge{
			ID:          b.id,
			Name:        b.name,
			Description: b.description,
			Earned:      b.earned(f),
		}
	}
	return out
}

func anyRepo(repos []model.RepoInfo, pred func(model.RepoInfo) bool) bool {
	for _, r := range repos {
		if !r.Fork && pred(r) {
			return true
		}
	}
	return false
}
