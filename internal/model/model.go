// Package model defines the data shared by the fetch, insight, metrics and
// analysis stages. Every value here lives for a single analysis request.
package model

import "time"

// TreeEntry is one node of a repository's recursive git tree.
type TreeEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "blob", "tree" or "commit"
}

// FileTree is the recursive tree of a repository at a given ref.
type FileTree struct {
	Entries   []TreeEntry
	Truncated bool
}

// RepoMeta holds repository metadata as returned by the code host.
type RepoMeta struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	DefaultBranch string
	Language      string
	Stars         int
	Forks         int
	URL           string
}

// RepoFact is the ground truth gathered for one repository analysis.
type RepoFact struct {
	FullName      string      `json:"fullName"`
	Description   string      `json:"description"`
	DefaultBranch string      `json:"defaultBranch"`
	Language      string      `json:"language"`
	Stars         int         `json:"stars"`
	FileTree      []TreeEntry `json:"-"`
	TreeTruncated bool        `json:"treeTruncated"`
	CommitCount   int         `json:"commitCount"`
}

// SampledFile is a representative file selected for AI analysis. Content is
// empty when the fetch failed; the entry is kept so the file count stays stable.
type SampledFile struct {
	Path           string `json:"path"`
	Content        string `json:"-"`
	FetchSucceeded bool   `json:"fetchSucceeded"`
}

// ItemKind classifies a glossary item.
type ItemKind string

const (
	KindFunction ItemKind = "Function"
	KindClass    ItemKind = "Class"
	KindVariable ItemKind = "Variable"
)

// ItemKinds lists the valid item kinds in presentation order.
var ItemKinds = []ItemKind{KindFunction, KindClass, KindVariable}

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindFunction, KindClass, KindVariable:
		return true
	}
	return false
}

// Item is a named code element reported for a repository.
type Item struct {
	Name string   `json:"name"`
	Kind ItemKind `json:"kind"`
	Path string   `json:"path"`
}

// RepoInsight is the validated AI assessment of a repository.
type RepoInsight struct {
	TechStack            []string `json:"techStack"`
	FileStructureSummary string   `json:"fileStructureSummary"`
	StarRating           float64  `json:"starRating"`
	Items                []Item   `json:"items"`
}

// UserFact holds a developer account's public profile.
type UserFact struct {
	Login           string    `json:"login"`
	DisplayName     string    `json:"displayName"`
	AvatarURL       string    `json:"avatarUrl"`
	Bio             string    `json:"bio"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	PublicRepoCount int       `json:"publicRepoCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RepoInfo describes one of a user's repositories. Pitch and QualityScore are
// only set after the AI assessment has been merged in.
type RepoInfo struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Stars        int       `json:"starCount"`
	Forks        int       `json:"forkCount"`
	Language     string    `json:"language"`
	URL          string    `json:"url"`
	Fork         bool      `json:"-"`
	PushedAt     time.Time `json:"-"`
	Pitch        string    `json:"pitch,omitempty"`
	QualityScore int       `json:"qualityScore,omitempty"`
}

// LanguageDistribution maps a primary language to the number of repositories using it.
type LanguageDistribution map[string]int

// TopRepoInsight is the AI's per-repository assessment.
type TopRepoInsight struct {
	Name         string `json:"name"`
	Pitch        string `json:"pitch"`
	QualityScore int    `json:"qualityScore"`
}

// ProfileInsight is the validated AI assessment of a developer profile.
type ProfileInsight struct {
	ProfileSummary string           `json:"profileSummary"`
	StarRating     float64          `json:"starRating"`
	MainExpertise  []string         `json:"mainExpertise"`
	HealthScore    int              `json:"healthScore"`
	Suggestions    []string         `json:"suggestions"`
	TopRepos       []TopRepoInsight `json:"topRepos"`
}

// ContributionDay is the activity recorded for one calendar day.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// MonthLabel anchors a month name above a calendar week column.
type MonthLabel struct {
	Label string `json:"label"`
	Week  int    `json:"week"`
}

// Calendar is a complete week-aligned contribution grid.
type Calendar struct {
	Weeks       [][]ContributionDay `json:"weeks"`
	MonthLabels []MonthLabel        `json:"monthLabels"`
	Total       int                 `json:"total"`
	Available   bool                `json:"available"`
}

// Degradation records a non-critical input that fell back to a default.
type Degradation struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// AnalysisResult is the consolidated repository analysis.
type AnalysisResult struct {
	Repository           RepoFact      `json:"repository"`
	SampledFiles         []SampledFile `json:"sampledFiles"`
	TechStack            []string      `json:"techStack"`
	FileStructureSummary string        `json:"fileStructureSummary"`
	StarRating           float64       `json:"starRating"`
	Items                []Item        `json:"items"`
	Degradations         []Degradation `json:"degradations"`
}

// ProfileAnalysisResult is the consolidated developer profile analysis.
type ProfileAnalysisResult struct {
	User           UserFact             `json:"user"`
	ProfileSummary string               `json:"profileSummary"`
	StarRating     float64              `json:"starRating"`
	MainExpertise  []string             `json:"mainExpertise"`
	HealthScore    int                  `json:"healthScore"`
	Suggestions    []string             `json:"suggestions"`
	TopRepos       []RepoInfo           `json:"topRepos"`
	Languages      LanguageDistribution `json:"languages"`
	TotalStars     int                  `json:"totalStars"`
	Badges         []Badge              `json:"badges"`
	Calendar       Calendar             `json:"calendar"`
	Degradations   []Degradation        `json:"degradations"`
}

// Fallbacks applied when the AI assessment omits a repository.
const (
	FallbackPitch        = "An interesting project."
	FallbackQualityScore = 50
)
