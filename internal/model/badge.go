package model

// BadgeID identifies one achievement in the fixed badge catalog.
type BadgeID string

const (
	BadgePolyglot         BadgeID = "POLYGLOT"
	BadgeStarGazer        BadgeID = "STAR_GAZER"
	BadgeCommitMachine    BadgeID = "COMMIT_MACHINE"
	BadgePerfectReadme    BadgeID = "PERFECT_README"
	BadgeCommunityBuilder BadgeID = "COMMUNITY_BUILDER"
	BadgeTop10Percent     BadgeID = "TOP_10_PERCENT"
)

// Badge is a catalog entry together with whether it was earned in this request.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Earned      bool    `json:"earned"`
}
