package constants

// AdjustmentType classifies the single corrective suggestion attached to a plan
type AdjustmentType string

const (
	AdjustmentGoal     AdjustmentType = "goal"
	AdjustmentResource AdjustmentType = "resource"
	AdjustmentDo       AdjustmentType = "do"

	// Upstream plan limits. The store never enforces these; the generator does.
	MaxDailyMust        = 3
	MaxDailyShould      = 5
	MaxDailyAssumptions = 3
	MaxWeeklyGoals      = 3
	MaxWeeklyMust       = 5
	MaxWeeklyShould     = 8

	// Generator defaults
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 2048
	MaxGenerateTries = 2
)
