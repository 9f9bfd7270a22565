package storage

// Export is the whole-store document produced by ExportAll and accepted by ImportAll.
// Rows carry the raw stored JSON text so an import writes exactly what was exported.
type Export struct {
	Logs        []LogRow        `json:"logs"`
	DailyPlans  []DailyPlanRow  `json:"daily_plans"`
	WeeklyPlans []WeeklyPlanRow `json:"weekly_plans"`
	WeeklyLogs  []WeeklyLogRow  `json:"weekly_logs"`
	ExportedAt  string          `json:"exportedAt"`
}

type LogRow struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Transcript string  `json:"transcript"`
	PlanJSON   *string `json:"dailyPlanJson"`
	CardsJSON  string  `json:"cardsJson"`
	CreatedAt  string  `json:"createdAt"`
}

type DailyPlanRow struct {
	Date      string `json:"date"`
	JSON      string `json:"json"`
	UpdatedAt string `json:"updatedAt"`
}

type WeeklyPlanRow struct {
	WeekStart string `json:"weekStart"`
	JSON      string `json:"json"`
	UpdatedAt string `json:"updatedAt"`
}

type WeeklyLogRow struct {
	ID         string  `json:"id"`
	WeekStart  string  `json:"weekStart"`
	Transcript string  `json:"transcript"`
	PlanJSON   *string `json:"weeklyPlanJson"`
	CreatedAt  string  `json:"createdAt"`
}

// Normalize replaces nil row slices with empty ones so an export always serializes
// every table as an array.
func (e *Export) Normalize() {
	if e.Logs == nil {
		e.Logs = []LogRow{}
	}
	if e.DailyPlans == nil {
		e.DailyPlans = []DailyPlanRow{}
	}
	if e.WeeklyPlans == nil {
		e.WeeklyPlans = []WeeklyPlanRow{}
	}
	if e.WeeklyLogs == nil {
		e.WeeklyLogs = []WeeklyLogRow{}
	}
}
