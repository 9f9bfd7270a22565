package storage

import "github.com/julianstephens/dayplan/internal/models"

// Provider is the persisted-plan store. Absence is reported through the bool results,
// never as an error; errors are infrastructure failures or caller mistakes.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Daily plans
	GetDailyPlan(date string) (models.DayPlan, bool, error)
	SaveDailyPlan(plan models.DayPlan) error
	// SetTaskDone flips the done flag of the first task with taskID in the day's
	// document (must lists before should lists) and persists the whole document.
	// It returns false when no plan exists for date and ErrTaskNotFound when the
	// plan exists but holds no such task, in which case nothing is written.
	SetTaskDone(date, taskID string, done bool) (models.DayPlan, bool, error)
	// SetCardTaskDone is SetTaskDone scoped to a single card of the day.
	SetCardTaskDone(date, cardID, taskID string, done bool) (models.DayPlan, bool, error)

	// Weekly plans
	GetWeeklyPlan(weekStart string) (models.WeeklyPlan, bool, error)
	SaveWeeklyPlan(plan models.WeeklyPlan) error
	DeleteWeeklyPlan(weekStart string) error

	// Session logs
	AppendLog(entry models.SessionLog) error
	AppendWeeklyLog(entry models.WeeklySessionLog) error
	ListLogsByDate(date string) (DayLogs, error)
	ListLogsByWeek(weekStart string) (WeekLogs, error)

	// Bulk export/import
	ExportAll() (Export, error)
	ImportAll(data Export) error

	// Utils
	GetConfigPath() string
}

// DayLogs is the result of ListLogsByDate: every log for the date, newest first, plus
// the current stored plan for that date (not a log snapshot).
type DayLogs struct {
	Date    string              `json:"date"`
	Logs    []models.SessionLog `json:"logs"`
	Plan    models.DayPlan      `json:"dailyPlan"`
	HasPlan bool                `json:"hasPlan"`
}

// WeekLogs is the weekly counterpart of DayLogs.
type WeekLogs struct {
	WeekStart string                    `json:"weekStart"`
	Logs      []models.WeeklySessionLog `json:"logs"`
	Plan      models.WeeklyPlan         `json:"weeklyPlan"`
	HasPlan   bool                      `json:"hasPlan"`
}
