package models

// WeeklyPlan is the document stored per week, keyed by the Monday that starts it.
type WeeklyPlan struct {
	WeekStart     string     `json:"weekStart"`
	Goals         []string   `json:"goals"`
	Must          []Task     `json:"must"`
	Should        []Task     `json:"should"`
	Feedback      string     `json:"feedback,omitempty"`
	Adjustments   string     `json:"adjustments,omitempty"`
	RiskOfWeek    Risk       `json:"riskOfWeek"`
	OneAdjustment Adjustment `json:"oneAdjustment"`
}
