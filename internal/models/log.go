package models

import "time"

// SessionLog is the immutable record of one transcript-to-plan capture for a day.
type SessionLog struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"`
	Transcript string        `json:"transcript"`
	Plan       *PlanFragment `json:"plan"`
	Cards      []IssueCard   `json:"cards"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// WeeklySessionLog is the weekly counterpart of SessionLog.
type WeeklySessionLog struct {
	ID         string      `json:"id"`
	WeekStart  string      `json:"weekStart"`
	Transcript string      `json:"transcript"`
	Plan       *WeeklyPlan `json:"plan"`
	CreatedAt  time.Time   `json:"createdAt"`
}
