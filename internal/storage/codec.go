package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/models"
)

// Now returns the current UTC time formatted for timestamp columns
func Now() string {
	return FormatTime(time.Now())
}

// FormatTime formats t for timestamp columns. The fixed-width UTC form sorts
// lexicographically in time order.
func FormatTime(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTime parses a timestamp column value
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// EncodeDayPlan serializes a daily plan document for storage
func EncodeDayPlan(plan models.DayPlan) (string, error) {
	if plan.Date == "" {
		return "", ErrEmptyKey
	}
	if plan.Cards == nil {
		plan.Cards = []models.IssueCard{}
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan for %s: %w", plan.Date, err)
	}
	return string(data), nil
}

// legacyCardPrefix names the card synthesized from a single-plan document
const legacyCardPrefix = "card-"

// DecodeDayPlan parses a stored daily plan. A document that fails to parse is treated
// as absent. A document without a cards key is the older single-plan shape and decodes
// as a list of exactly one card.
func DecodeDayPlan(date, raw string) (models.DayPlan, bool) {
	var doc struct {
		Cards *json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Warn("Malformed plan document, treating as absent", "date", date, "error", err)
		return models.DayPlan{}, false
	}

	if doc.Cards == nil {
		return decodeSinglePlan(date, raw)
	}

	var plan models.DayPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		logger.Warn("Malformed plan document, treating as absent", "date", date, "error", err)
		return models.DayPlan{}, false
	}
	return plan, true
}

func decodeSinglePlan(date, raw string) (models.DayPlan, bool) {
	var fragment models.PlanFragment
	if err := json.Unmarshal([]byte(raw), &fragment); err != nil {
		logger.Warn("Malformed plan document, treating as absent", "date", date, "error", err)
		return models.DayPlan{}, false
	}

	plan := models.DayPlan{Date: date, Cards: []models.IssueCard{}}
	if fragment.IsEmpty() {
		return plan, true
	}
	if fragment.Date == "" {
		fragment.Date = date
	}

	plan.Cards = append(plan.Cards, models.IssueCard{
		ID:    legacyCardPrefix + date,
		Title: fragment.CardTitle(),
		Plan:  fragment,
	})
	return plan, true
}

// EncodeWeeklyPlan serializes a weekly plan document for storage
func EncodeWeeklyPlan(plan models.WeeklyPlan) (string, error) {
	if plan.WeekStart == "" {
		return "", ErrEmptyKey
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to encode weekly plan for %s: %w", plan.WeekStart, err)
	}
	return string(data), nil
}

// DecodeWeeklyPlan parses a stored weekly plan. A document that fails to parse is
// treated as absent.
func DecodeWeeklyPlan(weekStart, raw string) (models.WeeklyPlan, bool) {
	var plan models.WeeklyPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		logger.Warn("Malformed weekly plan document, treating as absent", "week_start", weekStart, "error", err)
		return models.WeeklyPlan{}, false
	}
	return plan, true
}

// LogToRow converts a session log to its stored row form. A zero CreatedAt is set to now.
func LogToRow(entry models.SessionLog) (LogRow, error) {
	if entry.ID == "" || entry.Date == "" {
		return LogRow{}, ErrEmptyKey
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	row := LogRow{
		ID:         entry.ID,
		Date:       entry.Date,
		Transcript: entry.Transcript,
		CreatedAt:  FormatTime(entry.CreatedAt),
	}

	if entry.Plan != nil {
		data, err := json.Marshal(entry.Plan)
		if err != nil {
			return LogRow{}, fmt.Errorf("failed to encode log plan %s: %w", entry.ID, err)
		}
		s := string(data)
		row.PlanJSON = &s
	}

	cards := entry.Cards
	if cards == nil {
		cards = []models.IssueCard{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return LogRow{}, fmt.Errorf("failed to encode log cards %s: %w", entry.ID, err)
	}
	row.CardsJSON = string(data)

	return row, nil
}

// LogFromRow converts a stored row to a session log. Snapshots that fail to parse are
// dropped; the log itself is kept.
func LogFromRow(row LogRow) models.SessionLog {
	entry := models.SessionLog{
		ID:         row.ID,
		Date:       row.Date,
		Transcript: row.Transcript,
	}

	if t, err := ParseTime(row.CreatedAt); err == nil {
		entry.CreatedAt = t
	} else {
		logger.Warn("Malformed log timestamp", "id", row.ID, "error", err)
	}

	if row.PlanJSON != nil {
		var plan models.PlanFragment
		if err := json.Unmarshal([]byte(*row.PlanJSON), &plan); err != nil {
			logger.Warn("Malformed log plan snapshot", "id", row.ID, "error", err)
		} else if *row.PlanJSON != "null" {
			entry.Plan = &plan
		}
	}

	if row.CardsJSON != "" {
		if err := json.Unmarshal([]byte(row.CardsJSON), &entry.Cards); err != nil {
			logger.Warn("Malformed log card snapshot", "id", row.ID, "error", err)
			entry.Cards = nil
		}
	}

	return entry
}

// WeeklyLogToRow converts a weekly session log to its stored row form
func WeeklyLogToRow(entry models.WeeklySessionLog) (WeeklyLogRow, error) {
	if entry.ID == "" || entry.WeekStart == "" {
		return WeeklyLogRow{}, ErrEmptyKey
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	row := WeeklyLogRow{
		ID:         entry.ID,
		WeekStart:  entry.WeekStart,
		Transcript: entry.Transcript,
		CreatedAt:  FormatTime(entry.CreatedAt),
	}

	if entry.Plan != nil {
		data, err := json.Marshal(entry.Plan)
		if err != nil {
			return WeeklyLogRow{}, fmt.Errorf("failed to encode weekly log plan %s: %w", entry.ID, err)
		}
		s := string(data)
		row.PlanJSON = &s
	}

	return row, nil
}

// WeeklyLogFromRow converts a stored row to a weekly session log
func WeeklyLogFromRow(row WeeklyLogRow) models.WeeklySessionLog {
	entry := models.WeeklySessionLog{
		ID:         row.ID,
		WeekStart:  row.WeekStart,
		Transcript: row.Transcript,
	}

	if t, err := ParseTime(row.CreatedAt); err == nil {
		entry.CreatedAt = t
	} else {
		logger.Warn("Malformed weekly log timestamp", "id", row.ID, "error", err)
	}

	if row.PlanJSON != nil {
		var plan models.WeeklyPlan
		if err := json.Unmarshal([]byte(*row.PlanJSON), &plan); err != nil {
			logger.Warn("Malformed weekly log plan snapshot", "id", row.ID, "error", err)
		} else if *row.PlanJSON != "null" {
			entry.Plan = &plan
		}
	}

	return entry
}
