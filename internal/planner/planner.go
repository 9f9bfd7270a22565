// Package planner runs the capture pipeline: a transcript goes through the generator,
// the resulting card is added to the day's plan and the capture is logged.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/generate"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

// Service wires a plan generator to a store
type Service struct {
	store storage.Provider
	gen   generate.Generator
	now   func() time.Time
}

func New(store storage.Provider, gen generate.Generator) *Service {
	return &Service{
		store: store,
		gen:   gen,
		now:   time.Now,
	}
}

// NewLogID returns prefix followed by a version 7 UUID, so ids sort by creation time
func NewLogID(prefix string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate log id: %w", err)
	}
	return prefix + id.String(), nil
}

// Today returns t's calendar date
func Today(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// WeekStart returns the Monday of the week containing t
func WeekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(constants.DateFormat)
}

// DailyCapture is one voice note to turn into a card
type DailyCapture struct {
	Transcript string
	Date       string
	Limits     string
}

// DailyResult is what CaptureDaily stored
type DailyResult struct {
	Card  models.IssueCard
	Day   models.DayPlan
	LogID string
}

// CaptureDaily generates a card from the transcript, appends it to the day's card list
// and records a session log with the fragment and the resulting card list.
//
// Loading the day and saving it back are separate store calls, so a SetTaskDone on the
// same date between the two is overwritten. The CLI runs one command per process, which
// keeps that window closed in practice.
func (s *Service) CaptureDaily(ctx context.Context, req DailyCapture) (DailyResult, error) {
	if req.Date == "" {
		req.Date = Today(s.now())
	}

	fragment, err := s.gen.GenerateDaily(ctx, generate.DailyRequest{
		Transcript: req.Transcript,
		Date:       req.Date,
		Limits:     req.Limits,
	})
	if err != nil {
		return DailyResult{}, err
	}

	now := s.now().UTC()
	card := models.IssueCard{
		ID:        uuid.NewString(),
		Title:     fragment.CardTitle(),
		CreatedAt: now,
		Plan:      fragment,
	}

	day, found, err := s.store.GetDailyPlan(req.Date)
	if err != nil {
		return DailyResult{}, fmt.Errorf("failed to load plan for %s: %w", req.Date, err)
	}
	if !found {
		day = models.DayPlan{Date: req.Date}
	}
	day.AddCard(card)

	if err := s.store.SaveDailyPlan(day); err != nil {
		return DailyResult{}, fmt.Errorf("failed to save plan for %s: %w", req.Date, err)
	}

	logID, err := NewLogID(constants.DailyLogIDPrefix)
	if err != nil {
		return DailyResult{}, err
	}
	entry := models.SessionLog{
		ID:         logID,
		Date:       req.Date,
		Transcript: req.Transcript,
		Plan:       &fragment,
		Cards:      day.Cards,
		CreatedAt:  now,
	}
	if err := s.store.AppendLog(entry); err != nil {
		return DailyResult{}, fmt.Errorf("plan saved but failed to record session log: %w", err)
	}

	logger.Info("Captured daily card", "date", req.Date, "card", card.ID, "cards", len(day.Cards))
	return DailyResult{Card: card, Day: day, LogID: logID}, nil
}

// WeeklyResult is what CaptureWeekly stored
type WeeklyResult struct {
	Plan  models.WeeklyPlan
	LogID string
}

// CaptureWeekly generates the week's plan, replacing any stored one, and logs the capture
func (s *Service) CaptureWeekly(ctx context.Context, transcript, weekStart string) (WeeklyResult, error) {
	if weekStart == "" {
		weekStart = WeekStart(s.now())
	}

	plan, err := s.gen.GenerateWeekly(ctx, transcript, weekStart)
	if err != nil {
		return WeeklyResult{}, err
	}

	if err := s.store.SaveWeeklyPlan(plan); err != nil {
		return WeeklyResult{}, fmt.Errorf("failed to save weekly plan for %s: %w", weekStart, err)
	}

	logID, err := NewLogID(constants.WeeklyLogIDPrefix)
	if err != nil {
		return WeeklyResult{}, err
	}
	entry := models.WeeklySessionLog{
		ID:         logID,
		WeekStart:  weekStart,
		Transcript: transcript,
		Plan:       &plan,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.AppendWeeklyLog(entry); err != nil {
		return WeeklyResult{}, fmt.Errorf("weekly plan saved but failed to record session log: %w", err)
	}

	logger.Info("Captured weekly plan", "week_start", weekStart)
	return WeeklyResult{Plan: plan, LogID: logID}, nil
}
