// Package generate turns a transcript into a structured plan using a language model.
// Output is validated against the plan limits and regenerated once with a stricter
// prompt when it does not pass.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/models"
)

// DailyRequest is the input for one daily capture
type DailyRequest struct {
	Transcript string
	Date       string
	// Limits is optional free text describing constraints for the day
	Limits string
}

// Generator produces validated plans from transcripts
type Generator interface {
	GenerateDaily(ctx context.Context, req DailyRequest) (models.PlanFragment, error)
	GenerateWeekly(ctx context.Context, transcript, weekStart string) (models.WeeklyPlan, error)
}

// Completer sends one system + user prompt pair to a model and returns its text
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLM implements Generator on top of any Completer
type LLM struct {
	completer Completer
	tries     int
}

func New(completer Completer) *LLM {
	return &LLM{
		completer: completer,
		tries:     constants.MaxGenerateTries,
	}
}

func (g *LLM) GenerateDaily(ctx context.Context, req DailyRequest) (models.PlanFragment, error) {
	if req.Transcript == "" {
		return models.PlanFragment{}, errors.New("transcript is empty")
	}

	var plan models.PlanFragment
	err := g.run(ctx, dailySystemPrompt, dailyUserPrompt(req.Transcript, req.Date, req.Limits), req.Transcript, func(text string) error {
		var err error
		plan, err = ParseDaily(text, req.Date)
		return err
	})
	return plan, err
}

func (g *LLM) GenerateWeekly(ctx context.Context, transcript, weekStart string) (models.WeeklyPlan, error) {
	if transcript == "" {
		return models.WeeklyPlan{}, errors.New("transcript is empty")
	}

	var plan models.WeeklyPlan
	err := g.run(ctx, weeklySystemPrompt, weeklyUserPrompt(transcript, weekStart), transcript, func(text string) error {
		var err error
		plan, err = ParseWeekly(text, weekStart)
		return err
	})
	return plan, err
}

// run asks the model until parse accepts the output or tries run out. Only validation
// failures are retried; transport errors return immediately.
func (g *LLM) run(ctx context.Context, system, user, transcript string, parse func(string) error) error {
	strict := system + strictSuffix

	var lastErr error
	for attempt := 1; attempt <= g.tries; attempt++ {
		text, err := g.completer.Complete(ctx, system, user)
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}

		err = parse(text)
		if err == nil {
			logger.Debug("Generated plan", "attempt", attempt)
			return nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		logger.Warn("Generated plan failed validation", "attempt", attempt, "problems", verr.Problems)

		lastErr = err
		system = strict
		user = retryPrompt(transcript, verr.Problems)
	}
	return lastErr
}
