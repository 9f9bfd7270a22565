package storage

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/models"
)

// Mutation changes a loaded daily plan in place before it is written back
type Mutation func(plan *models.DayPlan) error

// TaskDone returns the mutation behind Provider.SetTaskDone
func TaskDone(taskID string, done bool) Mutation {
	return func(plan *models.DayPlan) error {
		if !plan.SetTaskDone(taskID, done) {
			return fmt.Errorf("%w: %s on %s", ErrTaskNotFound, taskID, plan.Date)
		}
		return nil
	}
}

// CardTaskDone returns the mutation behind Provider.SetCardTaskDone
func CardTaskDone(cardID, taskID string, done bool) Mutation {
	return func(plan *models.DayPlan) error {
		cardFound, taskFound := plan.SetCardTaskDone(cardID, taskID, done)
		if !cardFound {
			return fmt.Errorf("%w: %s on %s", ErrCardNotFound, cardID, plan.Date)
		}
		if !taskFound {
			return fmt.Errorf("%w: %s in card %s", ErrTaskNotFound, taskID, cardID)
		}
		return nil
	}
}
