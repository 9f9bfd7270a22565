package models

import "github.com/julianstephens/dayplan/internal/constants"

// Task is a single actionable item inside a plan. Tasks are never stored on their own;
// they only exist nested in a plan document.
type Task struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	EstimateMin int    `json:"estimateMin"`
	DoneDef     string `json:"doneDef"`
	Done        bool   `json:"done"`
}

// Risk is a risk description paired with the signal that shows it is materializing.
type Risk struct {
	Risk   string `json:"risk"`
	Signal string `json:"signal"`
}

type Adjustment struct {
	Type       constants.AdjustmentType `json:"type"`
	Suggestion string                   `json:"suggestion"`
}

// setDone flips the done flag of the first task in tasks with the given id.
func setDone(tasks []Task, taskID string, done bool) bool {
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Done = done
			return true
		}
	}
	return false
}
