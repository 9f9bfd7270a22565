package generate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError lists every problem found in a generated plan
type ValidationError struct {
	Problems []string
	Raw      string
}

func (e *ValidationError) Error() string {
	return "invalid plan: " + strings.Join(e.Problems, "; ")
}

func validateTasks(field string, tasks []models.Task, max int) []string {
	var problems []string
	if len(tasks) > max {
		problems = append(problems, fmt.Sprintf("%s: at most %d tasks allowed, got %d", field, max, len(tasks)))
	}
	for i, task := range tasks {
		path := fmt.Sprintf("%s.%d", field, i)
		if task.ID == "" {
			problems = append(problems, path+".id: must not be empty")
		}
		if strings.TrimSpace(task.Text) == "" {
			problems = append(problems, path+".text: must not be empty")
		}
		if task.EstimateMin <= 0 {
			problems = append(problems, path+".estimateMin: must be a positive integer")
		}
		if strings.TrimSpace(task.DoneDef) == "" {
			problems = append(problems, path+".doneDef: must not be empty")
		}
	}
	return problems
}

func validateAdjustment(field string, adj models.Adjustment) []string {
	switch adj.Type {
	case constants.AdjustmentGoal, constants.AdjustmentResource, constants.AdjustmentDo:
		return nil
	default:
		return []string{fmt.Sprintf("%s.type: must be one of goal, resource, do, got %q", field, adj.Type)}
	}
}

// ValidateDaily checks a generated plan fragment against the upstream limits
func ValidateDaily(plan models.PlanFragment) []string {
	var problems []string
	if !datePattern.MatchString(plan.Date) {
		problems = append(problems, fmt.Sprintf("date: must be YYYY-MM-DD, got %q", plan.Date))
	}
	problems = append(problems, validateTasks("must", plan.Must, constants.MaxDailyMust)...)
	problems = append(problems, validateTasks("should", plan.Should, constants.MaxDailyShould)...)
	problems = append(problems, validateAdjustment("oneAdjustment", plan.OneAdjustment)...)
	if len(plan.Assumptions) > constants.MaxDailyAssumptions {
		problems = append(problems, fmt.Sprintf("assumptions: at most %d allowed, got %d", constants.MaxDailyAssumptions, len(plan.Assumptions)))
	}
	return problems
}

// ValidateWeekly checks a generated weekly plan against the upstream limits
func ValidateWeekly(plan models.WeeklyPlan) []string {
	var problems []string
	if !datePattern.MatchString(plan.WeekStart) {
		problems = append(problems, fmt.Sprintf("weekStart: must be YYYY-MM-DD, got %q", plan.WeekStart))
	}
	if len(plan.Goals) > constants.MaxWeeklyGoals {
		problems = append(problems, fmt.Sprintf("goals: at most %d allowed, got %d", constants.MaxWeeklyGoals, len(plan.Goals)))
	}
	problems = append(problems, validateTasks("must", plan.Must, constants.MaxWeeklyMust)...)
	problems = append(problems, validateTasks("should", plan.Should, constants.MaxWeeklyShould)...)
	problems = append(problems, validateAdjustment("oneAdjustment", plan.OneAdjustment)...)
	return problems
}

// ParseDaily extracts and validates a daily plan fragment from model output. A
// non-empty date overrides whatever date the model wrote.
func ParseDaily(text, date string) (models.PlanFragment, error) {
	var plan models.PlanFragment
	if err := decode(text, &plan); err != nil {
		return models.PlanFragment{}, err
	}
	if date != "" {
		plan.Date = date
	}
	if problems := ValidateDaily(plan); len(problems) > 0 {
		return models.PlanFragment{}, &ValidationError{Problems: problems, Raw: text}
	}
	return plan, nil
}

// ParseWeekly extracts and validates a weekly plan from model output. A non-empty
// weekStart overrides the model's.
func ParseWeekly(text, weekStart string) (models.WeeklyPlan, error) {
	var plan models.WeeklyPlan
	if err := decode(text, &plan); err != nil {
		return models.WeeklyPlan{}, err
	}
	if weekStart != "" {
		plan.WeekStart = weekStart
	}
	if problems := ValidateWeekly(plan); len(problems) > 0 {
		return models.WeeklyPlan{}, &ValidationError{Problems: problems, Raw: text}
	}
	return plan, nil
}

func decode(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}, Raw: text}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ValidationError{Problems: []string{"json: " + err.Error()}, Raw: text}
	}
	return nil
}
