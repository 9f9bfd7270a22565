package jsonfile

import (
	"errors"

	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

func (s *Store) GetDailyPlan(date string) (models.DayPlan, bool, error) {
	var (
		plan models.DayPlan
		ok   bool
	)
	err := s.view(func(img *image) error {
		plan, ok = img.dailyPlan(date)
		return nil
	})
	return plan, ok, err
}

func (img *image) dailyPlan(date string) (models.DayPlan, bool) {
	row, ok := img.dailyPlans[date]
	if !ok {
		return models.DayPlan{}, false
	}
	return storage.DecodeDayPlan(date, row.JSON)
}

func (img *image) putDailyPlan(plan models.DayPlan) error {
	raw, err := storage.EncodeDayPlan(plan)
	if err != nil {
		return err
	}
	img.dailyPlans[plan.Date] = storage.DailyPlanRow{Date: plan.Date, JSON: raw, UpdatedAt: storage.Now()}
	return nil
}

func (s *Store) SaveDailyPlan(plan models.DayPlan) error {
	return s.update(func(next *image) error {
		return next.putDailyPlan(plan)
	})
}

func (s *Store) SetTaskDone(date, taskID string, done bool) (models.DayPlan, bool, error) {
	return s.mutateDay(date, storage.TaskDone(taskID, done))
}

func (s *Store) SetCardTaskDone(date, cardID, taskID string, done bool) (models.DayPlan, bool, error) {
	return s.mutateDay(date, storage.CardTaskDone(cardID, taskID, done))
}

// errNoPlan aborts an update for a day with no stored plan so nothing is written
var errNoPlan = errors.New("no plan")

// mutateDay holds the store lock from the read through the file write
func (s *Store) mutateDay(date string, mutate storage.Mutation) (models.DayPlan, bool, error) {
	var (
		plan  models.DayPlan
		found bool
	)
	err := s.update(func(next *image) error {
		plan, found = next.dailyPlan(date)
		if !found {
			return errNoPlan
		}
		if err := mutate(&plan); err != nil {
			return err
		}
		return next.putDailyPlan(plan)
	})
	if errors.Is(err, errNoPlan) {
		return models.DayPlan{}, false, nil
	}
	if err != nil {
		return models.DayPlan{}, found, err
	}
	return plan, true, nil
}

func (s *Store) GetWeeklyPlan(weekStart string) (models.WeeklyPlan, bool, error) {
	var (
		plan models.WeeklyPlan
		ok   bool
	)
	err := s.view(func(img *image) error {
		plan, ok = img.weeklyPlan(weekStart)
		return nil
	})
	return plan, ok, err
}

func (img *image) weeklyPlan(weekStart string) (models.WeeklyPlan, bool) {
	row, ok := img.weeklyPlans[weekStart]
	if !ok {
		return models.WeeklyPlan{}, false
	}
	return storage.DecodeWeeklyPlan(weekStart, row.JSON)
}

func (s *Store) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	raw, err := storage.EncodeWeeklyPlan(plan)
	if err != nil {
		return err
	}
	return s.update(func(next *image) error {
		next.weeklyPlans[plan.WeekStart] = storage.WeeklyPlanRow{WeekStart: plan.WeekStart, JSON: raw, UpdatedAt: storage.Now()}
		return nil
	})
}

func (s *Store) DeleteWeeklyPlan(weekStart string) error {
	return s.update(func(next *image) error {
		delete(next.weeklyPlans, weekStart)
		return nil
	})
}
