package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *Store) GetDailyPlan(date string) (models.DayPlan, bool, error) {
	db, err := s.DB()
	if err != nil {
		return models.DayPlan{}, false, err
	}
	return getDailyPlan(db, date)
}

func getDailyPlan(q querier, date string) (models.DayPlan, bool, error) {
	var raw string
	err := q.QueryRow("SELECT json FROM daily_plans WHERE date = ?", date).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayPlan{}, false, nil
	}
	if err != nil {
		return models.DayPlan{}, false, fmt.Errorf("failed to get plan for %s: %w", date, err)
	}

	plan, ok := storage.DecodeDayPlan(date, raw)
	return plan, ok, nil
}

func (s *Store) SaveDailyPlan(plan models.DayPlan) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	return saveDailyPlan(db, plan)
}

func saveDailyPlan(q querier, plan models.DayPlan) error {
	raw, err := storage.EncodeDayPlan(plan)
	if err != nil {
		return err
	}

	_, err = q.Exec(`
		INSERT INTO daily_plans (date, json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET json = excluded.json, updated_at = excluded.updated_at`,
		plan.Date, raw, storage.Now())
	if err != nil {
		return fmt.Errorf("failed to save plan for %s: %w", plan.Date, err)
	}
	return nil
}

func (s *Store) SetTaskDone(date, taskID string, done bool) (models.DayPlan, bool, error) {
	return s.mutateDay(date, storage.TaskDone(taskID, done))
}

func (s *Store) SetCardTaskDone(date, cardID, taskID string, done bool) (models.DayPlan, bool, error) {
	return s.mutateDay(date, storage.CardTaskDone(cardID, taskID, done))
}

// mutateDay loads, mutates and rewrites one day inside a single transaction
func (s *Store) mutateDay(date string, mutate storage.Mutation) (models.DayPlan, bool, error) {
	db, err := s.DB()
	if err != nil {
		return models.DayPlan{}, false, err
	}

	tx, err := db.Begin()
	if err != nil {
		return models.DayPlan{}, false, err
	}
	defer tx.Rollback()

	plan, ok, err := getDailyPlan(tx, date)
	if err != nil || !ok {
		return models.DayPlan{}, false, err
	}

	if err := mutate(&plan); err != nil {
		return models.DayPlan{}, true, err
	}

	if err := saveDailyPlan(tx, plan); err != nil {
		return models.DayPlan{}, true, err
	}

	if err := tx.Commit(); err != nil {
		return models.DayPlan{}, true, fmt.Errorf("failed to commit task update for %s: %w", date, err)
	}
	return plan, true, nil
}

func (s *Store) GetWeeklyPlan(weekStart string) (models.WeeklyPlan, bool, error) {
	db, err := s.DB()
	if err != nil {
		return models.WeeklyPlan{}, false, err
	}

	var raw string
	err = db.QueryRow("SELECT json FROM weekly_plans WHERE week_start = ?", weekStart).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeeklyPlan{}, false, nil
	}
	if err != nil {
		return models.WeeklyPlan{}, false, fmt.Errorf("failed to get weekly plan for %s: %w", weekStart, err)
	}

	plan, ok := storage.DecodeWeeklyPlan(weekStart, raw)
	return plan, ok, nil
}

func (s *Store) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	db, err := s.DB()
	if err != nil {
		return err
	}

	raw, err := storage.EncodeWeeklyPlan(plan)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO weekly_plans (week_start, json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(week_start) DO UPDATE SET json = excluded.json, updated_at = excluded.updated_at`,
		plan.WeekStart, raw, storage.Now())
	if err != nil {
		return fmt.Errorf("failed to save weekly plan for %s: %w", plan.WeekStart, err)
	}
	return nil
}

func (s *Store) DeleteWeeklyPlan(weekStart string) error {
	db, err := s.DB()
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM weekly_plans WHERE week_start = ?", weekStart); err != nil {
		return fmt.Errorf("failed to delete weekly plan for %s: %w", weekStart, err)
	}
	return nil
}
