package postgres

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

func (s *Store) AppendLog(entry models.SessionLog) error {
	db, err := s.DB()
	if err != nil {
		return err
	}

	row, err := storage.LogToRow(entry)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO logs (id, date, transcript, plan_json, cards_json, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		row.ID, row.Date, row.Transcript, row.PlanJSON, row.CardsJSON, row.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", storage.ErrDuplicateLog, row.ID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to append log %s: %w", row.ID, err)
	}
	return nil
}

func (s *Store) AppendWeeklyLog(entry models.WeeklySessionLog) error {
	db, err := s.DB()
	if err != nil {
		return err
	}

	row, err := storage.WeeklyLogToRow(entry)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO weekly_logs (id, week_start, transcript, plan_json, created_at) VALUES ($1, $2, $3, $4, $5)",
		row.ID, row.WeekStart, row.Transcript, row.PlanJSON, row.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", storage.ErrDuplicateLog, row.ID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to append weekly log %s: %w", row.ID, err)
	}
	return nil
}

func (s *Store) ListLogsByDate(date string) (storage.DayLogs, error) {
	db, err := s.DB()
	if err != nil {
		return storage.DayLogs{}, err
	}

	rows, err := db.Query(
		"SELECT id, date, transcript, plan_json, cards_json, created_at FROM logs WHERE date = $1 ORDER BY created_at DESC, id DESC",
		date,
	)
	if err != nil {
		return storage.DayLogs{}, fmt.Errorf("failed to list logs for %s: %w", date, err)
	}
	defer rows.Close()

	result := storage.DayLogs{Date: date, Logs: []models.SessionLog{}}
	for rows.Next() {
		var row storage.LogRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Transcript, &row.PlanJSON, &row.CardsJSON, &row.CreatedAt); err != nil {
			return storage.DayLogs{}, err
		}
		result.Logs = append(result.Logs, storage.LogFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return storage.DayLogs{}, err
	}

	result.Plan, result.HasPlan, err = getDailyPlan(db, date, false)
	if err != nil {
		return storage.DayLogs{}, err
	}
	return result, nil
}

func (s *Store) ListLogsByWeek(weekStart string) (storage.WeekLogs, error) {
	db, err := s.DB()
	if err != nil {
		return storage.WeekLogs{}, err
	}

	rows, err := db.Query(
		"SELECT id, week_start, transcript, plan_json, created_at FROM weekly_logs WHERE week_start = $1 ORDER BY created_at DESC, id DESC",
		weekStart,
	)
	if err != nil {
		return storage.WeekLogs{}, fmt.Errorf("failed to list weekly logs for %s: %w", weekStart, err)
	}
	defer rows.Close()

	result := storage.WeekLogs{WeekStart: weekStart, Logs: []models.WeeklySessionLog{}}
	for rows.Next() {
		var row storage.WeeklyLogRow
		if err := rows.Scan(&row.ID, &row.WeekStart, &row.Transcript, &row.PlanJSON, &row.CreatedAt); err != nil {
			return storage.WeekLogs{}, err
		}
		result.Logs = append(result.Logs, storage.WeeklyLogFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return storage.WeekLogs{}, err
	}

	result.Plan, result.HasPlan, err = s.GetWeeklyPlan(weekStart)
	if err != nil {
		return storage.WeekLogs{}, err
	}
	return result, nil
}
