package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/storage"
)

// ExportAll reads every row of every table. Plan and snapshot columns are carried as
// raw text so an import writes them back unchanged.
func (s *Store) ExportAll() (storage.Export, error) {
	db, err := s.DB()
	if err != nil {
		return storage.Export{}, err
	}

	tx, err := db.Begin()
	if err != nil {
		return storage.Export{}, err
	}
	defer tx.Rollback()

	data := storage.Export{ExportedAt: storage.Now()}

	if data.Logs, err = exportLogs(tx); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export logs: %w", err)
	}
	if data.DailyPlans, err = exportDailyPlans(tx); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export daily plans: %w", err)
	}
	if data.WeeklyPlans, err = exportWeeklyPlans(tx); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly plans: %w", err)
	}
	if data.WeeklyLogs, err = exportWeeklyLogs(tx); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly logs: %w", err)
	}

	data.Normalize()
	return data, nil
}

func exportLogs(tx *sql.Tx) ([]storage.LogRow, error) {
	rows, err := tx.Query("SELECT id, date, transcript, plan_json, cards_json, created_at FROM logs ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.LogRow
	for rows.Next() {
		var row storage.LogRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Transcript, &row.PlanJSON, &row.CardsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func exportDailyPlans(tx *sql.Tx) ([]storage.DailyPlanRow, error) {
	rows, err := tx.Query("SELECT date, json, updated_at FROM daily_plans ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.DailyPlanRow
	for rows.Next() {
		var row storage.DailyPlanRow
		if err := rows.Scan(&row.Date, &row.JSON, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func exportWeeklyPlans(tx *sql.Tx) ([]storage.WeeklyPlanRow, error) {
	rows, err := tx.Query("SELECT week_start, json, updated_at FROM weekly_plans ORDER BY week_start")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.WeeklyPlanRow
	for rows.Next() {
		var row storage.WeeklyPlanRow
		if err := rows.Scan(&row.WeekStart, &row.JSON, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func exportWeeklyLogs(tx *sql.Tx) ([]storage.WeeklyLogRow, error) {
	rows, err := tx.Query("SELECT id, week_start, transcript, plan_json, created_at FROM weekly_logs ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.WeeklyLogRow
	for rows.Next() {
		var row storage.WeeklyLogRow
		if err := rows.Scan(&row.ID, &row.WeekStart, &row.Transcript, &row.PlanJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ImportAll replaces the whole store with data. Either every row lands or the store
// is left as it was.
func (s *Store) ImportAll(data storage.Export) error {
	db, err := s.DB()
	if err != nil {
		return err
	}

	if err := importAll(db, data); err != nil {
		return fmt.Errorf("import failed, store unchanged: %w", err)
	}

	logger.Info("Imported store",
		"logs", len(data.Logs),
		"daily_plans", len(data.DailyPlans),
		"weekly_plans", len(data.WeeklyPlans),
		"weekly_logs", len(data.WeeklyLogs),
	)
	return nil
}

func importAll(db *sql.DB, data storage.Export) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"logs", "daily_plans", "weekly_plans", "weekly_logs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, row := range data.Logs {
		cards := row.CardsJSON
		if cards == "" {
			cards = "[]"
		}
		if _, err := tx.Exec(
			"INSERT INTO logs (id, date, transcript, plan_json, cards_json, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			row.ID, row.Date, row.Transcript, row.PlanJSON, cards, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert log %s: %w", row.ID, err)
		}
	}

	for _, row := range data.DailyPlans {
		if _, err := tx.Exec(
			"INSERT INTO daily_plans (date, json, updated_at) VALUES (?, ?, ?)",
			row.Date, row.JSON, row.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert plan %s: %w", row.Date, err)
		}
	}

	for _, row := range data.WeeklyPlans {
		if _, err := tx.Exec(
			"INSERT INTO weekly_plans (week_start, json, updated_at) VALUES (?, ?, ?)",
			row.WeekStart, row.JSON, row.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert weekly plan %s: %w", row.WeekStart, err)
		}
	}

	for _, row := range data.WeeklyLogs {
		if _, err := tx.Exec(
			"INSERT INTO weekly_logs (id, week_start, transcript, plan_json, created_at) VALUES (?, ?, ?, ?, ?)",
			row.ID, row.WeekStart, row.Transcript, row.PlanJSON, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert weekly log %s: %w", row.ID, err)
		}
	}

	return tx.Commit()
}
