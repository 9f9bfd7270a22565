package postgres

import (
	"context"
	"database/sql"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/storage"
)

func (s *Store) ExportAll() (storage.Export, error) {
	db, err := s.DB()
	if err != nil {
		return storage.Export{}, err
	}

	// Repeatable read gives the four table scans one snapshot
	tx, err := db.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return storage.Export{}, err
	}
	defer tx.Rollback()

	data := storage.Export{ExportedAt: storage.Now()}

	rows, err := tx.Query("SELECT id, date, transcript, plan_json, cards_json, created_at FROM logs ORDER BY created_at, id")
	if err != nil {
		return storage.Export{}, fmt.Errorf("failed to export logs: %w", err)
	}
	for rows.Next() {
		var row storage.LogRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Transcript, &row.PlanJSON, &row.CardsJSON, &row.CreatedAt); err != nil {
			rows.Close()
			return storage.Export{}, err
		}
		data.Logs = append(data.Logs, row)
	}
	if err := closeRows(rows); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export logs: %w", err)
	}

	rows, err = tx.Query("SELECT date, json, updated_at FROM daily_plans ORDER BY date")
	if err != nil {
		return storage.Export{}, fmt.Errorf("failed to export daily plans: %w", err)
	}
	for rows.Next() {
		var row storage.DailyPlanRow
		if err := rows.Scan(&row.Date, &row.JSON, &row.UpdatedAt); err != nil {
			rows.Close()
			return storage.Export{}, err
		}
		data.DailyPlans = append(data.DailyPlans, row)
	}
	if err := closeRows(rows); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export daily plans: %w", err)
	}

	rows, err = tx.Query("SELECT week_start, json, updated_at FROM weekly_plans ORDER BY week_start")
	if err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly plans: %w", err)
	}
	for rows.Next() {
		var row storage.WeeklyPlanRow
		if err := rows.Scan(&row.WeekStart, &row.JSON, &row.UpdatedAt); err != nil {
			rows.Close()
			return storage.Export{}, err
		}
		data.WeeklyPlans = append(data.WeeklyPlans, row)
	}
	if err := closeRows(rows); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly plans: %w", err)
	}

	rows, err = tx.Query("SELECT id, week_start, transcript, plan_json, created_at FROM weekly_logs ORDER BY created_at, id")
	if err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly logs: %w", err)
	}
	for rows.Next() {
		var row storage.WeeklyLogRow
		if err := rows.Scan(&row.ID, &row.WeekStart, &row.Transcript, &row.PlanJSON, &row.CreatedAt); err != nil {
			rows.Close()
			return storage.Export{}, err
		}
		data.WeeklyLogs = append(data.WeeklyLogs, row)
	}
	if err := closeRows(rows); err != nil {
		return storage.Export{}, fmt.Errorf("failed to export weekly logs: %w", err)
	}

	data.Normalize()
	return data, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

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

// importAll truncates every table and bulk loads the payload with COPY, all in one
// transaction.
func importAll(db *sql.DB, data storage.Export) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE logs, daily_plans, weekly_plans, weekly_logs"); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	logRows := make([][]any, 0, len(data.Logs))
	for _, row := range data.Logs {
		cards := row.CardsJSON
		if cards == "" {
			cards = "[]"
		}
		logRows = append(logRows, []any{row.ID, row.Date, row.Transcript, row.PlanJSON, cards, row.CreatedAt})
	}
	if err := copyRows(tx, "logs", []string{"id", "date", "transcript", "plan_json", "cards_json", "created_at"}, logRows); err != nil {
		return err
	}

	planRows := make([][]any, 0, len(data.DailyPlans))
	for _, row := range data.DailyPlans {
		planRows = append(planRows, []any{row.Date, row.JSON, row.UpdatedAt})
	}
	if err := copyRows(tx, "daily_plans", []string{"date", "json", "updated_at"}, planRows); err != nil {
		return err
	}

	weekRows := make([][]any, 0, len(data.WeeklyPlans))
	for _, row := range data.WeeklyPlans {
		weekRows = append(weekRows, []any{row.WeekStart, row.JSON, row.UpdatedAt})
	}
	if err := copyRows(tx, "weekly_plans", []string{"week_start", "json", "updated_at"}, weekRows); err != nil {
		return err
	}

	weekLogRows := make([][]any, 0, len(data.WeeklyLogs))
	for _, row := range data.WeeklyLogs {
		weekLogRows = append(weekLogRows, []any{row.ID, row.WeekStart, row.Transcript, row.PlanJSON, row.CreatedAt})
	}
	if err := copyRows(tx, "weekly_logs", []string{"id", "week_start", "transcript", "plan_json", "created_at"}, weekLogRows); err != nil {
		return err
	}

	return tx.Commit()
}

func copyRows(tx *sql.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return fmt.Errorf("failed to copy into %s: %w", table, err)
		}
	}

	// The final empty Exec flushes the buffered rows; constraint errors surface here
	if _, err := stmt.Exec(); err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return nil
}
