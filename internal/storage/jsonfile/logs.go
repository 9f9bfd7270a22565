package jsonfile

import (
	"fmt"
	"sort"

	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

func (s *Store) AppendLog(entry models.SessionLog) error {
	row, err := storage.LogToRow(entry)
	if err != nil {
		return err
	}

	return s.update(func(next *image) error {
		for _, existing := range next.logs {
			if existing.ID == row.ID {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateLog, row.ID)
			}
		}
		next.logs = append(next.logs, row)
		return nil
	})
}

func (s *Store) AppendWeeklyLog(entry models.WeeklySessionLog) error {
	row, err := storage.WeeklyLogToRow(entry)
	if err != nil {
		return err
	}

	return s.update(func(next *image) error {
		for _, existing := range next.weeklyLogs {
			if existing.ID == row.ID {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateLog, row.ID)
			}
		}
		next.weeklyLogs = append(next.weeklyLogs, row)
		return nil
	})
}

// newestFirst orders by creation time descending, then id descending
func newestFirst(createdI, createdJ, idI, idJ string) bool {
	if createdI != createdJ {
		return createdI > createdJ
	}
	return idI > idJ
}

func (s *Store) ListLogsByDate(date string) (storage.DayLogs, error) {
	result := storage.DayLogs{Date: date, Logs: []models.SessionLog{}}

	err := s.view(func(img *image) error {
		var rows []storage.LogRow
		for _, row := range img.logs {
			if row.Date == date {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			return newestFirst(rows[i].CreatedAt, rows[j].CreatedAt, rows[i].ID, rows[j].ID)
		})
		for _, row := range rows {
			result.Logs = append(result.Logs, storage.LogFromRow(row))
		}

		result.Plan, result.HasPlan = img.dailyPlan(date)
		return nil
	})
	if err != nil {
		return storage.DayLogs{}, err
	}
	return result, nil
}

func (s *Store) ListLogsByWeek(weekStart string) (storage.WeekLogs, error) {
	result := storage.WeekLogs{WeekStart: weekStart, Logs: []models.WeeklySessionLog{}}

	err := s.view(func(img *image) error {
		var rows []storage.WeeklyLogRow
		for _, row := range img.weeklyLogs {
			if row.WeekStart == weekStart {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			return newestFirst(rows[i].CreatedAt, rows[j].CreatedAt, rows[i].ID, rows[j].ID)
		})
		for _, row := range rows {
			result.Logs = append(result.Logs, storage.WeeklyLogFromRow(row))
		}

		result.Plan, result.HasPlan = img.weeklyPlan(weekStart)
		return nil
	})
	if err != nil {
		return storage.WeekLogs{}, err
	}
	return result, nil
}
