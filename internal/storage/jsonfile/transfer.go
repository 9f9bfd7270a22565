package jsonfile

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/storage"
)

func (s *Store) ExportAll() (storage.Export, error) {
	var data storage.Export
	err := s.view(func(img *image) error {
		data = img.export()
		return nil
	})
	if err != nil {
		return storage.Export{}, err
	}
	data.ExportedAt = storage.Now()
	return data, nil
}

// ImportAll builds the replacement image off to the side, writes it, and swaps it in
// only after the file rename succeeds.
func (s *Store) ImportAll(data storage.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	shadow, err := imageFrom(data)
	if err != nil {
		return fmt.Errorf("import failed, store unchanged: %w", err)
	}
	if err := s.write(shadow); err != nil {
		return fmt.Errorf("import failed, store unchanged: %w", err)
	}
	s.img = shadow

	logger.Info("Imported store",
		"logs", len(data.Logs),
		"daily_plans", len(data.DailyPlans),
		"weekly_plans", len(data.WeeklyPlans),
		"weekly_logs", len(data.WeeklyLogs),
	)
	return nil
}
