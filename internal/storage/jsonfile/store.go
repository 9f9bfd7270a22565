// Package jsonfile keeps the whole plan store in memory and mirrors it to a single
// JSON file. Every mutating call replaces the file atomically before it returns.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/storage"
)

// image is the in-memory form of the file. Rows keep their raw JSON text so the
// file, the export document and the SQL backends share one shape.
type image struct {
	dailyPlans  map[string]storage.DailyPlanRow
	weeklyPlans map[string]storage.WeeklyPlanRow
	logs        []storage.LogRow
	weeklyLogs  []storage.WeeklyLogRow
}

func newImage() *image {
	return &image{
		dailyPlans:  make(map[string]storage.DailyPlanRow),
		weeklyPlans: make(map[string]storage.WeeklyPlanRow),
	}
}

// imageFrom builds an image from an export document, rejecting duplicate keys the way
// the SQL backends' primary keys would.
func imageFrom(data storage.Export) (*image, error) {
	img := newImage()

	logIDs := make(map[string]struct{}, len(data.Logs))
	for _, row := range data.Logs {
		if _, ok := logIDs[row.ID]; ok {
			return nil, fmt.Errorf("%w: %s", storage.ErrDuplicateLog, row.ID)
		}
		logIDs[row.ID] = struct{}{}
		if row.CardsJSON == "" {
			row.CardsJSON = "[]"
		}
		img.logs = append(img.logs, row)
	}

	for _, row := range data.DailyPlans {
		if _, ok := img.dailyPlans[row.Date]; ok {
			return nil, fmt.Errorf("duplicate daily plan: %s", row.Date)
		}
		img.dailyPlans[row.Date] = row
	}

	for _, row := range data.WeeklyPlans {
		if _, ok := img.weeklyPlans[row.WeekStart]; ok {
			return nil, fmt.Errorf("duplicate weekly plan: %s", row.WeekStart)
		}
		img.weeklyPlans[row.WeekStart] = row
	}

	weeklyIDs := make(map[string]struct{}, len(data.WeeklyLogs))
	for _, row := range data.WeeklyLogs {
		if _, ok := weeklyIDs[row.ID]; ok {
			return nil, fmt.Errorf("%w: %s", storage.ErrDuplicateLog, row.ID)
		}
		weeklyIDs[row.ID] = struct{}{}
		img.weeklyLogs = append(img.weeklyLogs, row)
	}

	return img, nil
}

func (img *image) clone() *image {
	next := newImage()
	for k, v := range img.dailyPlans {
		next.dailyPlans[k] = v
	}
	for k, v := range img.weeklyPlans {
		next.weeklyPlans[k] = v
	}
	next.logs = append([]storage.LogRow(nil), img.logs...)
	next.weeklyLogs = append([]storage.WeeklyLogRow(nil), img.weeklyLogs...)
	return next
}

// export returns the image as an export document with a stable row order
func (img *image) export() storage.Export {
	var data storage.Export

	data.Logs = append(data.Logs, img.logs...)
	sort.Slice(data.Logs, func(i, j int) bool {
		if data.Logs[i].CreatedAt != data.Logs[j].CreatedAt {
			return data.Logs[i].CreatedAt < data.Logs[j].CreatedAt
		}
		return data.Logs[i].ID < data.Logs[j].ID
	})

	for _, row := range img.dailyPlans {
		data.DailyPlans = append(data.DailyPlans, row)
	}
	sort.Slice(data.DailyPlans, func(i, j int) bool { return data.DailyPlans[i].Date < data.DailyPlans[j].Date })

	for _, row := range img.weeklyPlans {
		data.WeeklyPlans = append(data.WeeklyPlans, row)
	}
	sort.Slice(data.WeeklyPlans, func(i, j int) bool { return data.WeeklyPlans[i].WeekStart < data.WeeklyPlans[j].WeekStart })

	data.WeeklyLogs = append(data.WeeklyLogs, img.weeklyLogs...)
	sort.Slice(data.WeeklyLogs, func(i, j int) bool {
		if data.WeeklyLogs[i].CreatedAt != data.WeeklyLogs[j].CreatedAt {
			return data.WeeklyLogs[i].CreatedAt < data.WeeklyLogs[j].CreatedAt
		}
		return data.WeeklyLogs[i].ID < data.WeeklyLogs[j].ID
	})

	data.Normalize()
	return data
}

type Store struct {
	path string

	mu  sync.Mutex
	img *image
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	img := newImage()
	if err := s.write(img); err != nil {
		return err
	}
	s.img = img

	logger.Info("Initialized storage", "path", s.path)
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	if s.img != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w, run '%s init' first", storage.ErrNotInitialized, constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var doc storage.Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	img, err := imageFrom(doc)
	if err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.img = img
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = nil
	return nil
}

// write replaces the file with img: temp file in the same directory, fsync, rename,
// then fsync of the directory. A reader of the path sees either the old or the new
// document, never a partial one.
func (s *Store) write(img *image) error {
	doc := img.export()
	doc.ExportedAt = storage.Now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	// The rename is only durable once the directory entry is flushed
	if err := syncDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to sync storage directory: %w", err)
	}
	return nil
}

// syncDir flushes a directory's entries. Windows cannot fsync a directory handle and
// commits renames itself, so it is a no-op there.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}

func writeAndSync(f *os.File, data []byte) error {
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// view runs fn against the loaded image under the store lock
func (s *Store) view(fn func(img *image) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	return fn(s.img)
}

// update applies fn to a copy of the image, writes the copy and only then makes it
// current. A failed write leaves memory and file on the previous state.
func (s *Store) update(fn func(next *image) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	next := s.img.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.img = next
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
