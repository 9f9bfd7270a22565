package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/migration"
	"github.com/julianstephens/dayplan/internal/storage"
	"github.com/julianstephens/dayplan/migrations"
)

// cardsColumnVersion is the migration that adds logs.cards_json. Databases written by
// earlier releases may already carry the column.
const cardsColumnVersion = 2

// Store is the SQLite-backed plan store. One Store owns one *sql.DB for the life of
// the process.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn enables WAL and a busy timeout so writes are durable on return without an
// explicit flush.
func dsn(path string) string {
	return path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=synchronous(normal)"
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes every statement and transaction
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := open(s.path)
		if err != nil {
			return err
		}
		s.db = db
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Initialized storage", "path", s.path)
	return nil
}

// Load opens the existing database on first call and brings an older schema up to
// date; later calls return immediately. Concurrent first calls settle on one handle.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("%w, run '%s init' first", storage.ErrNotInitialized, constants.AppName)
	}

	db, err := open(s.path)
	if err != nil {
		return err
	}

	if err := s.upgradeSchema(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the shared handle, loading the store on first use
func (s *Store) DB() (*sql.DB, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db, nil
}

func (s *Store) runner(db *sql.DB) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	return migration.NewRunner(db, subFS, migration.DriverSQLite).
		SkipIf(cardsColumnVersion, func(tx *sql.Tx) (bool, error) {
			return columnExists(tx, "logs", "cards_json")
		}), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner(s.db)
	if err != nil {
		return err
	}

	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// Migrate applies pending migrations to an existing database and returns how many ran
func (s *Store) Migrate(logFn func(string)) (int, error) {
	db, err := s.DB()
	if err != nil {
		return 0, err
	}
	runner, err := s.runner(db)
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

// upgradeSchema applies pending additive migrations. A database with no recorded
// version has never been initialized; one newer than this binary is rejected.
func (s *Store) upgradeSchema(db *sql.DB) error {
	runner, err := s.runner(db)
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("%w, run '%s init' first", storage.ErrNotInitialized, constants.AppName)
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}

	applied, err := runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to upgrade schema, run '%s migrate': %w", constants.AppName, err)
	}
	if applied > 0 {
		logger.Info("Upgraded database schema", "path", s.path, "migrations", applied)
	}
	return nil
}

// columnExists checks whether table has a column with the given name
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	var count int
	err := tx.QueryRow("SELECT count(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load
func (s *Store) GetDB() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}
