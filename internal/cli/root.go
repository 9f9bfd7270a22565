package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayplan/internal/backup"
	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/generate"
	"github.com/julianstephens/dayplan/internal/keyring"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/planner"
	"github.com/julianstephens/dayplan/internal/storage"
	"github.com/julianstephens/dayplan/internal/storage/jsonfile"
	"github.com/julianstephens/dayplan/internal/storage/postgres"
	"github.com/julianstephens/dayplan/internal/storage/sqlite"
)

// KeyringConfig is the --config value that reads the PostgreSQL connection string from
// the environment or the OS keyring
const KeyringConfig = "keyring"

type Context struct {
	Store storage.Provider
	// NewGenerator builds the plan generator on demand so commands that never call the
	// model do not need an API key
	NewGenerator func() (generate.Generator, error)
	// Confirm asks a yes/no question; nil means ask on the terminal
	Confirm func(title, description string) (bool, error)
	Out     io.Writer
	Now     func() time.Time
}

// Stdout returns the command output writer
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Today returns the current time
func (c *Context) Today() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Ask runs the confirmation prompt
func (c *Context) Ask(title, description string) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(title, description)
	}
	return ConfirmPrompt(title, description)
}

// Planner returns a capture service over the current store
func (c *Context) Planner() (*planner.Service, error) {
	if c.NewGenerator == nil {
		return nil, errors.New("no plan generator configured")
	}
	gen, err := c.NewGenerator()
	if err != nil {
		return nil, err
	}
	return planner.New(c.Store, gen), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !IsFileStore(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// IsFileStore reports whether the store lives in a local file the backup manager can copy
func IsFileStore(store storage.Provider) bool {
	switch store.(type) {
	case *sqlite.Store, *jsonfile.Store:
		return true
	default:
		return false
	}
}

// ConfirmPrompt asks a yes/no question on the terminal
func ConfirmPrompt(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// OpenStore picks the backend for a --config value: a PostgreSQL connection string,
// the keyring keyword, a .json file or (by default) a SQLite database.
func OpenStore(config string) (storage.Provider, error) {
	if config == KeyringConfig {
		connStr, source, err := keyring.Resolve(keyring.SecretConnection)
		if err != nil {
			return nil, fmt.Errorf("no connection string in %s or the OS keyring: %w", constants.EnvDBConnection, err)
		}
		if !postgres.IsConnString(connStr) && !strings.Contains(connStr, "host=") {
			return nil, fmt.Errorf("connection string from %s is not a PostgreSQL connection string", source)
		}
		logger.Debug("Using PostgreSQL connection string", "source", source)
		return postgres.New(connStr), nil
	}

	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with '%s keyring set connection' and pass --config=%s, or use .pgpass", err, constants.AppName, KeyringConfig)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return jsonfile.NewStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// NotFoundError is returned when the requested plan does not exist. The process exits
// with status 2 so scripts can tell absence from failure.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for %s", e.Kind, e.Key)
}

func (e *NotFoundError) ExitCode() int {
	return 2
}

// ParseDate accepts YYYY-MM-DD or one of today, yesterday, tomorrow
func ParseDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(constants.DateFormat), nil
	}

	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, today, yesterday or tomorrow", s)
	}
	return t.Format(constants.DateFormat), nil
}

// ParseWeek accepts any YYYY-MM-DD inside the week or one of this, last, next, and
// returns the Monday that starts it
func ParseWeek(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "this":
		return planner.WeekStart(now), nil
	case "last":
		return planner.WeekStart(now.AddDate(0, 0, -7)), nil
	case "next":
		return planner.WeekStart(now.AddDate(0, 0, 7)), nil
	}

	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid week %q, use a YYYY-MM-DD date in the week, this, last or next", s)
	}
	return planner.WeekStart(t), nil
}

// ReadText returns text, or the contents of file when text is empty. A file of "-"
// reads standard input.
func ReadText(text, file string) (string, error) {
	if text != "" {
		return text, nil
	}
	if file == "" {
		return "", errors.New("nothing to read, pass the text or --file")
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		path, perr := ExpandPath(file)
		if perr != nil {
			return "", perr
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return strings.TrimSpace(string(data)), nil
}
