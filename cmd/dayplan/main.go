package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/cli/backups"
	"github.com/julianstephens/dayplan/internal/cli/plans"
	"github.com/julianstephens/dayplan/internal/cli/system"
	"github.com/julianstephens/dayplan/internal/constants"
	apperrors "github.com/julianstephens/dayplan/internal/errors"
	"github.com/julianstephens/dayplan/internal/generate"
	"github.com/julianstephens/dayplan/internal/keyring"
	"github.com/julianstephens/dayplan/internal/logger"
	"github.com/julianstephens/dayplan/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store location: a SQLite file, a .json file, a PostgreSQL connection string without a password, or 'keyring' to read the connection string from DAYPLAN_DB_CONNECTION or the OS keyring." env:"DAYPLAN_DB" default:"${config}"`
	Debug   bool   `help:"Log debug output to stderr." env:"DAYPLAN_DEBUG"`
	Model   string `help:"Model used to generate plans." env:"DAYPLAN_MODEL" default:"${model}"`

	Init    system.InitCmd    `cmd:"" help:"Initialize dayplan storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Capture plans.CaptureCmd  `cmd:"" help:"Turn a transcript into a new card on a day's plan."`
	Day     struct {
		Show plans.DayShowCmd `cmd:"" help:"Show the plan for a day." default:"withargs"`
		Set  plans.DaySetCmd  `cmd:"" help:"Replace a day's plan with a JSON document."`
	} `cmd:"" help:"Show or replace daily plans."`
	Task struct {
		Done plans.TaskDoneCmd `cmd:"" help:"Mark a task as done."`
	} `cmd:"" help:"Update tasks in a day's plan."`
	Week struct {
		Show    plans.WeekShowCmd    `cmd:"" help:"Show a weekly plan." default:"withargs"`
		Capture plans.CaptureWeekCmd `cmd:"" help:"Turn a transcript into the week's plan."`
		Set     plans.WeekSetCmd     `cmd:"" help:"Replace a week's plan with a JSON document."`
		Delete  plans.WeekDeleteCmd  `cmd:"" help:"Delete a weekly plan."`
	} `cmd:"" help:"Manage weekly plans."`
	Log struct {
		List plans.LogListCmd `cmd:"" help:"List sessions for a day or week." default:"withargs"`
		Add  plans.LogAddCmd  `cmd:"" help:"Record a session without generating a plan."`
	} `cmd:"" help:"Session history."`
	Export system.ExportCmd `cmd:"" help:"Export the whole store as JSON."`
	Import system.ImportCmd `cmd:"" help:"Replace the whole store with an export."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored secrets."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

// needsStore reports whether the selected command works on a loaded store. Init loads
// its own and keyring commands never touch it.
func needsStore(command string) bool {
	return command != "init" && !strings.HasPrefix(command, "keyring ")
}

// logDir keeps logs next to a file store, or in the default config directory
func logDir(config string) string {
	if config != cli.KeyringConfig && !postgres.IsConnString(config) {
		if path, err := cli.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	path, _ := cli.ExpandPath(constants.DefaultConfigPath)
	return filepath.Dir(path)
}

func newGenerator(model string) func() (generate.Generator, error) {
	return func() (generate.Generator, error) {
		apiKey, source, err := keyring.Resolve(keyring.SecretAnthropicKey)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no Anthropic API key: set %s or run '%s keyring set %s <key>'",
					constants.EnvAnthropicKey, constants.AppName, keyring.SecretAnthropicKey)
			}
			return nil, err
		}
		logger.Debug("Using Anthropic API key", "source", source, "model", model)
		return generate.New(generate.NewAnthropic(apiKey, model)), nil
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Rolling PDCA daily and weekly planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
			"model":   constants.DefaultModel,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(CLI.Config)}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:        store,
		NewGenerator: newGenerator(CLI.Model),
	}

	// Load the store before running the command (init handles its own loading)
	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
