package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dayplan/internal/cli"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Store path or connection string to copy all data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	if c.Force {
		if !cli.IsFileStore(ctx.Store) {
			return fmt.Errorf("--force only applies to file stores")
		}
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			for _, ext := range []string{"-wal", "-shm"} {
				_ = os.Remove(dbPath + ext)
			}
			fmt.Fprintf(out, "Deleted existing store at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized dayplan storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(out, "Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Fprintln(out, "Copy completed successfully!")
	}

	return nil
}

// copyData replaces the new store's contents with everything in the source store
func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	data, err := source.ExportAll()
	if err != nil {
		return fmt.Errorf("failed to export source store: %w", err)
	}
	if err := ctx.Store.ImportAll(data); err != nil {
		return err
	}

	out := ctx.Stdout()
	fmt.Fprintf(out, "  Copied %d daily plans\n", len(data.DailyPlans))
	fmt.Fprintf(out, "  Copied %d session logs\n", len(data.Logs))
	fmt.Fprintf(out, "  Copied %d weekly plans\n", len(data.WeeklyPlans))
	fmt.Fprintf(out, "  Copied %d weekly session logs\n", len(data.WeeklyLogs))
	return nil
}
