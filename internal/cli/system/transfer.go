package system

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/storage"
)

// ExportCmd writes every table of the store to one JSON document
type ExportCmd struct {
	Out string `short:"o" help:"File to write; standard output when empty." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Store.ExportAll()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	encoded = append(encoded, '\n')

	if c.Out == "" {
		_, err := ctx.Stdout().Write(encoded)
		return err
	}

	if err := os.WriteFile(c.Out, encoded, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Exported %d daily plans, %d logs, %d weekly plans, %d weekly logs to %s\n",
		len(data.DailyPlans), len(data.Logs), len(data.WeeklyPlans), len(data.WeeklyLogs), c.Out)
	return nil
}

// ImportCmd replaces the whole store with an export document
type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	var data storage.Export
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%s is not a dayplan export: %w", c.File, err)
	}

	if !c.Yes {
		ok, err := ctx.Ask(
			"Replace all stored plans and logs?",
			fmt.Sprintf("%s holds %d daily plans, %d logs, %d weekly plans and %d weekly logs. Everything currently stored is removed.",
				c.File, len(data.DailyPlans), len(data.Logs), len(data.WeeklyPlans), len(data.WeeklyLogs)),
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.ImportAll(data); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Imported %d daily plans, %d logs, %d weekly plans, %d weekly logs\n",
		len(data.DailyPlans), len(data.Logs), len(data.WeeklyPlans), len(data.WeeklyLogs))
	return nil
}
