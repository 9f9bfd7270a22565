package plans

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/cli/render"
	"github.com/julianstephens/dayplan/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(file string, v any) error {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

type DayShowCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	JSON bool   `help:"Print the stored document as JSON."`
}

func (c *DayShowCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	plan, found, err := ctx.Store.GetDailyPlan(date)
	if err != nil {
		return err
	}
	if !found {
		return &cli.NotFoundError{Kind: "plan", Key: date}
	}

	if c.JSON {
		return writeJSON(ctx.Stdout(), plan)
	}
	fmt.Fprint(ctx.Stdout(), render.Day(plan))
	return nil
}

// DaySetCmd replaces a day's document with one read from a file
type DaySetCmd struct {
	File string `arg:"" help:"JSON file holding the day document ({date, cards}); - reads standard input."`
	Date string `help:"Store under this date instead of the document's own."`
}

func (c *DaySetCmd) Run(ctx *cli.Context) error {
	var plan models.DayPlan
	if err := readJSON(c.File, &plan); err != nil {
		return err
	}

	if c.Date != "" {
		date, err := cli.ParseDate(c.Date, ctx.Today())
		if err != nil {
			return err
		}
		plan.Date = date
	}

	if err := ctx.Store.SaveDailyPlan(plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Saved plan for %s (%d cards)\n", plan.Date, len(plan.Cards))
	return nil
}
