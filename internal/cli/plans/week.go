package plans

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/cli/render"
	"github.com/julianstephens/dayplan/internal/models"
)

type WeekShowCmd struct {
	Week string `arg:"" optional:"" help:"Any date in the week, or this, last, next." default:"this"`
	JSON bool   `help:"Print the stored document as JSON."`
}

func (c *WeekShowCmd) Run(ctx *cli.Context) error {
	weekStart, err := cli.ParseWeek(c.Week, ctx.Today())
	if err != nil {
		return err
	}

	plan, found, err := ctx.Store.GetWeeklyPlan(weekStart)
	if err != nil {
		return err
	}
	if !found {
		return &cli.NotFoundError{Kind: "weekly plan", Key: weekStart}
	}

	if c.JSON {
		return writeJSON(ctx.Stdout(), plan)
	}
	fmt.Fprint(ctx.Stdout(), render.Week(plan))
	return nil
}

// WeekSetCmd replaces a week's document with one read from a file
type WeekSetCmd struct {
	File string `arg:"" help:"JSON file holding the weekly plan; - reads standard input."`
	Week string `help:"Store under the week containing this date instead of the document's own."`
}

func (c *WeekSetCmd) Run(ctx *cli.Context) error {
	var plan models.WeeklyPlan
	if err := readJSON(c.File, &plan); err != nil {
		return err
	}

	if c.Week != "" {
		weekStart, err := cli.ParseWeek(c.Week, ctx.Today())
		if err != nil {
			return err
		}
		plan.WeekStart = weekStart
	}

	if err := ctx.Store.SaveWeeklyPlan(plan); err != nil {
		return fmt.Errorf("failed to save weekly plan: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Saved weekly plan for week of %s\n", plan.WeekStart)
	return nil
}

type WeekDeleteCmd struct {
	Week string `arg:"" help:"Any date in the week, or this, last, next."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *WeekDeleteCmd) Run(ctx *cli.Context) error {
	weekStart, err := cli.ParseWeek(c.Week, ctx.Today())
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Ask(fmt.Sprintf("Delete the weekly plan for %s?", weekStart), "Session logs for the week are kept.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Stdout(), "Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteWeeklyPlan(weekStart); err != nil {
		return fmt.Errorf("failed to delete weekly plan: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Deleted weekly plan for week of %s\n", weekStart)
	return nil
}
