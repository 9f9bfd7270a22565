package plans

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/models"
)

type TaskDoneCmd struct {
	TaskID string `arg:"" help:"Task id, e.g. t1."`
	Date   string `help:"Date of the plan (YYYY-MM-DD, today, yesterday)." default:"today"`
	Card   string `help:"Only look in the card with this id."`
	Undo   bool   `help:"Mark the task as not done."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	done := !c.Undo
	var plan models.DayPlan
	var found bool
	if c.Card != "" {
		plan, found, err = ctx.Store.SetCardTaskDone(date, c.Card, c.TaskID, done)
	} else {
		plan, found, err = ctx.Store.SetTaskDone(date, c.TaskID, done)
	}
	if err != nil {
		return err
	}
	if !found {
		return &cli.NotFoundError{Kind: "plan", Key: date}
	}

	state := "done"
	if c.Undo {
		state = "not done"
	}
	total, completed := plan.Tasks()
	fmt.Fprintf(ctx.Stdout(), "✓ Marked %s as %s (%d/%d done on %s)\n", c.TaskID, state, completed, total, date)
	return nil
}
