package plans

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/cli/render"
	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/planner"
)

type LogListCmd struct {
	Date string `help:"Date to list (YYYY-MM-DD, today, yesterday)." default:"today"`
	Week string `help:"List weekly sessions for the week containing this date, or this, last, next. Takes precedence over --date."`
	JSON bool   `help:"Print the logs and current plan as JSON."`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	if c.Week != "" {
		weekStart, err := cli.ParseWeek(c.Week, ctx.Today())
		if err != nil {
			return err
		}
		result, err := ctx.Store.ListLogsByWeek(weekStart)
		if err != nil {
			return err
		}
		if c.JSON {
			return writeJSON(out, result)
		}
		fmt.Fprint(out, render.WeekLogs(weekStart, result.Logs))
		return nil
	}

	date, err := cli.ParseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}
	result, err := ctx.Store.ListLogsByDate(date)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(out, result)
	}
	fmt.Fprint(out, render.DayLogs(date, result.Logs))
	return nil
}

// LogAddCmd records a session without generating a plan, e.g. a note about the day.
// The log snapshots the day's current cards.
type LogAddCmd struct {
	Transcript string `arg:"" optional:"" help:"Transcript text."`
	File       string `short:"f" help:"Read the transcript from a file; - reads standard input."`
	Date       string `help:"Date of the session (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	text, err := cli.ReadText(c.Transcript, c.File)
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	day, _, err := ctx.Store.GetDailyPlan(date)
	if err != nil {
		return err
	}

	id, err := planner.NewLogID(constants.DailyLogIDPrefix)
	if err != nil {
		return err
	}
	entry := models.SessionLog{
		ID:         id,
		Date:       date,
		Transcript: text,
		Cards:      day.Cards,
		CreatedAt:  ctx.Today(),
	}
	if err := ctx.Store.AppendLog(entry); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Recorded session %s on %s\n", id, date)
	return nil
}
