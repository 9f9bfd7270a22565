package plans

import (
	"context"
	"fmt"

	"github.com/julianstephens/dayplan/internal/cli"
	"github.com/julianstephens/dayplan/internal/cli/render"
	"github.com/julianstephens/dayplan/internal/planner"
)

// CaptureCmd turns a transcript into a new card on the day's plan
type CaptureCmd struct {
	Transcript string `arg:"" optional:"" help:"Transcript of the voice note."`
	File       string `short:"f" help:"Read the transcript from a file; - reads standard input."`
	Date       string `help:"Date to plan (YYYY-MM-DD, today, tomorrow)." default:"today"`
	Limits     string `help:"Constraints for the day, e.g. 'only two hours after lunch'."`
}

func (c *CaptureCmd) Run(ctx *cli.Context) error {
	text, err := cli.ReadText(c.Transcript, c.File)
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	svc, err := ctx.Planner()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	result, err := svc.CaptureDaily(context.Background(), planner.DailyCapture{
		Transcript: text,
		Date:       date,
		Limits:     c.Limits,
	})
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	fmt.Fprintf(out, "✓ Added card %q to %s (%d cards)\n\n", result.Card.Title, date, len(result.Day.Cards))
	fmt.Fprint(out, render.Fragment(result.Card.Plan))
	return nil
}

// CaptureWeekCmd turns a transcript into the week's plan, replacing any stored one
type CaptureWeekCmd struct {
	Transcript string `arg:"" optional:"" help:"Transcript of the voice note."`
	File       string `short:"f" help:"Read the transcript from a file; - reads standard input."`
	Week       string `help:"Any date in the week, or this, last, next." default:"this"`
}

func (c *CaptureWeekCmd) Run(ctx *cli.Context) error {
	text, err := cli.ReadText(c.Transcript, c.File)
	if err != nil {
		return err
	}
	weekStart, err := cli.ParseWeek(c.Week, ctx.Today())
	if err != nil {
		return err
	}

	svc, err := ctx.Planner()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	result, err := svc.CaptureWeekly(context.Background(), text, weekStart)
	if err != nil {
		return err
	}

	fmt.Fprint(ctx.Stdout(), render.Week(result.Plan))
	return nil
}
