package plans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dayplan/internal/cli"
	apperrors "github.com/julianstephens/dayplan/internal/errors"
	"github.com/julianstephens/dayplan/internal/generate"
	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
	"github.com/julianstephens/dayplan/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC) // a Wednesday

type fakeGenerator struct {
	err error
}

func (f *fakeGenerator) GenerateDaily(ctx context.Context, req generate.DailyRequest) (models.PlanFragment, error) {
	if f.err != nil {
		return models.PlanFragment{}, f.err
	}
	return models.PlanFragment{
		Title: "Taxes",
		Date:  req.Date,
		Must:  []models.Task{{ID: "t1", Text: "Find receipts", EstimateMin: 20, DoneDef: "folder ready"}},
	}, nil
}

func (f *fakeGenerator) GenerateWeekly(ctx context.Context, transcript, weekStart string) (models.WeeklyPlan, error) {
	if f.err != nil {
		return models.WeeklyPlan{}, f.err
	}
	return models.WeeklyPlan{WeekStart: weekStart, Goals: []string{"Ship beta"}}, nil
}

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "dayplan.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:        store,
		Out:          out,
		Now:          func() time.Time { return fixedNow },
		NewGenerator: func() (generate.Generator, error) { return &fakeGenerator{}, nil },
	}
	return ctx, out
}

func testDay(date string) models.DayPlan {
	return models.DayPlan{
		Date: date,
		Cards: []models.IssueCard{
			{
				ID:    "card-a",
				Title: "Launch",
				Plan: models.PlanFragment{
					Date:   date,
					Must:   []models.Task{{ID: "t1", Text: "Write outline"}},
					Should: []models.Task{{ID: "t2", Text: "Tidy desk"}},
				},
			},
			{
				ID:    "card-b",
				Title: "Errands",
				Plan:  models.PlanFragment{Date: date, Must: []models.Task{{ID: "t1", Text: "Buy milk"}}},
			},
		},
	}
}

func writeFile(t *testing.T, v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDayShowCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	err := (&DayShowCmd{Date: "today"}).Run(ctx)
	var nf *cli.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("DayShowCmd error = %v, want NotFoundError", err)
	}
	if apperrors.ExitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", apperrors.ExitCode(err))
	}

	if err := ctx.Store.SaveDailyPlan(testDay("2024-01-03")); err != nil {
		t.Fatal(err)
	}

	if err := (&DayShowCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("DayShowCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "Plan for 2024-01-03") || !strings.Contains(out.String(), "Errands") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := (&DayShowCmd{Date: "2024-01-03", JSON: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var plan models.DayPlan
	if err := json.Unmarshal(out.Bytes(), &plan); err != nil {
		t.Fatalf("--json output is not a day document: %v", err)
	}
	if len(plan.Cards) != 2 {
		t.Errorf("got %d cards, want 2", len(plan.Cards))
	}
}

func TestDaySetCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	file := writeFile(t, testDay("2024-01-01"))

	if err := (&DaySetCmd{File: file, Date: "tomorrow"}).Run(ctx); err != nil {
		t.Fatalf("DaySetCmd failed: %v", err)
	}

	if _, found, _ := ctx.Store.GetDailyPlan("2024-01-01"); found {
		t.Error("plan stored under the document date despite --date")
	}
	plan, found, err := ctx.Store.GetDailyPlan("2024-01-04")
	if err != nil || !found || len(plan.Cards) != 2 {
		t.Errorf("GetDailyPlan() = (%+v, %v, %v)", plan, found, err)
	}
}

func TestTaskDoneCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.SaveDailyPlan(testDay("2024-01-03")); err != nil {
		t.Fatal(err)
	}

	if err := (&TaskDoneCmd{TaskID: "t1", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("TaskDoneCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "1/3 done") {
		t.Errorf("unexpected output: %q", out.String())
	}

	plan, _, _ := ctx.Store.GetDailyPlan("2024-01-03")
	if !plan.Cards[0].Plan.Must[0].Done || plan.Cards[1].Plan.Must[0].Done {
		t.Errorf("wrong task marked: %+v", plan.Cards)
	}

	if err := (&TaskDoneCmd{TaskID: "t1", Date: "today", Card: "card-b"}).Run(ctx); err != nil {
		t.Fatalf("TaskDoneCmd --card failed: %v", err)
	}
	plan, _, _ = ctx.Store.GetDailyPlan("2024-01-03")
	if !plan.Cards[1].Plan.Must[0].Done {
		t.Error("card-scoped task not marked")
	}

	if err := (&TaskDoneCmd{TaskID: "t1", Date: "today", Undo: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	plan, _, _ = ctx.Store.GetDailyPlan("2024-01-03")
	if plan.Cards[0].Plan.Must[0].Done {
		t.Error("--undo did not clear the task")
	}

	if err := (&TaskDoneCmd{TaskID: "t9", Date: "today"}).Run(ctx); !errors.Is(err, storage.ErrTaskNotFound) {
		t.Errorf("unknown task error = %v, want ErrTaskNotFound", err)
	}
	if err := (&TaskDoneCmd{TaskID: "t1", Date: "today", Card: "card-z"}).Run(ctx); !errors.Is(err, storage.ErrCardNotFound) {
		t.Errorf("unknown card error = %v, want ErrCardNotFound", err)
	}

	var nf *cli.NotFoundError
	if err := (&TaskDoneCmd{TaskID: "t1", Date: "2020-01-01"}).Run(ctx); !errors.As(err, &nf) {
		t.Errorf("missing day error = %v, want NotFoundError", err)
	}
}

func TestWeekCmds(t *testing.T) {
	ctx, out := setupTestContext(t)
	file := writeFile(t, models.WeeklyPlan{WeekStart: "2023-12-25", Goals: []string{"Rest"}})

	if err := (&WeekSetCmd{File: file, Week: "this"}).Run(ctx); err != nil {
		t.Fatalf("WeekSetCmd failed: %v", err)
	}

	out.Reset()
	if err := (&WeekShowCmd{Week: "2024-01-05"}).Run(ctx); err != nil {
		t.Fatalf("WeekShowCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "Week of 2024-01-01") || !strings.Contains(out.String(), "Rest") {
		t.Errorf("unexpected output: %s", out.String())
	}

	ctx.Confirm = func(title, description string) (bool, error) { return true, nil }
	if err := (&WeekDeleteCmd{Week: "this"}).Run(ctx); err != nil {
		t.Fatalf("WeekDeleteCmd failed: %v", err)
	}
	// Deleting again is not an error
	if err := (&WeekDeleteCmd{Week: "this", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("second WeekDeleteCmd failed: %v", err)
	}

	var nf *cli.NotFoundError
	if err := (&WeekShowCmd{Week: "this"}).Run(ctx); !errors.As(err, &nf) {
		t.Errorf("WeekShowCmd after delete = %v, want NotFoundError", err)
	}
}

func TestCaptureCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&CaptureCmd{Transcript: "sort out my taxes", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("CaptureCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), `Added card "Taxes" to 2024-01-03`) {
		t.Errorf("unexpected output: %s", out.String())
	}

	plan, found, err := ctx.Store.GetDailyPlan("2024-01-03")
	if err != nil || !found || len(plan.Cards) != 1 {
		t.Fatalf("GetDailyPlan() = (%+v, %v, %v)", plan, found, err)
	}

	out.Reset()
	if err := (&LogListCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Taxes") {
		t.Errorf("capture not listed: %s", out.String())
	}
}

func TestCaptureCmd_Errors(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&CaptureCmd{Date: "today"}).Run(ctx); err == nil {
		t.Error("expected error for missing transcript")
	}

	ctx.NewGenerator = func() (generate.Generator, error) { return nil, errors.New("no API key") }
	if err := (&CaptureCmd{Transcript: "x", Date: "today"}).Run(ctx); err == nil || !strings.Contains(err.Error(), "no API key") {
		t.Errorf("CaptureCmd error = %v", err)
	}

	ctx.NewGenerator = func() (generate.Generator, error) { return &fakeGenerator{err: errors.New("overloaded")}, nil }
	if err := (&CaptureCmd{Transcript: "x", Date: "today"}).Run(ctx); err == nil {
		t.Error("expected generator error")
	}
	if _, found, _ := ctx.Store.GetDailyPlan("2024-01-03"); found {
		t.Error("plan saved after failed generation")
	}
}

func TestCaptureWeekCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&CaptureWeekCmd{Transcript: "plan my week", Week: "next"}).Run(ctx); err != nil {
		t.Fatalf("CaptureWeekCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "Week of 2024-01-08") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := (&LogListCmd{Week: "2024-01-10", JSON: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var logs storage.WeekLogs
	if err := json.Unmarshal(out.Bytes(), &logs); err != nil {
		t.Fatal(err)
	}
	if len(logs.Logs) != 1 || !logs.HasPlan || logs.Plan.Goals[0] != "Ship beta" {
		t.Errorf("unexpected weekly logs: %+v", logs)
	}
}

func TestLogAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.SaveDailyPlan(testDay("2024-01-02")); err != nil {
		t.Fatal(err)
	}

	if err := (&LogAddCmd{Transcript: "felt tired", Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("LogAddCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "on 2024-01-02") {
		t.Errorf("unexpected output: %q", out.String())
	}

	result, err := ctx.Store.ListLogsByDate("2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(result.Logs))
	}
	entry := result.Logs[0]
	if entry.Transcript != "felt tired" || entry.Plan != nil || len(entry.Cards) != 2 {
		t.Errorf("unexpected log: %+v", entry)
	}
	if !strings.HasPrefix(entry.ID, "log-") {
		t.Errorf("ID = %q, want log- prefix", entry.ID)
	}
}
