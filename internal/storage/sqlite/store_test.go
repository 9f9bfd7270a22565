package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/dayplan/internal/constants"
	"github.com/julianstephens/dayplan/internal/models"
	"github.com/julianstephens/dayplan/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testDay(date string) models.DayPlan {
	return models.DayPlan{
		Date: date,
		Cards: []models.IssueCard{
			{
				ID:        "card-1",
				Title:     "Ship release",
				CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
				Plan: models.PlanFragment{
					Title: "Ship release",
					Date:  date,
					Must: []models.Task{
						{ID: "t1", Text: "Write changelog", EstimateMin: 30, DoneDef: "merged"},
						{ID: "t2", Text: "Tag build", EstimateMin: 10, DoneDef: "tag pushed"},
					},
					Should: []models.Task{
						{ID: "t3", Text: "Announce", EstimateMin: 15, DoneDef: "posted"},
					},
					RiskOfDay:     models.Risk{Risk: "CI flakes", Signal: "red build after 10:00"},
					OneAdjustment: models.Adjustment{Type: constants.AdjustmentDo, Suggestion: "start with the tag"},
					Assumptions:   []string{"reviewers available"},
				},
			},
		},
	}
}

func testWeek(weekStart string) models.WeeklyPlan {
	return models.WeeklyPlan{
		WeekStart:     weekStart,
		Goals:         []string{"ship v2"},
		Must:          []models.Task{{ID: "w1", Text: "Freeze features", EstimateMin: 60, DoneDef: "branch cut"}},
		Should:        []models.Task{{ID: "w2", Text: "Update docs", EstimateMin: 90, DoneDef: "docs deployed"}},
		RiskOfWeek:    models.Risk{Risk: "scope creep", Signal: "new tickets on Wednesday"},
		OneAdjustment: models.Adjustment{Type: constants.AdjustmentGoal, Suggestion: "drop the stretch goal"},
	}
}

func TestInit_Idempotent(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	var version int
	if err := store.GetDB().QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != cardsColumnVersion {
		t.Errorf("schema version = %d, want %d", version, cardsColumnVersion)
	}
}

func TestInit_ExistingCardsColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	// Databases from before schema versioning already carry cards_json
	db, err := open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		CREATE TABLE logs (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			transcript TEXT NOT NULL DEFAULT '',
			plan_json TEXT,
			cards_json TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(
		"INSERT INTO logs (id, date, transcript, cards_json, created_at) VALUES ('log-old', '2024-01-01', 'legacy', '[]', '2024-01-01T08:00:00.000Z')",
	)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init on legacy database failed: %v", err)
	}
	defer store.Close()

	result, err := store.ListLogsByDate("2024-01-01")
	if err != nil {
		t.Fatalf("ListLogsByDate failed: %v", err)
	}
	if len(result.Logs) != 1 || result.Logs[0].Transcript != "legacy" {
		t.Errorf("legacy log not preserved: %+v", result.Logs)
	}
}

func TestLoad_Uninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))

	err := store.Load()
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Fatalf("Load() = %v, want not initialized error", err)
	}
	if _, statErr := os.Stat(store.GetConfigPath()); !os.IsNotExist(statErr) {
		t.Error("Load created the database file")
	}
}

func TestLoad_UpgradesOlderSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")
	seed := NewStore(dbPath)
	if err := seed.Init(); err != nil {
		t.Fatal(err)
	}

	// Roll the database back to schema version 1, before logs.cards_json
	db := seed.GetDB()
	if _, err := db.Exec("ALTER TABLE logs DROP COLUMN cards_json"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 1"); err != nil {
		t.Fatal(err)
	}
	seed.Close()

	store := NewStore(dbPath)
	defer store.Close()
	if err := store.Load(); err != nil {
		t.Fatalf("Load on version 1 database failed: %v", err)
	}

	var version int
	if err := store.GetDB().QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != cardsColumnVersion {
		t.Errorf("schema version after Load = %d, want %d", version, cardsColumnVersion)
	}

	entry := models.SessionLog{
		ID:         "log-1",
		Date:       "2024-01-01",
		Transcript: "after upgrade",
		Cards:      testDay("2024-01-01").Cards,
		CreatedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.AppendLog(entry); err != nil {
		t.Fatalf("AppendLog after upgrade failed: %v", err)
	}
	result, err := store.ListLogsByDate("2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Logs) != 1 || len(result.Logs[0].Cards) != 1 {
		t.Errorf("logs after upgrade = %+v", result.Logs)
	}
}

func TestLoad_UnversionedDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	db, err := open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	store := NewStore(dbPath)
	defer store.Close()
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
	if store.GetDB() != nil {
		t.Error("Load kept a handle after failing")
	}
}

func TestLoad_ConcurrentFirstAccess(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seed := NewStore(dbPath)
	if err := seed.Init(); err != nil {
		t.Fatal(err)
	}
	seed.Close()

	store := NewStore(dbPath)
	defer store.Close()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Load()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	first := store.GetDB()
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if store.GetDB() != first {
		t.Error("Load replaced the shared handle")
	}
}

func TestDailyPlan_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	plan := testDay("2024-01-01")

	if err := store.SaveDailyPlan(plan); err != nil {
		t.Fatalf("SaveDailyPlan failed: %v", err)
	}
	// Saving the same document again leaves the same state
	if err := store.SaveDailyPlan(plan); err != nil {
		t.Fatalf("second SaveDailyPlan failed: %v", err)
	}

	got, ok, err := store.GetDailyPlan("2024-01-01")
	if err != nil || !ok {
		t.Fatalf("GetDailyPlan() = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got, plan) {
		t.Errorf("GetDailyPlan() = %+v, want %+v", got, plan)
	}

	var rows int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM daily_plans").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("daily_plans has %d rows, want 1", rows)
	}
}

func TestDailyPlan_FullReplace(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveDailyPlan(testDay("2024-01-01")); err != nil {
		t.Fatal(err)
	}

	replacement := models.DayPlan{
		Date: "2024-01-01",
		Cards: []models.IssueCard{
			{ID: "card-2", Title: "Rest", Plan: models.PlanFragment{Date: "2024-01-01", Must: []models.Task{{ID: "r1", Text: "Nap"}}}},
		},
	}
	if err := store.SaveDailyPlan(replacement); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.GetDailyPlan("2024-01-01")
	if err != nil || !ok {
		t.Fatalf("GetDailyPlan() = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("GetDailyPlan() = %+v, want %+v", got, replacement)
	}
}

func TestDailyPlan_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, ok, err := store.GetDailyPlan("1999-12-31")
	if err != nil {
		t.Fatalf("GetDailyPlan returned error for absent date: %v", err)
	}
	if ok {
		t.Error("GetDailyPlan() found a plan that was never saved")
	}
}

func TestDailyPlan_MalformedIsAbsent(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetDB().Exec(
		"INSERT INTO daily_plans (date, json, updated_at) VALUES ('2024-01-01', '{not json', '2024-01-01T00:00:00.000Z')",
	)
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := store.GetDailyPlan("2024-01-01")
	if err != nil {
		t.Fatalf("GetDailyPlan returned error for malformed document: %v", err)
	}
	if ok {
		t.Error("malformed document reported as present")
	}
}

func TestDailyPlan_EmptyKey(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveDailyPlan(models.DayPlan{}); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("SaveDailyPlan() = %v, want ErrEmptyKey", err)
	}
}

func TestSetTaskDone(t *testing.T) {
	t.Run("only the target task changes", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.SaveDailyPlan(testDay("2024-01-01")); err != nil {
			t.Fatal(err)
		}

		updated, ok, err := store.SetTaskDone("2024-01-01", "t2", true)
		if err != nil || !ok {
			t.Fatalf("SetTaskDone() = %v, %v", ok, err)
		}

		want := testDay("2024-01-01")
		want.Cards[0].Plan.Must[1].Done = true
		if !reflect.DeepEqual(updated, want) {
			t.Errorf("returned plan = %+v, want %+v", updated, want)
		}

		stored, _, err := store.GetDailyPlan("2024-01-01")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(stored, want) {
			t.Errorf("stored plan = %+v, want %+v", stored, want)
		}
	})

	t.Run("must match wins over should", func(t *testing.T) {
		store := setupTestStore(t)
		plan := testDay("2024-01-01")
		plan.Cards[0].Plan.Should = append(plan.Cards[0].Plan.Should, models.Task{ID: "t1", Text: "dup"})
		if err := store.SaveDailyPlan(plan); err != nil {
			t.Fatal(err)
		}

		updated, _, err := store.SetTaskDone("2024-01-01", "t1", true)
		if err != nil {
			t.Fatal(err)
		}
		if !updated.Cards[0].Plan.Must[0].Done {
			t.Error("must-list task not updated")
		}
		if updated.Cards[0].Plan.Should[1].Done {
			t.Error("should-list task with the same id was updated")
		}
	})

	t.Run("absent day", func(t *testing.T) {
		store := setupTestStore(t)

		_, ok, err := store.SetTaskDone("2024-01-01", "t1", true)
		if err != nil {
			t.Fatalf("SetTaskDone returned error for absent day: %v", err)
		}
		if ok {
			t.Error("SetTaskDone() reported a plan for an absent day")
		}
	})

	t.Run("unknown task leaves plan untouched", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.SaveDailyPlan(testDay("2024-01-01")); err != nil {
			t.Fatal(err)
		}

		var before string
		if err := store.GetDB().QueryRow("SELECT updated_at FROM daily_plans WHERE date = '2024-01-01'").Scan(&before); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)

		_, ok, err := store.SetTaskDone("2024-01-01", "nope", true)
		if !errors.Is(err, storage.ErrTaskNotFound) {
			t.Fatalf("SetTaskDone() error = %v, want ErrTaskNotFound", err)
		}
		if !ok {
			t.Error("SetTaskDone() = false for an existing day")
		}

		var after string
		if err := store.GetDB().QueryRow("SELECT updated_at FROM daily_plans WHERE date = '2024-01-01'").Scan(&after); err != nil {
			t.Fatal(err)
		}
		if before != after {
			t.Errorf("plan rewritten: updated_at %s -> %s", before, after)
		}
	})
}

func TestSetCardTaskDone(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveDailyPlan(testDay("2024-01-01")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cardID  string
		taskID  string
		wantErr error
	}{
		{"should task in card", "card-1", "t3", nil},
		{"missing card", "card-9", "t1", storage.ErrCardNotFound},
		{"missing task", "card-1", "t9", storage.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, ok, err := store.SetCardTaskDone("2024-01-01", tt.cardID, tt.taskID, true)
			if !ok {
				t.Fatal("SetCardTaskDone() = false for an existing day")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SetCardTaskDone() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetCardTaskDone failed: %v", err)
			}
			if !updated.Cards[0].Plan.Should[0].Done {
				t.Error("should-list task not updated")
			}
		})
	}
}

func TestWeeklyPlan(t *testing.T) {
	store := setupTestStore(t)
	plan := testWeek("2024-01-01")

	if err := store.SaveWeeklyPlan(plan); err != nil {
		t.Fatalf("SaveWeeklyPlan failed: %v", err)
	}

	got, ok, err := store.GetWeeklyPlan("2024-01-01")
	if err != nil || !ok {
		t.Fatalf("GetWeeklyPlan() = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got, plan) {
		t.Errorf("GetWeeklyPlan() = %+v, want %+v", got, plan)
	}

	if err := store.DeleteWeeklyPlan("2024-01-01"); err != nil {
		t.Fatalf("DeleteWeeklyPlan failed: %v", err)
	}
	if _, ok, _ := store.GetWeeklyPlan("2024-01-01"); ok {
		t.Error("weekly plan still present after delete")
	}

	// Deleting an absent week is not an error
	if err := store.DeleteWeeklyPlan("2024-01-01"); err != nil {
		t.Errorf("DeleteWeeklyPlan on absent week = %v", err)
	}
}

func TestLogs_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fragment := testDay("2024-01-01").Cards[0].Plan

	entries := []models.SessionLog{
		{ID: "log-a", Date: "2024-01-01", Transcript: "first", CreatedAt: base},
		{ID: "log-b", Date: "2024-01-01", Transcript: "second", Plan: &fragment, CreatedAt: base.Add(time.Minute)},
		{ID: "log-c", Date: "2024-01-02", Transcript: "other day", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "log-d", Date: "2024-01-01", Transcript: "third", CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, entry := range entries {
		if err := store.AppendLog(entry); err != nil {
			t.Fatalf("AppendLog(%s) failed: %v", entry.ID, err)
		}
	}
	if err := store.SaveDailyPlan(testDay("2024-01-01")); err != nil {
		t.Fatal(err)
	}

	result, err := store.ListLogsByDate("2024-01-01")
	if err != nil {
		t.Fatalf("ListLogsByDate failed: %v", err)
	}

	var ids []string
	for _, entry := range result.Logs {
		ids = append(ids, entry.ID)
	}
	if want := []string{"log-d", "log-b", "log-a"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("log order = %v, want %v", ids, want)
	}
	if !result.HasPlan || !reflect.DeepEqual(result.Plan, testDay("2024-01-01")) {
		t.Errorf("result plan = %+v (present %v), want current stored plan", result.Plan, result.HasPlan)
	}
	if result.Logs[0].Plan != nil {
		t.Error("log without snapshot came back with a plan")
	}
	if result.Logs[1].Plan == nil || !reflect.DeepEqual(*result.Logs[1].Plan, fragment) {
		t.Errorf("snapshot = %+v, want %+v", result.Logs[1].Plan, fragment)
	}
	if !result.Logs[2].CreatedAt.Equal(base) {
		t.Errorf("createdAt = %v, want %v", result.Logs[2].CreatedAt, base)
	}
}

func TestLogs_EmptyDate(t *testing.T) {
	store := setupTestStore(t)

	result, err := store.ListLogsByDate("2024-01-01")
	if err != nil {
		t.Fatalf("ListLogsByDate failed: %v", err)
	}
	if result.Logs == nil || len(result.Logs) != 0 || result.HasPlan {
		t.Errorf("ListLogsByDate() = %+v, want empty logs and no plan", result)
	}
}

func TestLogs_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	entry := models.SessionLog{ID: "log-a", Date: "2024-01-01", Transcript: "first"}

	if err := store.AppendLog(entry); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendLog(entry); !errors.Is(err, storage.ErrDuplicateLog) {
		t.Errorf("AppendLog duplicate = %v, want ErrDuplicateLog", err)
	}
}

func TestWeeklyLogs(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	plan := testWeek("2024-01-01")

	if err := store.AppendWeeklyLog(models.WeeklySessionLog{ID: "wlog-a", WeekStart: "2024-01-01", Transcript: "plan", Plan: &plan, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendWeeklyLog(models.WeeklySessionLog{ID: "wlog-b", WeekStart: "2024-01-01", Transcript: "review", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	result, err := store.ListLogsByWeek("2024-01-01")
	if err != nil {
		t.Fatalf("ListLogsByWeek failed: %v", err)
	}
	if len(result.Logs) != 2 || result.Logs[0].ID != "wlog-b" {
		t.Fatalf("weekly logs = %+v, want wlog-b first", result.Logs)
	}
	if result.Logs[1].Plan == nil || !reflect.DeepEqual(*result.Logs[1].Plan, plan) {
		t.Errorf("weekly snapshot = %+v, want %+v", result.Logs[1].Plan, plan)
	}
	if result.HasPlan {
		t.Error("HasPlan = true with no weekly plan saved")
	}
}

func populate(t *testing.T, store *Store) {
	t.Helper()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	day := testDay("2024-01-01")
	week := testWeek("2024-01-01")

	if err := store.SaveDailyPlan(day); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveWeeklyPlan(week); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendLog(models.SessionLog{ID: "log-a", Date: "2024-01-01", Transcript: "morning", Plan: &day.Cards[0].Plan, Cards: day.Cards, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendWeeklyLog(models.WeeklySessionLog{ID: "wlog-a", WeekStart: "2024-01-01", Transcript: "monday", Plan: &week, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}
}

func withoutTimestamp(e storage.Export) storage.Export {
	e.ExportedAt = ""
	return e
}

func TestExportImport_RoundTrip(t *testing.T) {
	source := setupTestStore(t)
	populate(t, source)

	exported, err := source.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}
	if len(exported.Logs) != 1 || len(exported.DailyPlans) != 1 || len(exported.WeeklyPlans) != 1 || len(exported.WeeklyLogs) != 1 {
		t.Fatalf("unexpected export sizes: %+v", exported)
	}

	target := setupTestStore(t)
	if err := target.AppendLog(models.SessionLog{ID: "log-stale", Date: "2023-12-31"}); err != nil {
		t.Fatal(err)
	}
	if err := target.ImportAll(exported); err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}

	reexported, err := target.ExportAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(withoutTimestamp(reexported), withoutTimestamp(exported)) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", reexported, exported)
	}

	week, ok, err := target.GetWeeklyPlan("2024-01-01")
	if err != nil || !ok || !reflect.DeepEqual(week, testWeek("2024-01-01")) {
		t.Errorf("weekly plan after import = %+v, %v, %v", week, ok, err)
	}
}

func TestImport_Atomic(t *testing.T) {
	store := setupTestStore(t)
	populate(t, store)

	before, err := store.ExportAll()
	if err != nil {
		t.Fatal(err)
	}

	bad := storage.Export{
		Logs: []storage.LogRow{
			{ID: "log-x", Date: "2024-02-01", CardsJSON: "[]", CreatedAt: "2024-02-01T00:00:00.000Z"},
			{ID: "log-x", Date: "2024-02-01", CardsJSON: "[]", CreatedAt: "2024-02-01T00:00:00.000Z"},
		},
	}
	err = store.ImportAll(bad)
	if err == nil {
		t.Fatal("ImportAll accepted duplicate log ids")
	}
	if !strings.Contains(err.Error(), "store unchanged") {
		t.Errorf("ImportAll error = %v, want store unchanged message", err)
	}

	after, err := store.ExportAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(withoutTimestamp(after), withoutTimestamp(before)) {
		t.Errorf("store changed by failed import:\n got  %+v\n want %+v", after, before)
	}
}

func TestImport_WithoutWeeklyClearsWeekly(t *testing.T) {
	store := setupTestStore(t)
	populate(t, store)

	payload := storage.Export{
		DailyPlans: []storage.DailyPlanRow{{Date: "2024-03-01", JSON: `{"date":"2024-03-01","cards":[]}`, UpdatedAt: "2024-03-01T00:00:00.000Z"}},
	}
	if err := store.ImportAll(payload); err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}

	if _, ok, _ := store.GetWeeklyPlan("2024-01-01"); ok {
		t.Error("weekly plan survived a replace import without weekly rows")
	}
	weekly, err := store.ListLogsByWeek("2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(weekly.Logs) != 0 {
		t.Errorf("weekly logs survived import: %+v", weekly.Logs)
	}
	if _, ok, _ := store.GetDailyPlan("2024-01-01"); ok {
		t.Error("old daily plan survived a replace import")
	}
	if _, ok, _ := store.GetDailyPlan("2024-03-01"); !ok {
		t.Error("imported daily plan missing")
	}
}

func TestImport_SinglePlanDocument(t *testing.T) {
	store := setupTestStore(t)

	payload := storage.Export{
		DailyPlans: []storage.DailyPlanRow{{
			Date:      "2024-01-01",
			JSON:      `{"date":"2024-01-01","must":[{"id":"t1","text":"Write outline","estimateMin":30,"doneDef":"pushed","done":false}],"should":[],"riskOfDay":{"risk":"","signal":""},"oneAdjustment":{"type":"Do","suggestion":""},"assumptions":[]}`,
			UpdatedAt: "2024-01-01T00:00:00.000Z",
		}},
	}
	if err := store.ImportAll(payload); err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}

	plan, ok, err := store.GetDailyPlan("2024-01-01")
	if err != nil || !ok {
		t.Fatalf("GetDailyPlan() = %v, %v", ok, err)
	}
	if len(plan.Cards) != 1 || len(plan.Cards[0].Plan.Must) != 1 {
		t.Fatalf("single-plan document decoded as %+v", plan)
	}

	updated, ok, err := store.SetTaskDone("2024-01-01", "t1", true)
	if err != nil || !ok {
		t.Fatalf("SetTaskDone() = %v, %v", ok, err)
	}
	if !updated.Cards[0].Plan.Must[0].Done {
		t.Error("task not marked done")
	}

	stored, _, _ := store.GetDailyPlan("2024-01-01")
	if len(stored.Cards) != 1 || !stored.Cards[0].Plan.Must[0].Done {
		t.Errorf("stored plan after toggle = %+v", stored)
	}
}
