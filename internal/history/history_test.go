package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	first := Run{
		Timestamp:          base,
		Source:             "src/main.rs",
		BytesIn:            4200,
		BytesOut:           1800,
		BindingRenames:     12,
		DeclarationRenames: 7,
		Duration:           40 * time.Millisecond,
	}
	second := Run{
		Timestamp:          base.Add(2 * time.Hour),
		Source:             "src/main.rs",
		BytesIn:            4300,
		BytesOut:           1750,
		BindingRenames:     13,
		DeclarationRenames: 7,
		Duration:           38 * time.Millisecond,
	}

	firstID, err := store.SaveRun(first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if firstID == "" {
		t.Fatal("expected generated run id")
	}
	if _, err := store.SaveRun(second); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, err := store.LoadRuns("default", time.Time{})
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].ID != firstID {
		t.Errorf("first run id = %q, want %q", got[0].ID, firstID)
	}
	if got[0].BytesIn != 4200 || got[0].BytesOut != 1800 {
		t.Errorf("first run sizes = %d/%d", got[0].BytesIn, got[0].BytesOut)
	}
	if got[0].Duration != 40*time.Millisecond {
		t.Errorf("first run duration = %s", got[0].Duration)
	}
	if !got[1].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("second run timestamp = %s", got[1].Timestamp)
	}
}

func TestStore_SinceBoundAndProjectIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ProjectKey: "tool",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			BytesIn:    1000,
			BytesOut:   int64(900 - 100*i),
		}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("save run %d: %v", i, err)
		}
	}
	if _, err := store.SaveRun(Run{ProjectKey: "other", Timestamp: base, BytesIn: 1, BytesOut: 1}); err != nil {
		t.Fatalf("save other project: %v", err)
	}

	got, err := store.LoadRuns("tool", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs since bound, want 2", len(got))
	}
	for _, run := range got {
		if run.ProjectKey != "tool" {
			t.Errorf("foreign project run leaked: %+v", run)
		}
	}
}

func TestStore_SaveRunOverwritesSameID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	run := Run{ID: "fixed", BytesIn: 100, BytesOut: 90}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	run.BytesOut = 40
	if _, err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadRuns("default", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d runs, want 1", len(got))
	}
	if got[0].BytesOut != 40 {
		t.Errorf("bytes_out = %d, want overwritten 40", got[0].BytesOut)
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	runs := []Run{
		{Timestamp: base, BytesIn: 1000, BytesOut: 600},
		{Timestamp: base.Add(time.Hour), BytesIn: 1000, BytesOut: 500},
		{Timestamp: base.Add(2 * time.Hour), BytesIn: 2000, BytesOut: 800},
	}

	report, err := BuildTrendReport(runs, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if report.RunCount != 3 {
		t.Fatalf("run count = %d", report.RunCount)
	}

	p0, p1, p2 := report.Points[0], report.Points[1], report.Points[2]
	if p0.SavedPct != 40 || p1.SavedPct != 50 || p2.SavedPct != 60 {
		t.Errorf("saved pct = %v %v %v", p0.SavedPct, p1.SavedPct, p2.SavedPct)
	}
	if p1.DeltaSavedPct != 10 {
		t.Errorf("delta saved pct = %v", p1.DeltaSavedPct)
	}
	if p1.DeltaBytesOut != -100 {
		t.Errorf("delta bytes out = %v", p1.DeltaBytesOut)
	}
	if p2.AvgSavedPct != 50 {
		t.Errorf("avg saved pct = %v, want mean of 40,50,60", p2.AvgSavedPct)
	}
}

func TestBuildTrendReportEmpty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Fatal("want error for empty runs")
	}
}
