package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"comicwebp/internal/history"
	"comicwebp/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if store.Path() != cfg.Paths.HistoryPath {
		t.Fatalf("unexpected path %q", store.Path())
	}

	runs, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history, got %d runs", len(runs))
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.Record(context.Background(), history.Run{RunID: "a", Input: "/in.cbr", Status: "succeeded"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	run, err := second.GetByRunID(context.Background(), "a")
	if err != nil || run == nil {
		t.Fatalf("expected persisted run, got %v err=%v", run, err)
	}
}

func TestOpenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	if _, err := history.Open(cfg); !errors.Is(err, history.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestOpenPathRequiresPath(t *testing.T) {
	if _, err := history.OpenPath(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []history.Run{
		{RunID: "first", Input: "/c/a.cbr", Output: "/c/a.cbz", Status: "succeeded", Converted: 12, Entries: 13, StartedAt: base, FinishedAt: base.Add(3 * time.Second)},
		{RunID: "second", Input: "/c/b.txt", Status: "fatal", Error: "archive format not recognized", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(time.Minute)},
		{RunID: "third", Input: "/c/c.cbz", Output: "/c/c.cbz", Status: "partial", Converted: 3, Failed: 1, Entries: 3, StartedAt: base.Add(2 * time.Minute), FinishedAt: base.Add(2*time.Minute + time.Second)},
	}
	for _, run := range runs {
		id, err := store.Record(ctx, run)
		if err != nil {
			t.Fatalf("Record %s: %v", run.RunID, err)
		}
		if id == 0 {
			t.Fatalf("expected row id for %s", run.RunID)
		}
	}

	listed, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 || listed[0].RunID != "third" || listed[1].RunID != "second" {
		t.Fatalf("unexpected order: %+v", listed)
	}
	if listed[0].Failed != 1 || listed[0].Converted != 3 {
		t.Fatalf("counts not persisted: %+v", listed[0])
	}
	if listed[1].Output != "" || listed[1].Error != "archive format not recognized" {
		t.Fatalf("nullable columns not round-tripped: %+v", listed[1])
	}

	first, err := store.GetByRunID(ctx, "first")
	if err != nil || first == nil {
		t.Fatalf("GetByRunID: %v %v", first, err)
	}
	if first.Duration() != 3*time.Second {
		t.Fatalf("unexpected duration %s", first.Duration())
	}
	if !first.StartedAt.Equal(base) {
		t.Fatalf("unexpected start %s", first.StartedAt)
	}
}

func TestGetByRunIDMissing(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	run, err := store.GetByRunID(context.Background(), "nope")
	if err != nil || run != nil {
		t.Fatalf("expected nil run, got %v err=%v", run, err)
	}
}

func TestRecordValidation(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := store.Record(ctx, history.Run{Input: "/x.cbr"}); err == nil {
		t.Fatal("expected error without run id")
	}
	if _, err := store.Record(ctx, history.Run{RunID: "x"}); err == nil {
		t.Fatal("expected error without input")
	}
}

func TestRecordDuplicateRunID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	run := history.Run{RunID: "dup", Input: "/x.cbr", Status: "succeeded"}
	if _, err := store.Record(ctx, run); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := store.Record(ctx, run); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestOpenPathCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "dir", "runs.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
}
