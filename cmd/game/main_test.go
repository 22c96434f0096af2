package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Chicken-King/internal/game"
	"github.com/Garsondee/Chicken-King/internal/record"
	"github.com/Garsondee/Chicken-King/internal/tuning"
	"github.com/Garsondee/Chicken-King/internal/viewer"
)

func TestRelease_ClosesWatcherAndRecord(t *testing.T) {
	dir := t.TempDir()
	tuningPath := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(tuningPath, []byte("world:\n  seed: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := tuning.NewWatcher(tuningPath)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	rec, err := record.Create(filepath.Join(dir, "run"+record.Ext))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := rec.Write(game.SimLogEntry{Tick: 1, Category: "stage", Key: "spawn"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	runErr := errors.New("viewer exited")
	err = release(viewer.Options{Watcher: w, Record: rec}, runErr)
	if !errors.Is(err, runErr) {
		t.Fatalf("release should keep the run error, got %v", err)
	}
	if _, open := <-w.Events; open {
		t.Fatal("watcher still open after release")
	}
	entries, err := record.ReadFile(rec.Path())
	if err != nil || len(entries) != 1 {
		t.Fatalf("record not flushed: %d entries, %v", len(entries), err)
	}
}

func TestRelease_NothingOpened(t *testing.T) {
	if err := release(viewer.Options{}, nil); err != nil {
		t.Fatalf("release with nothing open: %v", err)
	}
}
