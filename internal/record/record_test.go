package record

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Chicken-King/internal/game"
)

func runWorld(t *testing.T, ticks int) *game.SimLog {
	t.Helper()
	sl := game.NewSimLog(false)
	w := game.NewWorld(game.DefaultWorldConfig(), nil, 5, sl)
	w.Player.Recruit(w.AddChicken(game.V3(0, 0, -2), 0))
	w.Player.Recruit(w.AddChicken(game.V3(1, 0, -2), 0))
	w.AddHunter(game.V3(0, 0, -10), 0, nil)
	w.Run(ticks)
	return sl
}

func TestFollow_RoundTripsARun(t *testing.T) {
	sl := runWorld(t, 6*game.TickRate)
	if sl.Len() == 0 {
		t.Fatal("run produced no log entries")
	}
	path := filepath.Join(t.TempDir(), "runs", "seed-5"+Ext)
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Follow(sl); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := w.Follow(sl); err != nil {
		t.Fatalf("second follow: %v", err)
	}
	if w.Count() != sl.Len() {
		t.Fatalf("entries written twice: %d vs %d", w.Count(), sl.Len())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := sl.Entries()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d differs:\n got %s\nwant %s", i, got[i], want[i])
		}
	}
}

func TestReplay_FeedsReports(t *testing.T) {
	sl := runWorld(t, 8*game.TickRate)
	path := filepath.Join(t.TempDir(), "r"+Ext)
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Follow(sl); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	replayed, err := Replay(path)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if a, b := game.BuildReport(sl), game.BuildReport(replayed); a.String() != b.String() {
		t.Fatalf("reports differ:\n%s\nvs\n%s", a, b)
	}
}

func TestWrite_AfterClose(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x"+Ext))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = w.Close()
	if err := w.Write(game.SimLogEntry{Tick: 1}); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s"+Ext)
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := w.Write(game.SimLogEntry{Tick: i, Category: "stage", Key: "tick"}); err != nil {
			t.Fatal(err)
		}
	}
	_ = w.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	seen := 0
	err = Scan(bytes.NewReader(raw), func(e game.SimLogEntry) error {
		seen++
		if e.Tick == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || seen != 3 {
		t.Fatalf("expected to stop after 3 entries, got %d (%v)", seen, err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "none"+Ext)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
