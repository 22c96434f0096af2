// Package record persists SimLog entries as zstd-compressed JSON lines so
// runs can be inspected or diffed after the fact.
package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/Garsondee/Chicken-King/internal/game"
)

// Ext is the file extension used for recordings.
const Ext = ".jsonl.zst"

// Writer appends entries to one compressed recording.
type Writer struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer

	src  *game.SimLog
	seen int
	n    int
}

// Create opens a new recording at path, replacing any existing file.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("record: create %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: create %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("record: encoder: %w", err)
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Path returns the file being written.
func (w *Writer) Path() string { return w.path }

// Count returns the number of entries written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Write appends one entry.
func (w *Writer) Write(e game.SimLogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(e)
}

func (w *Writer) writeLocked(e game.SimLogEntry) error {
	if w.w == nil {
		return fmt.Errorf("record: write %s: %w", w.path, os.ErrClosed)
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.n++
	return nil
}

// Follow writes whatever sl has logged since the last call. Switching to a
// different log starts from its first entry.
func (w *Writer) Follow(sl *game.SimLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if sl != w.src {
		w.src, w.seen = sl, 0
	}
	for _, e := range sl.Since(w.seen) {
		if err := w.writeLocked(e); err != nil {
			return err
		}
	}
	w.seen = sl.Len()
	return nil
}

// Close flushes and closes the recording. It is safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	return err
}

// Scan decodes a recording from r, calling fn for each entry in order.
func Scan(r io.Reader, fn func(game.SimLogEntry) error) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("record: decoder: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var e game.SimLogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("record: line %d: %w", line, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadFile loads every entry of the recording at path.
func ReadFile(path string) ([]game.SimLogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	defer f.Close()
	var out []game.SimLogEntry
	err = Scan(f, func(e game.SimLogEntry) error {
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record: read %s: %w", path, err)
	}
	return out, nil
}

// Replay loads a recording into a fresh SimLog so the usual filters and
// reports apply to it.
func Replay(path string) (*game.SimLog, error) {
	entries, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	sl := game.NewSimLog(true)
	for _, e := range entries {
		sl.Add(e.Tick, e.Agent, e.Kind, e.Category, e.Key, e.Value, e.NumVal)
	}
	return sl, nil
}
