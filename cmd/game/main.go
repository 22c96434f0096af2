package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Chicken-King/internal/record"
	"github.com/Garsondee/Chicken-King/internal/script"
	"github.com/Garsondee/Chicken-King/internal/tuning"
	"github.com/Garsondee/Chicken-King/internal/viewer"
)

func main() {
	var tuningPath string
	var scriptPath string
	var seed int64
	var recordPath string

	flag.StringVar(&tuningPath, "tuning", "", "tuning YAML, reloaded on save")
	flag.StringVar(&scriptPath, "script", "", "stage script (default: built-in)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 uses the tuning's seed)")
	flag.StringVar(&recordPath, "record", "", "write the event log to this "+record.Ext+" file")
	flag.Parse()

	opts := viewer.Options{Tuning: tuning.Default()}
	if tuningPath != "" {
		t, err := tuning.Load(tuningPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.Tuning = t
		w, err := tuning.NewWatcher(tuningPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.Watcher = w
	}

	opts.Seed = seed
	if seed == 0 {
		opts.Seed = opts.Tuning.World.Seed
	}

	opts.Script = func() (*script.Director, error) { return script.DefaultDirector(), nil }
	if scriptPath != "" {
		opts.Script = func() (*script.Director, error) { return script.LoadDirector(scriptPath) }
	}

	if recordPath != "" {
		rec, err := record.Create(recordPath)
		if err != nil {
			log.Fatal(release(opts, err))
		}
		opts.Record = rec
	}

	if err := release(opts, viewer.Run(opts)); err != nil {
		log.Fatal(err)
	}
}

// release closes the recorder and the tuning watcher, keeping err if it is
// set. log.Fatal skips deferred calls, so every exit path goes through here.
func release(opts viewer.Options, err error) error {
	if opts.Record != nil {
		if cerr := opts.Record.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if opts.Watcher != nil {
		if cerr := opts.Watcher.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
