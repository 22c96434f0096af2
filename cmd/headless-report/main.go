package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Garsondee/Chicken-King/internal/game"
	"github.com/Garsondee/Chicken-King/internal/record"
	"github.com/Garsondee/Chicken-King/internal/script"
	"github.com/Garsondee/Chicken-King/internal/tuning"
)

type runStats struct {
	runIndex int
	seed     int64

	report      game.RunReport
	finalTick   int
	finalRoster int
	idleLeft    int
	huntersLeft int
	stranded    int // ticks the autopilot had nowhere to go
	latest      string
	recordPath  string
}

type runOptions struct {
	ticks      int
	tuning     tuning.Tuning
	scriptPath string
	noScript   bool
	recordDir  string
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var tuningPath string
	var scriptPath string
	var noScript bool
	var recordDir string
	var replayPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 7200, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&tuningPath, "tuning", "", "tuning YAML overlaid on the defaults")
	flag.StringVar(&scriptPath, "script", "", "stage script (default: built-in)")
	flag.BoolVar(&noScript, "no-script", false, "run without a stage director")
	flag.StringVar(&recordDir, "record", "", "directory for per-run "+record.Ext+" logs")
	flag.StringVar(&replayPath, "replay", "", "summarise a recorded run instead of simulating")
	flag.Parse()

	if replayPath != "" {
		sl, err := record.Replay(replayPath)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("=== Replay %s (%d entries) ===\n", replayPath, sl.Len())
		fmt.Print(game.BuildReport(sl).String())
		return
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	opts := runOptions{ticks: ticks, tuning: tuning.Default(), scriptPath: scriptPath, noScript: noScript, recordDir: recordDir}
	if tuningPath != "" {
		t, err := tuning.Load(tuningPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.tuning = t
	}

	fmt.Printf("=== Headless Farmyard Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d goal=%d\n\n", runs, ticks, seedBase, seedStep, opts.tuning.World.RecruitGoal)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runStage(i+1, seed, opts)
		if err != nil {
			log.Fatal(err)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func newDirector(opts runOptions) (*script.Director, error) {
	if opts.noScript {
		return nil, nil
	}
	if opts.scriptPath != "" {
		return script.LoadDirector(opts.scriptPath)
	}
	return script.DefaultDirector(), nil
}

// runStage plays one stage with the autopilot leader.
func runStage(runIndex int, seed int64, opts runOptions) (runStats, error) {
	sl := game.NewSimLog(false)
	w := opts.tuning.Build(seed, sl)
	director, err := newDirector(opts)
	if err != nil {
		return runStats{}, err
	}
	if director != nil {
		director.Attach(w)
	}

	var rec *record.Writer
	if opts.recordDir != "" {
		rec, err = record.Create(filepath.Join(opts.recordDir, fmt.Sprintf("seed-%d%s", seed, record.Ext)))
		if err != nil {
			return runStats{}, err
		}
		defer rec.Close()
	}

	reporter := game.NewSimReporter(0)
	pilot := &autopilot{}
	for i := 0; i < opts.ticks; i++ {
		w.Step(pilot.input(w), 1.0/game.TickRate)
		if director != nil {
			if err := director.Update(); err != nil {
				return runStats{}, fmt.Errorf("run %d: %w", runIndex, err)
			}
		}
		if w.Tick%game.TickRate == 0 {
			reporter.Collect(w)
		}
		if rec != nil {
			if err := rec.Follow(sl); err != nil {
				return runStats{}, err
			}
		}
	}

	rs := runStats{
		runIndex:    runIndex,
		seed:        seed,
		report:      game.BuildReport(sl),
		finalTick:   w.Tick,
		finalRoster: w.Player.Roster().Count(),
		huntersLeft: len(w.Hunters()),
		stranded:    pilot.stranded,
		latest:      reporter.FormatLatest(),
	}
	for _, c := range w.Chickens() {
		if c.State() == game.FollowerIdle {
			rs.idleLeft++
		}
	}
	if rec != nil {
		rs.recordPath = rec.Path()
	}
	return rs, nil
}

// autopilot walks the leader to the nearest idle chicken along the nav grid
// and recruits it on arrival.
type autopilot struct {
	target   game.Handle
	path     []game.Vec3
	replan   int
	stranded int
}

const replanTicks = 30

func (a *autopilot) input(w *game.World) game.Input {
	p := w.Player
	pos := p.Position()

	c, ok := w.Chicken(a.target)
	if !ok || c.State() != game.FollowerIdle {
		c, ok = nearestIdle(w)
		a.path, a.replan = nil, 0
		if ok {
			a.target = c.Handle()
		}
	}
	if !ok {
		a.stranded++
		return game.Input{}
	}

	if pos.FlatDist(c.Position()) <= p.Config().RecruitRadius*0.8 {
		return game.Input{Recruit: true}
	}

	a.replan--
	if len(a.path) == 0 || a.replan <= 0 {
		a.path = w.Scene.Grid().FindPath(pos, c.Position())
		a.replan = replanTicks
	}
	for len(a.path) > 0 && pos.FlatDist(a.path[0]) < 0.3 {
		a.path = a.path[1:]
	}
	if len(a.path) == 0 {
		a.stranded++
		return game.Input{}
	}
	return game.Input{Move: a.path[0].Sub(pos).Flat()}
}

func nearestIdle(w *game.World) (*game.Chicken, bool) {
	pos := w.Player.Position()
	var best *game.Chicken
	bestDist := 0.0
	for _, c := range w.Chickens() {
		if c.State() != game.FollowerIdle {
			continue
		}
		if d := pos.FlatDist(c.Position()); best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != nil
}

// classifyRun labels a run for the aggregate table.
func classifyRun(rs runStats) (string, string) {
	r := rs.report
	switch {
	case r.CompletionTick >= 0:
		return "complete", fmt.Sprintf("goal_at_tick=%d", r.CompletionTick)
	case r.Recruits > 0 && r.Captures*2 >= r.Recruits:
		return "decimated", fmt.Sprintf("captures=%d recruits=%d", r.Captures, r.Recruits)
	case r.Recruits == 0:
		return "stalled", "no_recruits"
	default:
		return "short", fmt.Sprintf("peak_roster=%d", r.PeakRoster)
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	outcome, reason := classifyRun(rs)
	fmt.Printf("outcome=%s (%s)\n", outcome, reason)
	fmt.Print(rs.report.String())
	fmt.Printf("final: tick=%d roster=%d idle_left=%d hunters_left=%d stranded_ticks=%d\n",
		rs.finalTick, rs.finalRoster, rs.idleLeft, rs.huntersLeft, rs.stranded)
	fmt.Printf("latest_sample: %s\n", rs.latest)
	if rs.recordPath != "" {
		fmt.Printf("recorded: %s\n", rs.recordPath)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalRecruits := 0
	totalCaptures := 0
	totalRetargets := 0
	totalCaught := 0
	contactTicks := make([]int, 0, len(all))
	completionTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}
	perHunter := map[string]int{}

	for _, rs := range all {
		totalRecruits += rs.report.Recruits
		totalCaptures += rs.report.Captures
		totalRetargets += rs.report.Retargets
		totalCaught += rs.report.LeaderCaught
		if rs.report.FirstContact >= 0 {
			contactTicks = append(contactTicks, rs.report.FirstContact)
		}
		if rs.report.CompletionTick >= 0 {
			completionTicks = append(completionTicks, rs.report.CompletionTick)
		}
		outcome, _ := classifyRun(rs)
		outcomes[outcome]++
		for l, n := range rs.report.PerHunter {
			perHunter[l] += n
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes: %s\n", len(all), joinCounts(outcomes))
	fmt.Printf("avg_per_run: recruits=%.1f captures=%.1f retargets=%.1f leader_caught=%.1f\n",
		avg(totalRecruits, len(all)), avg(totalCaptures, len(all)), avg(totalRetargets, len(all)), avg(totalCaught, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_contact=%s completion=%s\n",
		avgTickString(contactTicks), avgTickString(completionTicks))
	fmt.Printf("captures_by_hunter: %s\n", joinCounts(perHunter))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
