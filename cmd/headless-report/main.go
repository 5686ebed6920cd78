package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/Garsondee/Hostile-Sense/internal/game"
	"golang.org/x/sync/errgroup"
)

const collectEvery = 60

type runConfig struct {
	scenario string
	ticks    int
	wave     int
	profile  game.Profile
	script   string
}

type runStats struct {
	runIndex int
	seed     int64
	agents   int

	firstEngageTick     int
	firstRepositionTick int
	firstHitTick        int
	firstDeathTick      int
	targetDownTick      int

	stateChanges int
	repositions  int
	shots        int
	bursts       int
	aborted      int
	hits         int
	worldHits    int
	expired      int
	faults       int

	outcome       game.EngagementOutcomeReason
	windowSummary *game.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var wave int
	var profilesPath string
	var profileName string
	var script string
	var parallel int

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "duel", "scenario name (duel, wave)")
	flag.IntVar(&wave, "wave", 1, "wave number for the wave scenario")
	flag.StringVar(&profilesPath, "profiles", "", "profiles YAML file; empty uses built-in presets")
	flag.StringVar(&profileName, "profile", "tactical", "agent profile")
	flag.StringVar(&script, "target-script", "", "built-in target script name or .tengo file")
	flag.IntVar(&parallel, "parallel", runtime.GOMAXPROCS(0), "runs simulated concurrently")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "duel" && scenario != "wave" {
		fmt.Printf("error: unsupported scenario %q (supported: duel, wave)\n", scenario)
		return
	}
	profile, err := resolveProfile(profilesPath, profileName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s profile=%s runs=%d ticks=%d seed_base=%d seed_step=%d target_script=%q\n\n",
		scenario, profile.Name, runs, ticks, seedBase, seedStep, script)

	cfg := runConfig{scenario: scenario, ticks: ticks, wave: wave, profile: profile, script: script}
	all, err := runAll(context.Background(), cfg, runs, seedBase, seedStep, parallel)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
}

func resolveProfile(path, name string) (game.Profile, error) {
	if path == "" {
		p, ok := game.Preset(name)
		if !ok {
			return game.Profile{}, fmt.Errorf("unknown preset %q", name)
		}
		return p, nil
	}
	profiles, err := game.LoadProfiles(path)
	if err != nil {
		return game.Profile{}, err
	}
	p, ok := profiles[name]
	if !ok {
		return game.Profile{}, fmt.Errorf("profile %q not in %s", name, path)
	}
	return p, nil
}

// runAll simulates every seed, at most parallel at a time. Each run owns its
// arena, so results are identical to a sequential pass and come back in run
// order.
func runAll(ctx context.Context, cfg runConfig, runs int, seedBase, seedStep int64, parallel int) ([]runStats, error) {
	all := make([]runStats, runs)
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := runScenario(cfg, i+1, seed)
			if err != nil {
				return fmt.Errorf("run %d (seed=%d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runScenario(cfg runConfig, runIndex int, seed int64) (runStats, error) {
	ar := game.NewArena(game.ArenaConfig{
		Obstacles: game.DefaultObstacles(),
		Seed:      seed,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if cfg.script != "" {
		s, err := game.LoadTargetScript(cfg.script, ar.Target().Position())
		if err != nil {
			return runStats{}, err
		}
		ar.SetTargetMotion(s)
	}

	switch cfg.scenario {
	case "duel":
		start := ar.Target().Position().Add(game.Vec3{Z: -18})
		if _, err := ar.AddAgent("H0", cfg.profile, game.Vec3{X: start.X, Z: start.Z}); err != nil {
			return runStats{}, err
		}
	case "wave":
		if _, err := ar.SpawnWave(cfg.wave, cfg.profile, 15); err != nil {
			return runStats{}, err
		}
	default:
		return runStats{}, fmt.Errorf("unsupported scenario %q", cfg.scenario)
	}

	reporter := game.NewSimReporter(0)
	const dt = 1.0 / 60
	for i := 0; i < cfg.ticks; i++ {
		ar.Step(dt)
		if ar.Tick()%collectEvery == 0 {
			reporter.Collect(ar.Tick(), ar.Agents())
		}
	}

	rs := collectStats(ar.Log().Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.agents = len(ar.Agents())
	rs.outcome = game.DetermineOutcome(ar.Agents(), ar.Target())
	rs.windowSummary = reporter.WindowSummary()
	return rs, nil
}

// collectStats tallies one run's SimLog.
func collectStats(entries []game.SimLogEntry) runStats {
	stateChanged := game.EventStateChanged.String()
	rs := runStats{
		firstEngageTick:     firstTick(entries, "state", stateChanged, "→ strafe"),
		firstRepositionTick: firstTick(entries, "state", stateChanged, "→ reposition"),
		firstHitTick:        firstTick(entries, "projectile", game.EventTargetHit.String(), ""),
		firstDeathTick:      firstTick(entries, "health", game.EventAgentDied.String(), ""),
		targetDownTick:      firstTick(entries, "target", "defeated", ""),
	}
	if hold := firstTick(entries, "state", stateChanged, "→ hold"); hold >= 0 && (rs.firstEngageTick < 0 || hold < rs.firstEngageTick) {
		rs.firstEngageTick = hold
	}
	for _, e := range entries {
		switch e.Key {
		case stateChanged:
			rs.stateChanges++
			if strings.HasSuffix(e.Value, "→ reposition") {
				rs.repositions++
			}
		case game.EventShotFired.String():
			rs.shots++
		case game.EventBurstStarted.String():
			rs.bursts++
		case game.EventBurstAborted.String():
			rs.aborted++
		case game.EventTargetHit.String():
			rs.hits++
		case game.EventProjectileHitWorld.String():
			rs.worldHits++
		case game.EventProjectileExpired.String():
			rs.expired++
		}
		if e.Category == "fault" {
			rs.faults++
		}
	}
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func accuracy(hits, shots int) float64 {
	if shots <= 0 {
		return 0
	}
	return float64(hits) / float64(shots) * 100
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d, agents=%d) ---\n", rs.runIndex, rs.seed, rs.agents)
	fmt.Printf("phase_markers: engage=%d reposition=%d first_hit=%d first_death=%d target_down=%d\n",
		rs.firstEngageTick, rs.firstRepositionTick, rs.firstHitTick, rs.firstDeathTick, rs.targetDownTick)
	fmt.Printf("event_totals: state_change=%d reposition=%d faults=%d\n",
		rs.stateChanges, rs.repositions, rs.faults)
	fmt.Printf("fire: shots=%d bursts=%d aborted=%d hits=%d world=%d expired=%d accuracy=%.1f%%\n",
		rs.shots, rs.bursts, rs.aborted, rs.hits, rs.worldHits, rs.expired, accuracy(rs.hits, rs.shots))
	fmt.Printf("outcome: %s (%s)\n", rs.outcome.Outcome, rs.outcome.Description)
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalState := 0
	totalRepos := 0
	totalShots := 0
	totalHits := 0
	totalAborted := 0
	totalFaults := 0

	engageTicks := make([]int, 0, len(all))
	hitTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	downTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	for _, rs := range all {
		totalState += rs.stateChanges
		totalRepos += rs.repositions
		totalShots += rs.shots
		totalHits += rs.hits
		totalAborted += rs.aborted
		totalFaults += rs.faults
		if rs.firstEngageTick >= 0 {
			engageTicks = append(engageTicks, rs.firstEngageTick)
		}
		if rs.firstHitTick >= 0 {
			hitTicks = append(hitTicks, rs.firstHitTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.targetDownTick >= 0 {
			downTicks = append(downTicks, rs.targetDownTick)
		}
		outcomes[rs.outcome.Outcome.String()]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: state_change=%.1f reposition=%.1f shots=%.1f hits=%.1f aborted=%.1f faults=%.1f\n",
		avg(totalState, len(all)), avg(totalRepos, len(all)), avg(totalShots, len(all)),
		avg(totalHits, len(all)), avg(totalAborted, len(all)), avg(totalFaults, len(all)))
	fmt.Printf("overall_accuracy=%.1f%%\n", accuracy(totalHits, totalShots))
	fmt.Printf("phase_marker_avg_ticks: engage=%s first_hit=%s first_death=%s target_down=%s\n",
		avgTickString(engageTicks), avgTickString(hitTicks), avgTickString(deathTicks), avgTickString(downTicks))
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))
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

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
