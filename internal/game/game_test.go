package game

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func newTestGame(t *testing.T, cfg GameConfig) *Game {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Seed == 0 {
		cfg.Seed = 3
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestNew_SpawnsFirstWave(t *testing.T) {
	g := newTestGame(t, GameConfig{Wave: 2})
	if got := len(g.arena.Agents()); got != WaveSize(2) {
		t.Fatalf("agents = %d, want %d", got, WaveSize(2))
	}
	for _, a := range g.arena.Agents() {
		if d := a.Position().FlatDist(g.arena.Target().Position()); d < spawnMinDist {
			t.Fatalf("%s spawned %.1f from target", a.Label(), d)
		}
	}
}

func TestNew_RejectsUnknownProfile(t *testing.T) {
	_, err := New(GameConfig{Profile: "grenadier", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestNew_RejectsUnknownScript(t *testing.T) {
	_, err := New(GameConfig{TargetScript: "moonwalk", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if !errors.Is(err, ErrUnknownScript) {
		t.Fatalf("err = %v, want ErrUnknownScript", err)
	}
}

func TestGame_NextWaveAfterClear(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	target := g.arena.Target()
	target.TakeDamage(40)
	for _, a := range g.arena.Agents() {
		a.Kill()
	}
	g.simTick()
	if g.wave != 2 {
		t.Fatalf("wave = %d, want 2", g.wave)
	}
	if got, want := target.CurrentHealth(), target.MaxHealth()-40+waveClearHeal; got != want {
		t.Fatalf("target health = %d after the clear, want %d", got, want)
	}
	if g.arena.Alive() != WaveSize(2) {
		t.Fatalf("alive = %d, want %d", g.arena.Alive(), WaveSize(2))
	}
}

func TestGame_PausesWhenTargetDown(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	g.arena.Target().TakeDamage(g.arena.Target().MaxHealth())
	g.simTick()
	if g.simSpeed != 0 {
		t.Fatalf("simSpeed = %v, want paused", g.simSpeed)
	}
	if !strings.Contains(g.status, "target down") {
		t.Fatalf("status = %q", g.status)
	}
}

func TestGame_ApplyReload(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	profiles := presetProfiles()
	p := profiles["tactical"]
	p.MaxRange = 24
	profiles["tactical"] = p

	n := g.applyReload(ProfileReload{Profiles: profiles})
	if n != len(g.arena.Agents()) {
		t.Fatalf("applied = %d, want %d", n, len(g.arena.Agents()))
	}
	for _, a := range g.arena.Agents() {
		if a.Profile().MaxRange != 24 {
			t.Fatalf("%s max range = %v", a.Label(), a.Profile().MaxRange)
		}
	}
}

func TestGame_ApplyReloadRejected(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	if n := g.applyReload(ProfileReload{Err: errors.New("bad yaml")}); n != 0 {
		t.Fatalf("applied = %d after failed reload", n)
	}
	if n := g.applyReload(ProfileReload{Profiles: map[string]Profile{"chaser": ChaserProfile()}}); n != 0 {
		t.Fatalf("applied = %d without the wave profile", n)
	}
	if g.profiles["tactical"].Name != "tactical" {
		t.Fatal("profiles replaced by a rejected reload")
	}
}

func TestGame_ScreenWorldRoundTrip(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	w := Vec3{X: 17, Z: 41}
	x, y := g.worldToScreen(w)
	back := g.screenToWorld(int(math.Round(float64(x))), int(math.Round(float64(y))))
	if back.FlatDist(w) > 1/g.scale {
		t.Fatalf("round trip %v -> %v", w, back)
	}
	if g.gameWidth+logPanelWidth+2*borderWidth > g.width {
		t.Fatalf("arena %dpx overlaps log panel in %dpx window", g.gameWidth, g.width)
	}
}

func TestGame_PickAgent(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	a := g.arena.Agents()[0]
	if got := g.pickAgent(a.Position().Add(Vec3{X: 0.2}), 1); got != a {
		t.Fatalf("picked %v, want %s", got, a.Label())
	}
	a.Kill()
	if got := g.pickAgent(a.Position(), 1); got == a {
		t.Fatal("picked a dead agent")
	}
}

func TestGame_PlayerFire(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	from := g.arena.Target().Position()
	g.playerFire(from.Add(Vec3{X: 5}))
	ps := g.arena.Projectiles()
	if len(ps) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(ps))
	}
	if ps[0].Faction != FactionPlayer || ps[0].Vel.X <= 0 {
		t.Fatalf("projectile = %+v", ps[0])
	}

	g.playerFire(from)
	if len(g.arena.Projectiles()) != 1 {
		t.Fatal("fired with zero aim vector")
	}
}

func TestGame_HUDLines(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	lines := strings.Join(g.hudLines(), "\n")
	for _, want := range []string{"wave 1 (tactical)", "alive 5/5", "chase=5"} {
		if !strings.Contains(lines, want) {
			t.Fatalf("hud missing %q:\n%s", want, lines)
		}
	}
}

func TestDetermineOutcome(t *testing.T) {
	ts := NewTestSim(WithTacticalAgent("H0", 5, 5), WithTacticalAgent("H1", 35, 35))
	r := DetermineOutcome(ts.Agents, ts.Target())
	if r.Outcome != OutcomeInconclusive || r.Survivors != 2 {
		t.Fatalf("outcome = %+v", r)
	}

	ts.Agents[0].TakeDamage(10)
	ts.Agents[1].Kill()
	r = DetermineOutcome(ts.Agents, ts.Target())
	if r.Survivors != 1 || r.Wounded != 1 {
		t.Fatalf("outcome = %+v", r)
	}

	ts.Agents[0].Kill()
	if r = DetermineOutcome(ts.Agents, ts.Target()); r.Outcome != OutcomeHostilesDefeated {
		t.Fatalf("outcome = %s", r.Outcome)
	}

	ts.Target().TakeDamage(ts.Target().MaxHealth())
	if r = DetermineOutcome(ts.Agents, ts.Target()); r.Outcome != OutcomeTargetDefeated {
		t.Fatalf("outcome = %s", r.Outcome)
	}
	if r = DetermineOutcome(nil, nil); r.Outcome != OutcomeTargetDefeated {
		t.Fatalf("missing target outcome = %s", r.Outcome)
	}
}

func TestSimReporter_Window(t *testing.T) {
	ts := NewTestSim(WithTacticalAgent("H0", 5, 5), WithTacticalAgent("H1", 35, 35))
	r := NewSimReporter(120)
	if r.WindowSummary() != nil || r.Latest() != nil {
		t.Fatal("empty reporter returned data")
	}
	if !strings.Contains(r.WindowSummary().Format(), "No data") {
		t.Fatal("nil window format")
	}

	for i := 1; i <= 5; i++ {
		ts.RunTicks(60)
		if i == 3 {
			ts.Agents[1].Kill()
		}
		r.Collect(ts.CurrentTick(), ts.Agents)
	}
	if len(r.History()) != 5 {
		t.Fatalf("history = %d", len(r.History()))
	}
	if r.Latest().Dead != 1 || r.Latest().Alive != 1 {
		t.Fatalf("latest = %+v", r.Latest())
	}

	wr := r.WindowSummary()
	if wr.SampleCount != 3 || wr.FromTick != 180 || wr.ToTick != 300 {
		t.Fatalf("window = %+v", wr)
	}
	if math.Abs(wr.StatePct[StateDead]-50) > 1e-9 {
		t.Fatalf("dead pct = %v, want 50", wr.StatePct[StateDead])
	}
	if !strings.Contains(wr.Format(), "Behaviour Report (T=180..300, 3 samples)") {
		t.Fatalf("format:\n%s", wr.Format())
	}
}

func TestBuildStages(t *testing.T) {
	entries := []SimLogEntry{
		{Tick: 10, Key: "state_changed", Value: "idle → chase"},
		{Tick: 40, Key: "shot_fired"},
		{Tick: 50, Key: "state_changed", Value: "chase → strafe"},
	}
	stages := buildStages(entries, StateCombatStrafe, 0, 99)
	want := []reportStage{
		{0, 9, "idle"},
		{10, 49, "chase"},
		{50, 99, "strafe"},
	}
	if len(stages) != len(want) {
		t.Fatalf("stages = %+v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage %d = %+v, want %+v", i, stages[i], want[i])
		}
	}

	quiet := buildStages(nil, StateHold, 5, 20)
	if len(quiet) != 1 || quiet[0].state != "hold" {
		t.Fatalf("quiet stages = %+v", quiet)
	}
}

func TestAgentDebugReport(t *testing.T) {
	ts := NewTestSim(WithTarget(20, 20), WithTacticalAgent("H0", 20, 2))
	ts.RunTicks(240)
	a := ts.Agent("H0")
	rep := agentDebugReport(a, ts.SimLog, 1, ts.CurrentTick(), 0)
	for _, want := range []string{"agent=H0", "profile=tactical", "== stages ==", "state_changed"} {
		if !strings.Contains(rep, want) {
			t.Fatalf("report missing %q:\n%s", want, rep)
		}
	}
	if agentDebugReport(nil, ts.SimLog, 1, 0, 0) != "" {
		t.Fatal("report for nil agent")
	}
}
