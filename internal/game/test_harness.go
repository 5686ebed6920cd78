package game

import (
	"fmt"
	"io"
	"log/slog"
)

const defaultStep = 1.0 / 60.0

// TestSim is a headless arena harness used by tests and the report runner.
// It has no Ebiten dependency and is fully deterministic for a given seed.
type TestSim struct {
	Arena  *Arena
	SimLog *SimLog
	Events *EventBuffer
	Agents []*Agent

	cfg  ArenaConfig
	dt   float64
	tick int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // arena size, obstacles, seed, verbose; applied first
	simOptAgent                       // add agents; applied after the arena is built
	simOptScript                      // target motion; applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithArenaSize sets the playfield dimensions in world units.
func WithArenaSize(w, d float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Width = w
		ts.cfg.Depth = d
	}}
}

// WithObstacle adds a wall box with its corner at (x, z).
func WithObstacle(x, z, w, d float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Obstacles = append(ts.cfg.Obstacles, NewBox(x, z, w, d))
	}}
}

// WithSeed sets the arena seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
	}}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Verbose = v
	}}
}

// WithStep sets the fixed tick length in seconds.
func WithStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.dt = dt
	}}
}

// WithTarget places the target at (x, z).
func WithTarget(x, z float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.TargetStart = Vec3{X: x, Z: z}
	}}
}

// WithTargetHealth sets the target's starting health.
func WithTargetHealth(h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.TargetHealth = h
	}}
}

// WithoutNavigation leaves agents on the direct-movement fallback.
func WithoutNavigation() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.DirectMovement = true
	}}
}

// WithProjectileLifetime overrides how long bullets fly.
func WithProjectileLifetime(s float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.ProjectileLifetime = s
	}}
}

// WithAgent adds an agent using profile p at (x, z).
func WithAgent(label string, p Profile, x, z float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		a, err := ts.Arena.AddAgent(label, p, Vec3{X: x, Z: z})
		if err != nil {
			panic(fmt.Sprintf("test sim: %v", err))
		}
		ts.Agents = append(ts.Agents, a)
	}}
}

// WithTacticalAgent adds a tactical agent at (x, z).
func WithTacticalAgent(label string, x, z float64) SimOption {
	return WithAgent(label, TacticalProfile(), x, z)
}

// WithTargetScript drives the target with a built-in script or script file.
func WithTargetScript(nameOrPath string) SimOption {
	return SimOption{simOptScript, func(ts *TestSim) {
		sc, err := LoadTargetScript(nameOrPath, ts.Arena.Target().Position())
		if err != nil {
			panic(fmt.Sprintf("test sim: %v", err))
		}
		ts.Arena.SetTargetMotion(sc)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (arena size, obstacles, seed, verbose)
//  2. Build the Arena
//  3. Agents
//  4. Target script
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Events: &EventBuffer{},
		dt:     defaultStep,
		cfg: ArenaConfig{
			Width:  40,
			Depth:  40,
			Seed:   1,
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.cfg.Events = ts.Events
	ts.Arena = NewArena(ts.cfg)
	ts.SimLog = ts.Arena.Log()
	for _, kind := range []simOptionKind{simOptAgent, simOptScript} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(ts)
			}
		}
	}
	return ts
}

// Agent returns the agent with the given label, or nil.
func (ts *TestSim) Agent(label string) *Agent {
	for _, a := range ts.Agents {
		if a.Label() == label {
			return a
		}
	}
	return nil
}

// Target is the arena's target.
func (ts *TestSim) Target() *Player { return ts.Arena.Target() }

// Step returns the fixed tick length.
func (ts *TestSim) Step() float64 { return ts.dt }

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.tick++
		ts.Arena.Step(ts.dt)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.tick++
		ts.Arena.Step(ts.dt)
		if predicate(ts) {
			return ts.tick
		}
	}
	return -1
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.tick
}

// Summary formats the SimLog summary for the current tick.
func (ts *TestSim) Summary() string {
	return ts.SimLog.Summary(ts.tick, ts.Agents, ts.Arena.Target())
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick         int
	TargetHealth int
	Agents       []AgentSnapshot
}

// AgentSnapshot is a lightweight copy of an agent's state at a tick.
type AgentSnapshot struct {
	Label    string
	Profile  string
	Pos      Vec3
	State    State
	Health   int
	Distance float64
	Shots    int
}

// Snapshot returns the current state of all agents.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.tick, TargetHealth: ts.Arena.Target().CurrentHealth()}
	for _, a := range ts.Agents {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			Label:    a.Label(),
			Profile:  a.Profile().Name,
			Pos:      a.Position(),
			State:    a.State(),
			Health:   a.Health(),
			Distance: a.Distance(),
			Shots:    a.Shots(),
		})
	}
	return snap
}
