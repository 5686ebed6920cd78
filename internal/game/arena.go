package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

const (
	defaultArenaWidth       = 60.0
	defaultArenaDepth       = 60.0
	bodyRadius              = 0.5
	defaultProjectileRadius = 0.06
	wallThickness           = 1.0
	// reindexStep advances the space just far enough to refresh shape bounds.
	// Kinematic bodies here carry no velocity, so nothing integrates.
	reindexStep = 1e-9
)

// Collision groups: shapes sharing a non-zero group never report to each
// other's queries.
const (
	groupHostile uint = 1
	groupPlayer  uint = 2
)

func groupFor(f Faction) uint {
	switch f {
	case FactionHostile:
		return groupHostile
	case FactionPlayer:
		return groupPlayer
	default:
		return cp.NO_GROUP
	}
}

func queryFilter(ignore Faction) cp.ShapeFilter {
	return cp.NewShapeFilter(groupFor(ignore), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
}

// collider is attached to every cp shape as UserData.
type collider struct {
	id      ColliderID
	label   string
	faction Faction
	victim  Damageable
}

// TargetMotion moves the target each tick.
type TargetMotion interface {
	Next(t, dt float64, cur Vec3) (Vec3, error)
}

// ArenaConfig describes a flat walled arena.
type ArenaConfig struct {
	Width, Depth       float64
	Obstacles          []Box
	CellSize           float64
	Seed               int64
	ProjectileLifetime float64
	ProjectileRadius   float64
	TargetHealth       int
	TargetStart        Vec3
	// DirectMovement leaves agents without a navigator.
	DirectMovement bool
	Verbose        bool
	Logger         *slog.Logger
	Events         EventSink
	Thoughts       *ThoughtLog
}

type arenaAgent struct {
	agent *Agent
	body  *cp.Body
	shape *cp.Shape
	nav   *GridNavigator
}

// Arena is the spatial world agents fight in. It answers raycasts, owns
// projectiles and effects, and steps everything once per tick.
type Arena struct {
	cfg   ArenaConfig
	space *cp.Space
	grid  *NavGrid
	rng   *rand.Rand
	ns    uuid.UUID

	player      *Player
	playerBody  *cp.Body
	playerShape *cp.Shape
	motion      TargetMotion

	agents      []*arenaAgent
	projectiles map[ProjectileHandle]*Projectile
	order       []ProjectileHandle
	effects     []Effect

	nextCollider ColliderID
	nextHandle   ProjectileHandle
	tick         int
	time         float64

	simLog   *SimLog
	thoughts *ThoughtLog
	events   EventSink
	logger   *slog.Logger

	// OnAgentDied runs after an agent is defeated and removed from the space.
	OnAgentDied func(a *Agent)
}

// NewArena builds the space, boundary walls, obstacles, nav grid and target.
func NewArena(cfg ArenaConfig) *Arena {
	if cfg.Width <= 0 {
		cfg.Width = defaultArenaWidth
	}
	if cfg.Depth <= 0 {
		cfg.Depth = defaultArenaDepth
	}
	if cfg.ProjectileLifetime <= 0 {
		cfg.ProjectileLifetime = defaultBulletLifetime
	}
	if cfg.ProjectileRadius <= 0 {
		cfg.ProjectileRadius = defaultProjectileRadius
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Thoughts == nil {
		cfg.Thoughts = NewThoughtLog()
	}

	ar := &Arena{
		cfg:         cfg,
		space:       cp.NewSpace(),
		grid:        NewNavGrid(cfg.Width, cfg.Depth, cfg.CellSize, cfg.Obstacles, bodyRadius),
		rng:         rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- simulation only
		ns:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("hostile-sense/%d", cfg.Seed))),
		projectiles: make(map[ProjectileHandle]*Projectile),
		simLog:      NewSimLog(cfg.Verbose),
		thoughts:    cfg.Thoughts,
		logger:      cfg.Logger,
	}
	ar.events = multiSink{EventFunc(ar.record), cfg.Events}

	w, d := cfg.Width, cfg.Depth
	bounds := []Box{
		{MinX: -wallThickness, MinZ: -wallThickness, MaxX: w + wallThickness, MaxZ: 0},
		{MinX: -wallThickness, MinZ: d, MaxX: w + wallThickness, MaxZ: d + wallThickness},
		{MinX: -wallThickness, MinZ: 0, MaxX: 0, MaxZ: d},
		{MinX: w, MinZ: 0, MaxX: w + wallThickness, MaxZ: d},
	}
	for _, b := range append(bounds, cfg.Obstacles...) {
		ar.addStatic(b)
	}

	start := cfg.TargetStart
	if start.IsZero() {
		start = Vec3{X: w / 2, Z: d / 2}
	}
	ar.nextCollider++
	ar.player = NewPlayer(ar.nextCollider, Vec3{X: start.X, Y: 1, Z: start.Z}, cfg.TargetHealth)
	ar.player.OnDefeated = func() {
		ar.simLog.Add(ar.tick, "--", "--", "target", "defeated", "target health reached zero", 0)
		ar.logger.Info("target defeated", "tick", ar.tick)
	}
	ar.playerBody, ar.playerShape = ar.addKinematic(start, collider{
		id:      ar.player.ColliderID(),
		label:   "target",
		faction: FactionPlayer,
		victim:  ar.player,
	})
	return ar
}

func toCP(v Vec3) cp.Vector { return cp.Vector{X: v.X, Y: v.Z} }

func (ar *Arena) addStatic(b Box) {
	shape := cp.NewBox2(ar.space.StaticBody, cp.BB{L: b.MinX, B: b.MinZ, R: b.MaxX, T: b.MaxZ}, 0)
	ar.nextCollider++
	shape.UserData = &collider{id: ar.nextCollider, label: "wall", faction: FactionWorld}
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
	ar.space.AddShape(shape)
}

func (ar *Arena) addKinematic(pos Vec3, c collider) (*cp.Body, *cp.Shape) {
	body := ar.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(toCP(pos))
	shape := cp.NewCircle(body, bodyRadius, cp.Vector{})
	shape.UserData = &c
	shape.SetFilter(cp.NewShapeFilter(groupFor(c.faction), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
	ar.space.AddShape(shape)
	return body, shape
}

func (ar *Arena) syncBody(body *cp.Body, pos Vec3) {
	body.SetPosition(toCP(pos))
}

// reindex refreshes cp's spatial index after bodies were moved by hand.
// Queries see stale bounds until this runs.
func (ar *Arena) reindex() {
	ar.space.Step(reindexStep)
}

// AddAgent spawns an agent hunting the arena's target. Agent ids are derived
// from the arena seed and label so runs are reproducible.
func (ar *Arena) AddAgent(label string, p Profile, pos Vec3) (*Agent, error) {
	pos = pos.Flat()
	aa := &arenaAgent{}
	var nav NavService
	if !ar.cfg.DirectMovement {
		aa.nav = NewGridNavigator(ar.grid, pos, p.MoveSpeed)
		nav = aa.nav
	}
	a, err := NewAgent(AgentConfig{
		ID:       uuid.NewSHA1(ar.ns, []byte(label)),
		Label:    label,
		Profile:  p,
		Position: pos,
		Faction:  FactionHostile,
		Target:   ar.player,
		Nav:      nav,
		Space:    ar,
		World:    ar,
		Events:   ar.events,
		Logger:   ar.logger,
		Thoughts: ar.thoughts,
		OnDeath:  ar.agentDied,
	})
	if err != nil {
		return nil, fmt.Errorf("arena: add agent %s: %w", label, err)
	}
	ar.nextCollider++
	a.SetColliderID(ar.nextCollider)
	aa.agent = a
	aa.body, aa.shape = ar.addKinematic(pos, collider{
		id:      ar.nextCollider,
		label:   label,
		faction: FactionHostile,
		victim:  a,
	})
	ar.agents = append(ar.agents, aa)
	return a, nil
}

func (ar *Arena) agentDied(a *Agent) {
	for _, aa := range ar.agents {
		if aa.agent != a || aa.shape == nil {
			continue
		}
		ar.space.RemoveShape(aa.shape)
		ar.space.RemoveBody(aa.body)
		aa.shape, aa.body = nil, nil
	}
	if ar.OnAgentDied != nil {
		ar.OnAgentDied(a)
	}
}

func (ar *Arena) record(e Event) {
	profile := "--"
	for _, aa := range ar.agents {
		if aa.agent.ID() == e.AgentID {
			profile = aa.agent.Profile().Name
			break
		}
	}
	ar.simLog.Record(ar.tick, profile, e)
}

// Raycast implements SpatialQuery over the arena's XZ plane. Shapes in the
// ignored faction's group are transparent to the ray.
func (ar *Arena) Raycast(origin, dir Vec3, maxDist float64, ignore Faction) (Hit, bool) {
	end := origin.Add(dir.Normalize().Scale(maxDist))
	info := ar.space.SegmentQueryFirst(toCP(origin), toCP(end), 0, queryFilter(ignore))
	if info.Shape == nil {
		return Hit{}, false
	}
	c, ok := info.Shape.UserData.(*collider)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Collider: c.id,
		Faction:  c.faction,
		Point:    lerp(origin, end, info.Alpha),
	}, true
}

func lerp(a, b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Scale(t)) }

// SpawnProjectile implements World. Lifetime comes from the arena config.
func (ar *Arena) SpawnProjectile(pos, vel Vec3, damage int, faction Faction) ProjectileHandle {
	ar.nextHandle++
	h := ar.nextHandle
	ar.projectiles[h] = NewProjectile(h, pos, vel, damage, faction, ar.cfg.ProjectileLifetime)
	ar.order = append(ar.order, h)
	return h
}

// Destroy removes a projectile without resolving it.
func (ar *Arena) Destroy(h ProjectileHandle) {
	delete(ar.projectiles, h)
}

func (ar *Arena) EmitTransientEffect(kind EffectKind, pos Vec3) {
	life := effectLifetime(kind)
	ar.effects = append(ar.effects, Effect{Kind: kind, Pos: pos, Remaining: life, Lifetime: life})
}

// SetTargetMotion scripts the target. A nil motion leaves it where MovePlayer
// puts it.
func (ar *Arena) SetTargetMotion(m TargetMotion) { ar.motion = m }

// MovePlayer moves the target to pos if it is walkable.
func (ar *Arena) MovePlayer(pos Vec3) bool {
	pos = pos.Flat()
	if !ar.grid.Walkable(pos) {
		return false
	}
	pos.Y = ar.player.Position().Y
	ar.player.SetPosition(pos)
	ar.syncBody(ar.playerBody, pos)
	ar.reindex()
	return true
}

// Step advances the whole arena by dt seconds.
func (ar *Arena) Step(dt float64) {
	ar.tick++
	ar.time += dt

	if ar.motion != nil && ar.player.CurrentHealth() > 0 {
		next, err := ar.motion.Next(ar.time, dt, ar.player.Position())
		if err != nil {
			ar.logger.Error("target motion failed, detaching script", "err", err)
			ar.simLog.Add(ar.tick, "--", "--", "target", "script_error", err.Error(), 0)
			ar.motion = nil
		} else {
			ar.MovePlayer(next)
		}
	}

	for _, aa := range ar.agents {
		aa.agent.Update(dt)
		if aa.body == nil {
			continue
		}
		pos := aa.agent.Position()
		ar.syncBody(aa.body, pos)
		if ar.simLog.Verbose() {
			ar.simLog.AddVerbose(ar.tick, aa.agent.Label(), aa.agent.Profile().Name, "position", "pos",
				fmt.Sprintf("(%.1f, %.1f) %s", pos.X, pos.Z, aa.agent.State()), aa.agent.Distance())
		}
	}
	ar.reindex()

	ar.stepProjectiles(dt)
	ar.effects = ageEffects(ar.effects, dt)
}

func (ar *Arena) stepProjectiles(dt float64) {
	live := ar.order[:0]
	for _, h := range ar.order {
		p, ok := ar.projectiles[h]
		if !ok {
			continue
		}
		from, to := p.Sweep(dt)
		info := ar.space.SegmentQueryFirst(toCP(from), toCP(to), ar.cfg.ProjectileRadius, queryFilter(p.Faction))
		if c, hit := shapeCollider(info.Shape); hit {
			point := lerp(from, to, info.Alpha)
			if p.Resolve(Contact{Faction: c.faction, Victim: c.victim, Point: point}) {
				ar.projectileDone(p, c)
				continue
			}
		}
		p.Pos = to
		if p.Age(dt) {
			ar.projectileDone(p, nil)
			continue
		}
		live = append(live, h)
	}
	ar.order = live
}

func shapeCollider(s *cp.Shape) (*collider, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.UserData.(*collider)
	return c, ok
}

func (ar *Arena) projectileDone(p *Projectile, c *collider) {
	delete(ar.projectiles, p.Handle)
	e := Event{Pos: p.Pos, Value: float64(p.Damage)}
	switch p.State {
	case ProjectileHitTarget:
		e.Kind = EventTargetHit
		e.Detail = c.label
		ar.EmitTransientEffect(EffectImpact, p.Pos)
	case ProjectileHitWorld:
		e.Kind = EventProjectileHitWorld
		ar.EmitTransientEffect(EffectImpact, p.Pos)
	default:
		e.Kind = EventProjectileExpired
	}
	ar.events.Emit(e)
}

// SpawnWave adds WaveSize(wave) agents with profile p on random walkable
// points at least minDist from the target.
func (ar *Arena) SpawnWave(wave int, p Profile, minDist float64) ([]*Agent, error) {
	n := WaveSize(wave)
	out := make([]*Agent, 0, n)
	tpos := ar.player.Position()
	for i := 0; i < n; i++ {
		pos, ok := ar.randomSpawn(tpos, minDist)
		if !ok {
			return out, fmt.Errorf("arena: wave %d: no spawn point for agent %d", wave, i)
		}
		a, err := ar.AddAgent(fmt.Sprintf("W%d-%d", wave, i), p, pos)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	ar.logger.Info("wave spawned", "wave", wave, "agents", n, "profile", p.Name)
	return out, nil
}

const spawnAttempts = 64

func (ar *Arena) randomSpawn(tpos Vec3, minDist float64) (Vec3, bool) {
	for range spawnAttempts {
		p := Vec3{X: ar.rng.Float64() * ar.cfg.Width, Z: ar.rng.Float64() * ar.cfg.Depth}
		if p.FlatDist(tpos) < minDist || !ar.grid.Walkable(p) {
			continue
		}
		return p, true
	}
	return Vec3{}, false
}

// Alive counts agents that are not dead.
func (ar *Arena) Alive() int {
	n := 0
	for _, aa := range ar.agents {
		if aa.agent.State() != StateDead {
			n++
		}
	}
	return n
}

func (ar *Arena) Agents() []*Agent {
	out := make([]*Agent, len(ar.agents))
	for i, aa := range ar.agents {
		out[i] = aa.agent
	}
	return out
}

// Navigator returns the grid navigator driving a, if any.
func (ar *Arena) Navigator(a *Agent) *GridNavigator {
	for _, aa := range ar.agents {
		if aa.agent == a {
			return aa.nav
		}
	}
	return nil
}

// Projectiles returns the live projectiles in spawn order.
func (ar *Arena) Projectiles() []*Projectile {
	out := make([]*Projectile, 0, len(ar.order))
	for _, h := range ar.order {
		if p, ok := ar.projectiles[h]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (ar *Arena) Effects() []Effect     { return ar.effects }
func (ar *Arena) Target() *Player       { return ar.player }
func (ar *Arena) Grid() *NavGrid        { return ar.grid }
func (ar *Arena) Obstacles() []Box      { return ar.cfg.Obstacles }
func (ar *Arena) Size() (w, d float64)  { return ar.cfg.Width, ar.cfg.Depth }
func (ar *Arena) Tick() int             { return ar.tick }
func (ar *Arena) Time() float64         { return ar.time }
func (ar *Arena) Log() *SimLog          { return ar.simLog }
func (ar *Arena) Thoughts() *ThoughtLog { return ar.thoughts }
func (ar *Arena) Rand() *rand.Rand      { return ar.rng }
func (ar *Arena) Logger() *slog.Logger  { return ar.logger }
func (ar *Arena) Space() *cp.Space      { return ar.space }
