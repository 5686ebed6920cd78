package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// State is the agent's combat posture.
type State int

const (
	StateIdle         State = iota // target beyond detection range
	StateChase                     // closing on the target
	StateHold                      // stopped and shooting
	StateCombatStrafe              // circling at range and shooting
	StateReposition                // breaking contact or flanking
	StateDead                      // terminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChase:
		return "chase"
	case StateHold:
		return "hold"
	case StateCombatStrafe:
		return "strafe"
	case StateReposition:
		return "reposition"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

type missingDep uint8

const (
	missingTarget missingDep = 1 << iota
	missingNav
	missingSpace
	missingWorld
)

const (
	avoidancePriorityBase  = 30
	avoidancePrioritySpan  = 41
	defaultSampleRange     = 3.0
	relaxedRepositionScale = 0.5
)

// AgentConfig wires an agent to its collaborators. Only Profile is required;
// missing collaborators are logged once and the agent degrades around them.
type AgentConfig struct {
	ID       uuid.UUID
	Label    string
	Profile  Profile
	Position Vec3
	Yaw      float64
	Faction  Faction
	Target   Target
	Nav      NavService
	Space    SpatialQuery
	World    World
	Events   EventSink
	Logger   *slog.Logger
	Thoughts *ThoughtLog
	OnDeath  DeathHook
}

// Agent is one hostile combatant. It is driven by Update on the simulation
// goroutine and must not be shared across goroutines.
type Agent struct {
	id       uuid.UUID
	label    string
	faction  Faction
	collider ColliderID
	profile  Profile

	state      State
	facing     Facing
	target     Target
	nav        *NavAdapter
	space      SpatialQuery
	world      World
	weapon     *BurstController
	perception Perception
	rng        *rand.Rand

	events   EventSink
	log      *slog.Logger
	thoughts *ThoughtLog
	onDeath  DeathHook

	orbitAngle        float64 // radians
	avoidancePriority int

	health   int
	hitFlash float64

	strafeDir          int
	strafeFlipTimer    float64
	strafeRefreshTimer float64

	repositionTarget  Vec3
	repositionElapsed float64
	repositionFlank   bool

	tick     int
	lastDist float64
	warned   missingDep
	shots    int
}

// identityHash is the stable per-agent hash used for tie-breaking.
func identityHash(id uuid.UUID) uint64 {
	return xxhash.Sum64(id[:])
}

// NewAgent builds an agent from cfg. Tactical agents start chasing;
// approach agents start idle until their first update.
func NewAgent(cfg AgentConfig) (*Agent, error) {
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	id := cfg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	label := cfg.Label
	if label == "" {
		label = id.String()[:8]
	}
	faction := cfg.Faction
	if faction == FactionWorld {
		faction = FactionHostile
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var events EventSink = discardSink{}
	if cfg.Events != nil {
		events = cfg.Events
	}

	h := identityHash(id)
	p := cfg.Profile
	a := &Agent{
		id:                id,
		label:             label,
		faction:           faction,
		profile:           p,
		target:            cfg.Target,
		space:             cfg.Space,
		world:             cfg.World,
		perception:        NewPerception(p.LOSCheckInterval),
		rng:               rand.New(rand.NewSource(int64(h))), // #nosec G404 -- simulation only
		events:            events,
		log:               logger.With("agent", label, "profile", p.Name),
		thoughts:          cfg.Thoughts,
		onDeath:           cfg.OnDeath,
		orbitAngle:        float64(h%360) * math.Pi / 180,
		avoidancePriority: avoidancePriorityBase + int(h%avoidancePrioritySpan),
		health:            p.MaxHealth,
	}
	a.nav = NewNavAdapter(cfg.Nav, cfg.Position, p.DirectSpeed)
	a.weapon = NewBurstController(p.Weapon, a.rng)
	a.weapon.OnStart = a.burstStarted
	a.weapon.OnEnd = a.burstEnded

	yaw := cfg.Yaw
	if cfg.Target != nil {
		if tp := cfg.Target.Position(); !tp.Sub(cfg.Position).Flat().IsZero() {
			yaw = HeadingTo(cfg.Position, tp)
		}
	}
	a.facing = NewFacing(yaw, p.TurnRate)
	a.strafeDir = a.randomSign()
	a.strafeFlipTimer = a.drawFlipInterval()

	if p.Policy == PolicyTactical {
		a.state = StateChase
	} else {
		a.state = StateIdle
	}

	if cfg.Target == nil {
		a.warnOnce(missingTarget, "no target attached")
	}
	if !a.nav.Managed() {
		a.warnOnce(missingNav, "navigation unavailable, moving directly")
	}
	if cfg.Space == nil {
		a.warnOnce(missingSpace, "no spatial query, assuming clear line of sight")
	}
	if cfg.World == nil && !p.Weapon.Hitscan {
		a.warnOnce(missingWorld, "no world to spawn projectiles, weapon disabled")
	}
	return a, nil
}

func (a *Agent) ID() uuid.UUID              { return a.id }
func (a *Agent) Label() string              { return a.label }
func (a *Agent) Faction() Faction           { return a.faction }
func (a *Agent) State() State               { return a.state }
func (a *Agent) Profile() Profile           { return a.profile }
func (a *Agent) Position() Vec3             { return a.nav.Position() }
func (a *Agent) Yaw() float64               { return a.facing.Yaw }
func (a *Agent) Health() int                { return a.health }
func (a *Agent) HitFlash() float64          { return a.hitFlash }
func (a *Agent) OrbitAngle() float64        { return a.orbitAngle }
func (a *Agent) AvoidancePriority() int     { return a.avoidancePriority }
func (a *Agent) StrafeDirection() int       { return a.strafeDir }
func (a *Agent) RepositionTarget() Vec3     { return a.repositionTarget }
func (a *Agent) RepositionFlank() bool      { return a.repositionFlank }
func (a *Agent) Nav() *NavAdapter           { return a.nav }
func (a *Agent) Weapon() *BurstController   { return a.weapon }
func (a *Agent) Perception() Perception     { return a.perception }
func (a *Agent) Shots() int                 { return a.shots }
func (a *Agent) Distance() float64          { return a.lastDist }
func (a *Agent) ColliderID() ColliderID     { return a.collider }
func (a *Agent) SetColliderID(c ColliderID) { a.collider = c }

// Muzzle is the weapon origin in world space.
func (a *Agent) Muzzle() Vec3 {
	return LocalToWorld(a.nav.Position(), a.facing.Yaw, a.profile.MuzzleOffset)
}

// SetTarget attaches a new target. Dead agents ignore it.
func (a *Agent) SetTarget(t Target) {
	if a.state == StateDead {
		return
	}
	a.target = t
	a.perception.Reset()
}

// SetProfile swaps parameters on a live agent. Health and state are kept.
func (a *Agent) SetProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if a.state == StateDead {
		return nil
	}
	policyChanged := p.Policy != a.profile.Policy
	a.profile = p
	a.log = a.log.With("profile", p.Name)
	a.weapon.SetProfile(p.Weapon)
	a.facing.TurnRate = p.TurnRate * math.Pi / 180
	a.nav.directSpeed = p.DirectSpeed
	a.perception.interval = p.LOSCheckInterval
	if policyChanged {
		if p.Policy == PolicyTactical {
			a.setState(StateChase)
		} else {
			a.setState(StateIdle)
		}
	}
	return nil
}

// Update runs one tick: orientation, perception, weapon timers, the state
// machine, then movement.
func (a *Agent) Update(dt float64) {
	if a.state == StateDead {
		return
	}
	a.tick++
	if a.hitFlash > 0 {
		a.hitFlash = math.Max(0, a.hitFlash-dt)
	}
	if !targetAlive(a.target) {
		a.die("target lost", false)
		return
	}

	pos := a.nav.Position()
	tpos := a.target.Position()
	dist := pos.FlatDist(tpos)
	a.lastDist = dist

	if a.profile.Policy == PolicyApproach && a.profile.DetectionRange > 0 && dist > a.profile.DetectionRange {
		a.setState(StateIdle)
		a.nav.Advance(dt)
		return
	}

	a.facing.Face(pos, tpos, dt)
	a.perception.Update(dt, a.losProbe())
	a.weapon.Update(dt, a.nav.Speed(), a.fire)

	if a.profile.Policy == PolicyTactical {
		a.updateTactical(dist, dt)
	} else {
		a.updateApproach(dist)
	}
	a.nav.Advance(dt)
}

func (a *Agent) losProbe() func() bool {
	if a.space == nil {
		return func() bool { return true }
	}
	return func() bool {
		return LineOfSight(a.space, a.Muzzle(), a.target, a.faction)
	}
}

// --- Tactical policy ---

func (a *Agent) updateTactical(dist, dt float64) {
	p := a.profile
	switch a.state {
	case StateIdle, StateHold:
		a.setState(StateChase)
	case StateChase:
		if dist <= p.PreferredRange {
			a.setState(StateCombatStrafe)
			return
		}
		a.chase()
	case StateCombatStrafe:
		a.updateStrafe(dist, dt)
	case StateReposition:
		a.updateReposition(dist, dt)
	}
}

func (a *Agent) updateStrafe(dist, dt float64) {
	p := a.profile
	if dist > p.MaxRange {
		a.setState(StateChase)
		return
	}
	if dist < p.MinRange {
		a.think("too close, backing off")
		a.startReposition(false)
		return
	}
	if !a.perception.Visible() && a.perception.Blocked() >= p.LOSBlockedTimeout {
		a.think(fmt.Sprintf("no line of sight for %.1fs, flanking", a.perception.Blocked()))
		a.startReposition(true)
		return
	}

	a.strafeFlipTimer -= dt
	if a.strafeFlipTimer <= timerEpsilon {
		a.strafeDir = a.randomSign()
		a.strafeFlipTimer = a.drawFlipInterval()
	}
	a.strafeRefreshTimer -= dt
	if a.strafeRefreshTimer <= timerEpsilon {
		a.refreshStrafe()
		a.strafeRefreshTimer = p.StrafeRefresh
	}

	if a.perception.Visible() && dist >= p.MinRange && dist <= p.MaxRange {
		a.tryFire()
	}
}

func (a *Agent) refreshStrafe() {
	p := a.profile
	pos, tpos := a.nav.Position(), a.target.Position()
	d := StrafeDestination(pos, tpos, a.strafeDir, p.StrafeRadius, p.PreferredRange, true)
	if a.goTo(d, p.StrafeStop, a.sampleRange(p.StrafeSampleRange)) {
		return
	}
	d = StrafeDestination(pos, tpos, a.strafeDir, p.StrafeRadius, p.PreferredRange, false)
	if a.goTo(d, p.StrafeStop, a.sampleRange(p.StrafeSampleRange)) {
		return
	}
	a.holdPosition(d)
}

func (a *Agent) startReposition(flank bool) {
	p := a.profile
	a.setState(StateReposition)
	a.repositionElapsed = 0
	a.repositionFlank = flank

	pos, tpos := a.nav.Position(), a.target.Position()
	radius := a.sampleRange(p.RepositionSampleRange)
	d := RepositionDestination(pos, tpos, flank, p.RepositionDistance)
	if a.goTo(d, 0, radius) {
		a.repositionTarget = a.nav.Destination()
		return
	}
	relaxed := RepositionDestination(pos, tpos, false, p.RepositionDistance*relaxedRepositionScale)
	if a.goTo(relaxed, 0, radius) {
		a.repositionTarget = a.nav.Destination()
		return
	}
	a.repositionTarget = pos
	a.holdPosition(d)
}

func (a *Agent) updateReposition(dist, dt float64) {
	p := a.profile
	a.repositionElapsed += dt
	if a.repositionElapsed+timerEpsilon >= p.RepositionTimeout {
		a.setState(StateCombatStrafe)
		return
	}
	if !a.nav.IsPathPending() && a.nav.RemainingDistance() < p.RepositionArrival {
		a.setState(StateCombatStrafe)
		return
	}
	if dist >= p.MinRange && dist <= p.MaxRange && a.perception.Visible() {
		a.setState(StateCombatStrafe)
	}
}

// --- Approach policy ---

func (a *Agent) updateApproach(dist float64) {
	p := a.profile
	visible := a.perception.Visible()
	inRange := dist <= p.ShootRange && (!p.ChaseWhenBlocked || visible)

	switch a.state {
	case StateChase:
		if inRange {
			a.setState(StateHold)
		}
	case StateHold:
		if dist > p.ResumeChaseRange || (p.ChaseWhenBlocked && !visible) {
			a.setState(StateChase)
		}
	default:
		if inRange {
			a.setState(StateHold)
		} else {
			a.setState(StateChase)
		}
	}

	switch a.state {
	case StateChase:
		a.chase()
	case StateHold:
		a.nav.Stop()
		if visible {
			a.tryFire()
		}
	}
}

// --- Movement helpers ---

func (a *Agent) chase() {
	p := a.profile
	tpos := a.target.Position()
	radius := a.sampleRange(p.StrafeSampleRange)
	if a.goTo(ChaseDestination(tpos, a.orbitAngle, p.SurroundRadius), 0, radius) {
		return
	}
	if a.goTo(tpos, 0, radius) {
		return
	}
	a.holdPosition(tpos)
}

// goTo snaps p onto the navigable surface and requests it.
func (a *Agent) goTo(p Vec3, stop, radius float64) bool {
	s, ok := a.nav.SampleValidPosition(p, radius)
	if !ok {
		return false
	}
	return a.nav.RequestDestination(s, stop)
}

func (a *Agent) holdPosition(rejected Vec3) {
	a.nav.Stop()
	a.log.Debug("no valid destination, holding", "x", rejected.X, "z", rejected.Z)
	a.emit(Event{Kind: EventInvalidDestination, Pos: rejected})
}

func (a *Agent) sampleRange(r float64) float64 {
	if r <= 0 {
		return defaultSampleRange
	}
	return r
}

func (a *Agent) randomSign() int {
	if a.rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

func (a *Agent) drawFlipInterval() float64 {
	lo, hi := a.profile.StrafeFlipMin, a.profile.StrafeFlipMax
	if hi <= lo {
		return lo
	}
	return lo + a.rng.Float64()*(hi-lo)
}

// --- Weapon ---

func (a *Agent) tryFire() {
	if a.weapon.Ready() {
		a.weapon.TryFire(a.nav.Speed(), a.fire)
	}
}

func (a *Agent) fire(s Shot) bool {
	if !a.inFiringPosition() || !targetAlive(a.target) {
		return false
	}
	w := a.profile.Weapon
	origin := a.Muzzle()
	if w.Hitscan {
		if !a.perception.Visible() {
			return false
		}
		a.target.TakeDamage(w.Damage)
		a.shots++
		a.emit(Event{Kind: EventShotFired, Pos: origin, Value: 0, Detail: "hitscan"})
		return true
	}
	if a.world == nil {
		a.warnOnce(missingWorld, "no world to spawn projectiles, weapon disabled")
		return false
	}
	dir := a.target.Position().Sub(origin).Normalize()
	if dir.IsZero() {
		dir = a.facing.Forward()
	}
	dir = Deflect(dir, s.YawOffset, s.PitchOffset)
	a.world.SpawnProjectile(origin, dir.Scale(w.MuzzleSpeed), w.Damage, a.faction)
	a.world.EmitTransientEffect(EffectMuzzleFlash, origin)
	a.shots++
	a.emit(Event{
		Kind:   EventShotFired,
		Pos:    origin,
		Value:  s.Spread,
		Detail: fmt.Sprintf("round %d spread %.1f", s.Index+1, s.Spread),
	})
	return true
}

// inFiringPosition gates every round, including those already queued in a
// burst. Weapon timers run before the state machine, so a round can fall due
// on the tick the target leaves the band.
func (a *Agent) inFiringPosition() bool {
	p := a.profile
	switch a.state {
	case StateCombatStrafe:
		return a.lastDist >= p.MinRange && a.lastDist <= p.MaxRange
	case StateHold:
		return a.lastDist <= p.ResumeChaseRange
	default:
		return false
	}
}

func (a *Agent) burstStarted() {
	a.emit(Event{Kind: EventBurstStarted, Value: a.lastDist})
}

func (a *Agent) burstEnded(fired int, aborted bool) {
	k := EventBurstEnded
	if aborted {
		k = EventBurstAborted
	}
	a.emit(Event{Kind: k, Value: float64(fired)})
}

// --- Health ---

// TakeDamage applies a hit. Reaching zero health kills the agent.
func (a *Agent) TakeDamage(amount int) {
	if a.state == StateDead || amount <= 0 {
		return
	}
	a.health = max(a.health-amount, 0)
	a.hitFlash = a.profile.HitFlash
	if a.world != nil {
		a.world.EmitTransientEffect(EffectHitFlash, a.nav.Position())
	}
	a.emit(Event{Kind: EventAgentHit, Value: float64(a.health)})
	if a.health == 0 {
		a.die("killed", true)
	}
}

// Kill defeats the agent outright.
func (a *Agent) Kill() {
	if a.state == StateDead {
		return
	}
	a.health = 0
	a.die("killed", true)
}

func (a *Agent) die(reason string, killed bool) {
	a.setState(StateDead)
	a.nav.Stop()
	a.log.Info("agent down", "reason", reason)
	if !killed {
		return
	}
	a.emit(Event{Kind: EventAgentDied, Detail: reason})
	if a.onDeath != nil {
		a.onDeath(a)
	}
}

// --- State bookkeeping ---

func (a *Agent) setState(next State) {
	prev := a.state
	if prev == next || prev == StateDead {
		return
	}
	a.weapon.Abort()
	a.nav.Stop()
	a.state = next
	if next == StateCombatStrafe {
		a.strafeRefreshTimer = 0
	}
	a.emit(Event{Kind: EventStateChanged, From: prev, To: next, Value: a.lastDist})
	a.think(fmt.Sprintf("%s → %s (%.1fu)", prev, next, a.lastDist))
	a.log.Debug("state change", "from", prev.String(), "to", next.String(), "distance", a.lastDist)
}

func (a *Agent) emit(e Event) {
	e.AgentID = a.id
	e.Agent = a.label
	if e.Pos.IsZero() {
		e.Pos = a.nav.Position()
	}
	a.events.Emit(e)
}

func (a *Agent) think(msg string) {
	if a.thoughts != nil {
		a.thoughts.Add(a.tick, a.label, msg)
	}
}

func (a *Agent) warnOnce(dep missingDep, msg string) {
	if a.warned&dep != 0 {
		return
	}
	a.warned |= dep
	a.log.Warn(msg)
	a.emit(Event{Kind: EventMissingDependency, Detail: msg})
}
