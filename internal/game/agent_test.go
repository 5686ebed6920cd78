package game

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

const testDT = 1.0 / 60.0

// wallSpace reports either the target or a wall as the first thing hit.
type wallSpace struct {
	target  Target
	blocked bool
	casts   int
}

func (w *wallSpace) Raycast(origin, dir Vec3, maxDist float64, ignore Faction) (Hit, bool) {
	w.casts++
	if w.blocked {
		return Hit{Collider: 999, Faction: FactionWorld, Point: origin.Add(dir.Scale(maxDist / 2))}, true
	}
	return Hit{Collider: w.target.ColliderID(), Faction: FactionPlayer, Point: w.target.Position()}, true
}

type spawnRecord struct {
	pos, vel Vec3
	damage   int
	faction  Faction
}

type recordingWorld struct {
	spawned []spawnRecord
	effects []EffectKind
}

func (w *recordingWorld) SpawnProjectile(pos, vel Vec3, damage int, faction Faction) ProjectileHandle {
	w.spawned = append(w.spawned, spawnRecord{pos, vel, damage, faction})
	return ProjectileHandle(len(w.spawned))
}

func (w *recordingWorld) Destroy(ProjectileHandle) {}

func (w *recordingWorld) EmitTransientEffect(kind EffectKind, _ Vec3) {
	w.effects = append(w.effects, kind)
}

type agentRig struct {
	agent  *Agent
	target *Player
	space  *wallSpace
	world  *recordingWorld
	events *EventBuffer
	deaths int
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newRig(t testing.TB, p Profile, agentPos, targetPos Vec3) *agentRig {
	t.Helper()
	r := &agentRig{
		target: NewPlayer(7, targetPos, 1000),
		world:  &recordingWorld{},
		events: &EventBuffer{},
	}
	r.space = &wallSpace{target: r.target}
	a, err := NewAgent(AgentConfig{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(t.Name())),
		Label:    "H0",
		Profile:  p,
		Position: agentPos,
		Target:   r.target,
		Space:    r.space,
		World:    r.world,
		Events:   r.events,
		Logger:   quietLogger(),
		OnDeath:  func(*Agent) { r.deaths++ },
	})
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	r.agent = a
	return r
}

func (r *agentRig) step(n int) {
	for i := 0; i < n; i++ {
		r.agent.Update(testDT)
	}
}

// runUntil steps until pred holds and returns the number of ticks taken,
// or -1 after maxTicks.
func (r *agentRig) runUntil(pred func() bool, maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		r.agent.Update(testDT)
		if pred() {
			return i
		}
	}
	return -1
}

func (r *agentRig) inState(s State) func() bool {
	return func() bool { return r.agent.State() == s }
}

func TestAgent_TacticalStartsChasing(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 30}, Vec3{})
	if r.agent.State() != StateChase {
		t.Fatalf("initial state = %s, want chase", r.agent.State())
	}
	r.step(1)
	if !r.agent.Nav().HasDestination() {
		t.Fatal("chasing agent has no destination")
	}
	if r.agent.Position().X >= 30 {
		t.Fatal("agent did not close in")
	}
}

func TestAgent_ChaseToStrafeAtPreferredRange(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 15}, Vec3{})
	ticks := r.runUntil(r.inState(StateCombatStrafe), 300)
	if ticks < 0 {
		t.Fatalf("never reached strafe; state %s at distance %.2f", r.agent.State(), r.agent.Distance())
	}
	if r.agent.Distance() > r.agent.Profile().PreferredRange {
		t.Fatalf("entered strafe at %.2f, beyond preferred range", r.agent.Distance())
	}
	if got := r.events.Count(EventStateChanged); got != 1 {
		t.Fatalf("state changes = %d, want 1", got)
	}
}

func TestAgent_StrafeToChaseWhenTargetRetreats(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.step(1)
	if r.agent.State() != StateCombatStrafe {
		t.Fatalf("state = %s, want strafe", r.agent.State())
	}
	r.target.SetPosition(r.agent.Position().Add(Vec3{X: -25}))
	r.step(1)
	if r.agent.State() != StateChase {
		t.Fatalf("state = %s one tick after target left max range, want chase", r.agent.State())
	}
}

func TestAgent_TooCloseBacksAway(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 5}, Vec3{})
	if r.runUntil(r.inState(StateReposition), 3) < 0 {
		t.Fatalf("state = %s, want reposition", r.agent.State())
	}
	if r.agent.RepositionFlank() {
		t.Fatal("backing off should not flank")
	}
	if r.agent.RepositionTarget().FlatDist(Vec3{}) <= r.agent.Position().FlatDist(Vec3{}) {
		t.Fatal("reposition target is not further from the target")
	}
}

func TestAgent_BlockedLineOfSightFlanks(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.space.blocked = true
	ticks := r.runUntil(r.inState(StateReposition), 60)
	if ticks < 0 {
		t.Fatalf("no reposition within 1s of blocked sight; blocked=%.2f", r.agent.Perception().Blocked())
	}
	if !r.agent.RepositionFlank() {
		t.Fatal("blocked sight should trigger a flanking reposition")
	}
	if r.agent.Perception().Blocked() < r.agent.Profile().LOSBlockedTimeout {
		t.Fatalf("flanked with blocked time %.2f", r.agent.Perception().Blocked())
	}
}

func TestAgent_RestoredSightEndsRepositionEarly(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.space.blocked = true
	if r.runUntil(r.inState(StateReposition), 60) < 0 {
		t.Fatal("never repositioned")
	}
	r.space.blocked = false
	ticks := r.runUntil(r.inState(StateCombatStrafe), 60)
	if ticks < 0 {
		t.Fatal("reposition did not end after sight returned")
	}
	maxTicks := int(math.Ceil(r.agent.Profile().LOSCheckInterval/testDT)) + 1
	if ticks > maxTicks {
		t.Fatalf("left reposition after %d ticks, want within one check (%d)", ticks, maxTicks)
	}
}

func TestAgent_RepositionAlwaysTimesOut(t *testing.T) {
	p := TacticalProfile()
	p.DirectSpeed = 0.05
	r := newRig(t, p, Vec3{X: 10}, Vec3{})
	r.space.blocked = true
	if r.runUntil(r.inState(StateReposition), 120) < 0 {
		t.Fatal("never repositioned")
	}
	ticks := r.runUntil(func() bool { return r.agent.State() != StateReposition }, 600)
	limit := int(math.Ceil(p.RepositionTimeout/testDT)) + 1
	if ticks < 0 || ticks > limit {
		t.Fatalf("reposition lasted %d ticks, limit %d", ticks, limit)
	}
	if r.agent.State() != StateCombatStrafe {
		t.Fatalf("left reposition into %s, want strafe", r.agent.State())
	}
}

func TestAgent_StrafeFiresBursts(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.step(60)
	if r.agent.State() != StateCombatStrafe {
		t.Fatalf("state = %s, want strafe", r.agent.State())
	}
	if len(r.world.spawned) < defaultBurstCount {
		t.Fatalf("spawned %d projectiles in 1s, want at least a burst", len(r.world.spawned))
	}
	for _, s := range r.world.spawned {
		if s.faction != FactionHostile || s.damage != defaultShotDamage {
			t.Fatalf("projectile %+v", s)
		}
		if math.Abs(s.vel.Len()-defaultMuzzleSpeed) > 1e-6 {
			t.Fatalf("muzzle speed %.3f, want %v", s.vel.Len(), defaultMuzzleSpeed)
		}
	}
	if r.events.Count(EventBurstStarted) == 0 || r.events.Count(EventShotFired) != len(r.world.spawned) {
		t.Fatalf("bursts=%d shots=%d spawned=%d", r.events.Count(EventBurstStarted),
			r.events.Count(EventShotFired), len(r.world.spawned))
	}
	flashes := 0
	for _, k := range r.world.effects {
		if k == EffectMuzzleFlash {
			flashes++
		}
	}
	if flashes != len(r.world.spawned) {
		t.Fatalf("muzzle flashes %d, shots %d", flashes, len(r.world.spawned))
	}
}

func TestAgent_NoNewBurstWithoutSight(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.space.blocked = true
	if r.runUntil(r.inState(StateReposition), 60) < 0 {
		t.Fatal("never repositioned")
	}
	// Only the burst opened before the first check may fire.
	if got := r.events.Count(EventBurstStarted); got != 1 {
		t.Fatalf("bursts started = %d, want 1", got)
	}
}

func TestAgent_TargetRetreatAbortsBurst(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	if r.runUntil(func() bool { return r.agent.Weapon().Bursting() }, 30) < 0 {
		t.Fatal("never started a burst")
	}
	w := r.agent.Weapon()
	for w.Bursting() && w.shotTimer-testDT > timerEpsilon {
		r.step(1)
	}
	if !w.Bursting() {
		t.Fatal("burst finished before a round fell due")
	}
	spawned, shots := len(r.world.spawned), r.events.Count(EventShotFired)
	r.target.SetPosition(Vec3{X: 40})
	r.step(1)
	if r.agent.State() != StateChase {
		t.Fatalf("state = %s, want chase", r.agent.State())
	}
	if w.Bursting() {
		t.Fatal("burst survived the state change")
	}
	if len(r.world.spawned) != spawned || r.events.Count(EventShotFired) != shots {
		t.Fatalf("fired %d rounds on the tick the target left the band", len(r.world.spawned)-spawned)
	}
	if r.events.Count(EventBurstAborted) != 1 {
		t.Fatalf("aborted bursts = %d, want 1", r.events.Count(EventBurstAborted))
	}
}

func TestAgent_RangedHoldHysteresis(t *testing.T) {
	r := newRig(t, RangedProfile(), Vec3{}, Vec3{X: 9})
	r.step(1)
	if r.agent.State() != StateHold {
		t.Fatalf("at 9u state = %s, want hold", r.agent.State())
	}
	r.target.SetPosition(Vec3{X: 12})
	r.step(1)
	if r.agent.State() != StateHold {
		t.Fatalf("at 12u state = %s, want hold inside the resume band", r.agent.State())
	}
	r.target.SetPosition(Vec3{X: 15})
	r.step(1)
	if r.agent.State() != StateChase {
		t.Fatalf("at 15u state = %s, want chase", r.agent.State())
	}
	r.target.SetPosition(r.agent.Position().Add(Vec3{X: 30}))
	r.step(1)
	if r.agent.State() != StateIdle {
		t.Fatalf("beyond detection range state = %s, want idle", r.agent.State())
	}
}

func TestAgent_RangedSingleShots(t *testing.T) {
	r := newRig(t, RangedProfile(), Vec3{}, Vec3{X: 8})
	r.step(150)
	// Fires on the first tick, then every 1.2s.
	if n := len(r.world.spawned); n != 3 {
		t.Fatalf("spawned %d rounds in 2.5s, want 3", n)
	}
}

func TestAgent_ChaserHitscan(t *testing.T) {
	r := newRig(t, ChaserProfile(), Vec3{}, Vec3{X: 8})
	r.step(1)
	if r.agent.State() != StateHold {
		t.Fatalf("state = %s, want hold", r.agent.State())
	}
	if got := r.target.CurrentHealth(); got != 990 {
		t.Fatalf("target health = %d, want 990 after one hitscan round", got)
	}
	if len(r.world.spawned) != 0 {
		t.Fatal("hitscan weapon spawned projectiles")
	}
}

func TestAgent_ChaserChasesWhenBlocked(t *testing.T) {
	r := newRig(t, ChaserProfile(), Vec3{}, Vec3{X: 8})
	r.step(1)
	r.space.blocked = true
	if r.runUntil(r.inState(StateChase), 12) < 0 {
		t.Fatalf("state = %s with blocked sight, want chase", r.agent.State())
	}
	health := r.target.CurrentHealth()
	r.step(30)
	if r.target.CurrentHealth() != health {
		t.Fatal("hitscan damage through a wall")
	}
}

func TestAgent_DeathByDamage(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	for i := 0; i < 4; i++ {
		r.agent.TakeDamage(10)
	}
	if r.agent.Health() != 10 || r.agent.State() == StateDead {
		t.Fatalf("health=%d state=%s", r.agent.Health(), r.agent.State())
	}
	if r.agent.HitFlash() <= 0 {
		t.Fatal("hit flash not set")
	}
	r.agent.TakeDamage(25)
	if r.agent.State() != StateDead || r.agent.Health() != 0 {
		t.Fatalf("health=%d state=%s, want dead", r.agent.Health(), r.agent.State())
	}
	r.agent.TakeDamage(10)
	r.agent.Kill()
	if r.deaths != 1 || r.events.Count(EventAgentDied) != 1 {
		t.Fatalf("death hook %d, died events %d, want 1 each", r.deaths, r.events.Count(EventAgentDied))
	}
	if r.events.Count(EventAgentHit) != 5 {
		t.Fatalf("hit events = %d, want 5", r.events.Count(EventAgentHit))
	}
}

func TestAgent_HitFlashDecays(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.agent.TakeDamage(1)
	r.step(7)
	if r.agent.HitFlash() != 0 {
		t.Fatalf("hit flash %.3f after 0.116s, want 0", r.agent.HitFlash())
	}
}

func TestAgent_DefeatedTargetEndsAgent(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.target.TakeDamage(5000)
	r.step(1)
	if r.agent.State() != StateDead {
		t.Fatalf("state = %s, want dead once the target is gone", r.agent.State())
	}
	if r.deaths != 0 {
		t.Fatal("losing the target is not a kill")
	}
}

func TestAgent_NilTarget(t *testing.T) {
	events := &EventBuffer{}
	a, err := NewAgent(AgentConfig{Profile: TacticalProfile(), Events: events, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	a.Update(testDT)
	if a.State() != StateDead {
		t.Fatalf("state = %s, want dead", a.State())
	}
}

func TestAgent_MissingDependenciesWarnOnce(t *testing.T) {
	events := &EventBuffer{}
	target := NewPlayer(1, Vec3{}, 100)
	a, err := NewAgent(AgentConfig{
		Profile:  TacticalProfile(),
		Position: Vec3{X: 10},
		Target:   target,
		Events:   events,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := events.Count(EventMissingDependency); got != 3 {
		t.Fatalf("missing dependency events = %d, want 3 (nav, space, world)", got)
	}
	for i := 0; i < 120; i++ {
		a.Update(testDT)
	}
	if got := events.Count(EventMissingDependency); got != 3 {
		t.Fatalf("missing dependency events = %d after running, want still 3", got)
	}
	if a.State() != StateCombatStrafe {
		t.Fatalf("state = %s, want strafe", a.State())
	}
	if a.Shots() != 0 {
		t.Fatal("fired without a world")
	}
}

func TestAgent_IdentityFromID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	mk := func() *Agent {
		a, err := NewAgent(AgentConfig{ID: id, Profile: TacticalProfile(), Logger: quietLogger()})
		if err != nil {
			t.Fatal(err)
		}
		return a
	}
	a, b := mk(), mk()
	if a.OrbitAngle() != b.OrbitAngle() || a.AvoidancePriority() != b.AvoidancePriority() {
		t.Fatal("identity-derived values differ for the same id")
	}
	if a.OrbitAngle() < 0 || a.OrbitAngle() >= 2*math.Pi {
		t.Fatalf("orbit angle %v outside [0, 2pi)", a.OrbitAngle())
	}
	if p := a.AvoidancePriority(); p < 30 || p > 70 {
		t.Fatalf("avoidance priority %d outside [30, 70]", p)
	}
	if a.Label() != id.String()[:8] {
		t.Fatalf("default label %q", a.Label())
	}
}

func TestAgent_OrbitAnglesSpread(t *testing.T) {
	seen := map[float64]bool{}
	for i := 0; i < 50; i++ {
		a, err := NewAgent(AgentConfig{
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i)}),
			Profile: TacticalProfile(),
			Logger:  quietLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}
		seen[a.OrbitAngle()] = true
	}
	if len(seen) < 25 {
		t.Fatalf("only %d distinct orbit angles for 50 agents", len(seen))
	}
}

func TestAgent_InvalidProfileRejected(t *testing.T) {
	p := TacticalProfile()
	p.MinRange = 30
	if _, err := NewAgent(AgentConfig{Profile: p}); err == nil {
		t.Fatal("expected an error for min > preferred")
	}
}

func TestAgent_SetProfileSwitchesPolicy(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.step(1)
	if err := r.agent.SetProfile(RangedProfile()); err != nil {
		t.Fatal(err)
	}
	if r.agent.State() != StateIdle {
		t.Fatalf("state = %s after switching to approach, want idle", r.agent.State())
	}
	r.step(1)
	if r.agent.State() != StateHold && r.agent.State() != StateChase {
		t.Fatalf("approach agent state = %s", r.agent.State())
	}
	bad := RangedProfile()
	bad.ShootRange = 0
	if err := r.agent.SetProfile(bad); err == nil {
		t.Fatal("invalid profile accepted")
	}
}

func TestAgent_FacesTargetGradually(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 10}, Vec3{})
	r.step(1)
	r.target.SetPosition(Vec3{X: 10, Z: 10})
	before := r.agent.Yaw()
	r.step(1)
	maxStep := r.agent.Profile().TurnRate * math.Pi / 180 * testDT
	if d := math.Abs(normalizeAngle(r.agent.Yaw() - before)); d > maxStep+1e-9 {
		t.Fatalf("turned %.4f rad in one tick, max %.4f", d, maxStep)
	}
}

func TestAgent_DeadIsInert(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := newRig(t, TacticalProfile(), Vec3{X: rapid.Float64Range(1, 30).Draw(rt, "x")}, Vec3{})
		r.step(rapid.IntRange(0, 60).Draw(rt, "warmup"))
		r.agent.Kill()
		r.events.Reset()
		spawned := len(r.world.spawned)
		pos := r.agent.Position()

		moves := rapid.SliceOfN(rapid.Float64Range(-40, 40), 0, 20).Draw(rt, "moves")
		for _, m := range moves {
			r.target.SetPosition(Vec3{X: m, Z: -m / 2})
			r.agent.Update(testDT)
			r.agent.TakeDamage(10)
		}
		if len(r.events.Events) != 0 {
			rt.Fatalf("dead agent emitted %v", r.events.Events[0])
		}
		if len(r.world.spawned) != spawned || r.agent.Position() != pos {
			rt.Fatal("dead agent acted")
		}
	})
}

func TestAgent_StrafeFlipInterval(t *testing.T) {
	r := newRig(t, TacticalProfile(), Vec3{X: 12}, Vec3{})
	a := r.agent
	p := a.Profile()
	a.setState(StateCombatStrafe)
	a.lastDist = 12

	draws := []float64{a.strafeFlipTimer}
	last := a.strafeFlipTimer
	ticksSince := 0
	for i := 0; i < 60*32; i++ {
		a.updateStrafe(12, testDT)
		ticksSince++
		if d := a.StrafeDirection(); d != 1 && d != -1 {
			t.Fatalf("strafe direction %d", d)
		}
		if a.strafeFlipTimer > last {
			prev := draws[len(draws)-1]
			held := float64(ticksSince) * testDT
			if held < prev-1e-6 || held > prev+testDT+1e-6 {
				t.Fatalf("flipped after %.3fs, drawn interval %.3fs", held, prev)
			}
			draws = append(draws, a.strafeFlipTimer)
			ticksSince = 0
		}
		last = a.strafeFlipTimer
	}

	if len(draws) < 11 {
		t.Fatalf("%d flips in 32s, want at least 10", len(draws)-1)
	}
	distinct := map[float64]bool{}
	for _, d := range draws {
		if d < p.StrafeFlipMin || d > p.StrafeFlipMax {
			t.Fatalf("flip interval %.3f outside [%v, %v]", d, p.StrafeFlipMin, p.StrafeFlipMax)
		}
		distinct[d] = true
	}
	if len(distinct) < len(draws)/2 {
		t.Fatalf("flip interval not re-drawn: %v", draws)
	}
}
