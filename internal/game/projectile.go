package game

// ProjectileState is the projectile lifecycle. Every state but Active is terminal.
type ProjectileState int

const (
	ProjectileActive ProjectileState = iota
	ProjectileExpired
	ProjectileHitTarget
	ProjectileHitWorld
)

func (s ProjectileState) String() string {
	switch s {
	case ProjectileActive:
		return "active"
	case ProjectileExpired:
		return "expired"
	case ProjectileHitTarget:
		return "hit_target"
	case ProjectileHitWorld:
		return "hit_world"
	default:
		return "unknown"
	}
}

// Projectile is a bullet in flight.
type Projectile struct {
	Handle    ProjectileHandle
	Pos       Vec3
	Vel       Vec3
	Damage    int
	Remaining float64 // seconds of flight left
	Faction   Faction
	State     ProjectileState
}

// NewProjectile creates an active projectile.
func NewProjectile(h ProjectileHandle, pos, vel Vec3, damage int, faction Faction, lifetime float64) *Projectile {
	return &Projectile{
		Handle:    h,
		Pos:       pos,
		Vel:       vel,
		Damage:    damage,
		Remaining: lifetime,
		Faction:   faction,
	}
}

// Contact describes what a projectile touched. Victim is nil for bodies that
// cannot be damaged.
type Contact struct {
	Faction Faction
	Victim  Damageable
	Point   Vec3
}

// Resolve applies a contact. It reports whether the projectile was consumed;
// contacts with its own faction are ignored and it flies on.
func (p *Projectile) Resolve(c Contact) bool {
	if p.State != ProjectileActive {
		return false
	}
	if c.Faction == p.Faction {
		return false
	}
	p.Pos = c.Point
	if c.Victim != nil {
		c.Victim.TakeDamage(p.Damage)
		p.State = ProjectileHitTarget
		return true
	}
	p.State = ProjectileHitWorld
	return true
}

// Age burns dt of lifetime and reports whether the projectile expired.
func (p *Projectile) Age(dt float64) bool {
	if p.State != ProjectileActive {
		return false
	}
	p.Remaining -= dt
	if p.Remaining <= timerEpsilon {
		p.State = ProjectileExpired
		return true
	}
	return false
}

// Sweep is the segment the projectile covers this tick.
func (p *Projectile) Sweep(dt float64) (from, to Vec3) {
	return p.Pos, p.Pos.Add(p.Vel.Scale(dt))
}

// Done reports whether the projectile reached a terminal state.
func (p *Projectile) Done() bool { return p.State != ProjectileActive }
