package game

//go:generate go tool mockgen -destination=./mocks/nav_mock.go -package=mocks . NavService
//go:generate go tool mockgen -destination=./mocks/spatial_mock.go -package=mocks . SpatialQuery
//go:generate go tool mockgen -destination=./mocks/world_mock.go -package=mocks . World
//go:generate go tool mockgen -destination=./mocks/target_mock.go -package=mocks . Target

// Faction tags bodies and projectiles. Projectiles never interact with bodies
// of their own faction.
type Faction int

const (
	FactionWorld Faction = iota
	FactionHostile
	FactionPlayer
)

func (f Faction) String() string {
	switch f {
	case FactionWorld:
		return "world"
	case FactionHostile:
		return "hostile"
	case FactionPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// ColliderID identifies a collider in the spatial world. Zero means none.
type ColliderID uint64

// Hit is the first collider struck by a raycast.
type Hit struct {
	Collider ColliderID
	Faction  Faction
	Point    Vec3
}

// SpatialQuery answers raycasts against world geometry and bodies.
// Colliders belonging to the ignore faction are transparent to the ray.
type SpatialQuery interface {
	Raycast(origin, dir Vec3, maxDist float64, ignore Faction) (Hit, bool)
}

// Damageable is anything a projectile can hurt.
type Damageable interface {
	TakeDamage(amount int)
}

// Target is the entity agents hunt.
type Target interface {
	Damageable
	ColliderID() ColliderID
	Position() Vec3
	CurrentHealth() int
}

// NavService drives one agent body across a navigable surface.
// SetDestination reports false when the point cannot be used. stop is the
// distance from the destination at which the body halts.
type NavService interface {
	SetDestination(p Vec3, stop float64) bool
	Stop()
	SampleValidPosition(p Vec3, radius float64) (Vec3, bool)
	IsOnNavigableSurface() bool
	RemainingDistance() float64
	IsPathPending() bool
	Velocity() Vec3
	Position() Vec3
	Advance(dt float64)
	Warp(p Vec3)
}

// ProjectileHandle identifies a live projectile owned by a World.
type ProjectileHandle uint64

// EffectKind names the transient effects the core asks the world to show.
type EffectKind int

const (
	EffectMuzzleFlash EffectKind = iota
	EffectHitFlash
	EffectImpact
)

func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "muzzle_flash"
	case EffectHitFlash:
		return "hit_flash"
	case EffectImpact:
		return "impact"
	default:
		return "unknown"
	}
}

// World owns projectiles and transient effects.
type World interface {
	SpawnProjectile(pos, vel Vec3, damage int, faction Faction) ProjectileHandle
	Destroy(h ProjectileHandle)
	EmitTransientEffect(kind EffectKind, pos Vec3)
}

// DeathHook is invoked once when an agent is defeated.
type DeathHook func(a *Agent)

// targetAlive reports whether t is attached and not defeated.
func targetAlive(t Target) bool {
	return t != nil && t.CurrentHealth() > 0
}
