package game

import (
	"math"
	"math/rand"
)

// --- Weapon defaults ---

const (
	defaultBurstCount     = 3
	defaultBurstInterval  = 0.12 // s between rounds in a burst
	defaultCooldownMin    = 0.9  // s
	defaultCooldownMax    = 1.4  // s
	defaultSpreadStanding = 1.0  // degrees
	defaultSpreadMoving   = 3.0  // degrees
	defaultMuzzleSpeed    = 22.0 // units/s
	defaultShotDamage     = 10
	defaultBulletLifetime = 2.5 // s
	timerEpsilon          = 1e-9
)

// WeaponProfile parameterises a BurstController.
type WeaponProfile struct {
	BurstCount      int     `yaml:"burst_count"`
	BurstInterval   float64 `yaml:"burst_interval"`
	CooldownMin     float64 `yaml:"cooldown_min"`
	CooldownMax     float64 `yaml:"cooldown_max"`
	SpreadStanding  float64 `yaml:"spread_standing"`
	SpreadMoving    float64 `yaml:"spread_moving"`
	MovingThreshold float64 `yaml:"moving_threshold"`
	MuzzleSpeed     float64 `yaml:"muzzle_speed"`
	Damage          int     `yaml:"damage"`
	Hitscan         bool    `yaml:"hitscan"`
}

// DefaultWeapon is the three-round burst rifle.
func DefaultWeapon() WeaponProfile {
	return WeaponProfile{
		BurstCount:      defaultBurstCount,
		BurstInterval:   defaultBurstInterval,
		CooldownMin:     defaultCooldownMin,
		CooldownMax:     defaultCooldownMax,
		SpreadStanding:  defaultSpreadStanding,
		SpreadMoving:    defaultSpreadMoving,
		MovingThreshold: movingThreshold,
		MuzzleSpeed:     defaultMuzzleSpeed,
		Damage:          defaultShotDamage,
	}
}

// Shot is one round the controller wants fired.
type Shot struct {
	Index       int     // position within the burst, from 0
	Spread      float64 // degrees, the bound the offsets were drawn from
	YawOffset   float64 // degrees
	PitchOffset float64 // degrees
}

// FireFunc fires a shot. Returning false aborts the burst.
type FireFunc func(s Shot) bool

// BurstController runs timed bursts and the cooldown between them.
// All waits are countdowns advanced by Update.
type BurstController struct {
	profile WeaponProfile
	rng     *rand.Rand

	bursting     bool
	shotsFired   int
	shotTimer    float64
	sinceBurst   float64
	nextCooldown float64

	bursts  int
	aborted int

	// OnStart runs before the first round of a burst; OnEnd after the last
	// round or an abort.
	OnStart func()
	OnEnd   func(fired int, aborted bool)
}

// NewBurstController draws the first cooldown and starts ready to fire.
func NewBurstController(p WeaponProfile, rng *rand.Rand) *BurstController {
	b := &BurstController{profile: p, rng: rng}
	b.nextCooldown = b.drawCooldown()
	b.sinceBurst = b.nextCooldown
	return b
}

// SetProfile swaps the weapon parameters. An active burst is aborted.
func (b *BurstController) SetProfile(p WeaponProfile) {
	b.Abort()
	b.profile = p
}

// Profile returns the active weapon parameters.
func (b *BurstController) Profile() WeaponProfile { return b.profile }

// ShotsFired is the number of rounds fired in the current or last burst.
func (b *BurstController) ShotsFired() int { return b.shotsFired }

func (b *BurstController) drawCooldown() float64 {
	lo, hi := b.profile.CooldownMin, b.profile.CooldownMax
	if hi <= lo {
		return lo
	}
	return lo + b.rng.Float64()*(hi-lo)
}

// SpreadFor selects the spread bound for the shooter's current speed.
func (b *BurstController) SpreadFor(speed float64) float64 {
	if speed > b.profile.MovingThreshold {
		return b.profile.SpreadMoving
	}
	return b.profile.SpreadStanding
}

func (b *BurstController) nextShot(speed float64) Shot {
	s := b.SpreadFor(speed)
	sh := Shot{Index: b.shotsFired, Spread: s}
	if s > 0 {
		sh.YawOffset = (b.rng.Float64()*2 - 1) * s
		sh.PitchOffset = (b.rng.Float64()*2 - 1) * s
	}
	return sh
}

// Ready reports whether a new burst may start.
func (b *BurstController) Ready() bool {
	return !b.bursting && b.sinceBurst+timerEpsilon >= b.nextCooldown
}

// Bursting reports whether a burst is in progress.
func (b *BurstController) Bursting() bool { return b.bursting }

// Cooldown is the wait drawn for the current gap between bursts.
func (b *BurstController) Cooldown() float64 { return b.nextCooldown }

// Bursts counts bursts started; Aborted counts bursts cut short.
func (b *BurstController) Bursts() int  { return b.bursts }
func (b *BurstController) Aborted() int { return b.aborted }

// TryFire starts a burst when the cooldown has elapsed. The first round is
// fired immediately through fire.
func (b *BurstController) TryFire(speed float64, fire FireFunc) bool {
	if !b.Ready() {
		return false
	}
	b.bursting = true
	b.shotsFired = 0
	b.bursts++
	if b.OnStart != nil {
		b.OnStart()
	}
	b.fireNext(speed, fire)
	return true
}

// Update advances the burst and cooldown timers by dt, firing any rounds
// that fall due.
func (b *BurstController) Update(dt, speed float64, fire FireFunc) {
	if !b.bursting {
		b.sinceBurst += dt
		return
	}
	b.shotTimer -= dt
	for b.bursting && b.shotTimer <= timerEpsilon {
		b.fireNext(speed, fire)
	}
}

func (b *BurstController) fireNext(speed float64, fire FireFunc) {
	if fire != nil && !fire(b.nextShot(speed)) {
		b.Abort()
		return
	}
	b.shotsFired++
	if b.shotsFired >= max(b.profile.BurstCount, 1) {
		b.finish(false)
		return
	}
	b.shotTimer += b.profile.BurstInterval
}

func (b *BurstController) finish(aborted bool) {
	b.bursting = false
	b.shotTimer = 0
	b.sinceBurst = 0
	b.nextCooldown = b.drawCooldown()
	if b.OnEnd != nil {
		b.OnEnd(b.shotsFired, aborted)
	}
}

// Abort ends the current burst. The cooldown still applies.
func (b *BurstController) Abort() {
	if !b.bursting {
		return
	}
	b.aborted++
	b.finish(true)
}

// --- Transient effects ---

const (
	muzzleFlashLifetime = 0.05 // s
	hitFlashLifetime    = 0.1  // s
	impactLifetime      = 0.15 // s
)

// Effect is a short-lived visual marker kept alive by a countdown.
type Effect struct {
	Kind      EffectKind
	Pos       Vec3
	Remaining float64
	Lifetime  float64
}

// Alpha fades from 1 to 0 over the effect's life.
func (e *Effect) Alpha() float64 {
	if e.Lifetime <= 0 {
		return 0
	}
	return math.Max(0, e.Remaining/e.Lifetime)
}

func effectLifetime(k EffectKind) float64 {
	switch k {
	case EffectMuzzleFlash:
		return muzzleFlashLifetime
	case EffectHitFlash:
		return hitFlashLifetime
	default:
		return impactLifetime
	}
}

// ageEffects decrements every effect and drops the expired ones in place.
func ageEffects(fx []Effect, dt float64) []Effect {
	out := fx[:0]
	for _, e := range fx {
		e.Remaining -= dt
		if e.Remaining > timerEpsilon {
			out = append(out, e)
		}
	}
	return out
}
