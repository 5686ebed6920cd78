package game

import "math"

// Facing tracks an agent's yaw and bounds how fast it can turn.
type Facing struct {
	Yaw      float64 // radians, 0 = +X, pi/2 = +Z
	TurnRate float64 // radians per second
}

// NewFacing creates a facing with the turn rate given in degrees per second.
func NewFacing(yaw, turnRateDeg float64) Facing {
	return Facing{Yaw: normalizeAngle(yaw), TurnRate: turnRateDeg * math.Pi / 180}
}

// UpdateHeading rotates toward targetAngle by at most maxStep radians.
func (f *Facing) UpdateHeading(targetAngle, maxStep float64) {
	diff := normalizeAngle(targetAngle - f.Yaw)
	if math.Abs(diff) <= maxStep {
		f.Yaw = normalizeAngle(targetAngle)
	} else if diff > 0 {
		f.Yaw = normalizeAngle(f.Yaw + maxStep)
	} else {
		f.Yaw = normalizeAngle(f.Yaw - maxStep)
	}
}

// Face turns toward the ground-plane direction from -> to for one tick.
// A degenerate direction leaves the yaw alone.
func (f *Facing) Face(from, to Vec3, dt float64) {
	if to.Sub(from).Flat().IsZero() {
		return
	}
	f.UpdateHeading(HeadingTo(from, to), f.TurnRate*dt)
}

// Forward is the unit ground-plane vector the agent faces.
func (f Facing) Forward() Vec3 { return YawVector(f.Yaw) }

// HeadingTo returns the yaw from a toward b.
func HeadingTo(a, b Vec3) float64 {
	return YawOf(b.Sub(a))
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
