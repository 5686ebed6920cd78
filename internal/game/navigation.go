package game

import "math"

const (
	destinationEpsilon = 0.05 // requests closer than this to the current one are no-ops
	movingThreshold    = 0.1  // units/s
	strafeRangeGain    = 0.3
	flankPerpWeight    = 2.0
)

// NavAdapter fronts an optional NavService. Without one, or when the body is
// off the navigable surface, it moves straight at the destination at a fixed
// speed with no obstacle avoidance.
type NavAdapter struct {
	svc         NavService
	directSpeed float64

	pos     Vec3
	vel     Vec3
	dest    Vec3
	stop    float64
	hasDest bool
}

// NewNavAdapter wraps svc (which may be nil). The body starts at start.
func NewNavAdapter(svc NavService, start Vec3, directSpeed float64) *NavAdapter {
	n := &NavAdapter{svc: svc, directSpeed: directSpeed, pos: start}
	if svc != nil {
		svc.Warp(start)
		n.pos = svc.Position()
	}
	return n
}

// Managed reports whether the navigation service is steering the body.
func (n *NavAdapter) Managed() bool {
	return n.svc != nil && n.svc.IsOnNavigableSurface()
}

// RequestDestination asks the body to travel to p, halting stop units short.
// Repeating the active destination does nothing.
func (n *NavAdapter) RequestDestination(p Vec3, stop float64) bool {
	p = p.Flat()
	if n.hasDest && n.dest.FlatDist(p) < destinationEpsilon && n.stop == stop {
		return true
	}
	if n.Managed() {
		if !n.svc.SetDestination(p, stop) {
			return false
		}
	}
	n.dest = p
	n.stop = stop
	n.hasDest = true
	return true
}

// Stop clears the destination and halts the body.
func (n *NavAdapter) Stop() {
	if !n.hasDest && n.vel.IsZero() {
		return
	}
	n.hasDest = false
	n.vel = Vec3{}
	if n.svc != nil {
		n.svc.Stop()
	}
}

// HasDestination reports whether a destination is active.
func (n *NavAdapter) HasDestination() bool { return n.hasDest }

// Destination returns the active destination.
func (n *NavAdapter) Destination() Vec3 { return n.dest }

// Advance moves the body for one tick and returns its new position.
func (n *NavAdapter) Advance(dt float64) Vec3 {
	if n.Managed() {
		n.svc.Advance(dt)
		n.pos = n.svc.Position()
		n.vel = n.svc.Velocity()
		return n.pos
	}
	n.vel = Vec3{}
	if !n.hasDest || dt <= 0 {
		return n.pos
	}
	to := n.dest.Sub(n.pos).Flat()
	dist := to.Len()
	if dist <= n.stop || dist < destinationEpsilon {
		return n.pos
	}
	step := math.Min(n.directSpeed*dt, dist-n.stop)
	move := to.Scale(step / dist)
	n.pos = n.pos.Add(move)
	n.vel = move.Scale(1 / dt)
	if n.svc != nil {
		n.svc.Warp(n.pos)
	}
	return n.pos
}

// Position is the body's current position.
func (n *NavAdapter) Position() Vec3 { return n.pos }

// Velocity is the body's velocity over the last tick.
func (n *NavAdapter) Velocity() Vec3 { return n.vel }

// Speed is the ground speed over the last tick.
func (n *NavAdapter) Speed() float64 { return n.vel.Flat().Len() }

// IsMoving reports whether the body moved faster than the moving threshold.
func (n *NavAdapter) IsMoving() bool { return n.Speed() > movingThreshold }

// RemainingDistance is the distance left to the destination, zero when idle.
func (n *NavAdapter) RemainingDistance() float64 {
	if n.Managed() {
		if !n.hasDest {
			return 0
		}
		return n.svc.RemainingDistance()
	}
	if !n.hasDest {
		return 0
	}
	return n.pos.FlatDist(n.dest)
}

// IsPathPending reports whether the service is still planning a path.
func (n *NavAdapter) IsPathPending() bool {
	return n.Managed() && n.hasDest && n.svc.IsPathPending()
}

// SampleValidPosition snaps p onto the navigable surface within radius.
// Without a managing service every point is accepted.
func (n *NavAdapter) SampleValidPosition(p Vec3, radius float64) (Vec3, bool) {
	if !n.Managed() {
		return p.Flat(), true
	}
	return n.svc.SampleValidPosition(p.Flat(), radius)
}

// Warp teleports the body.
func (n *NavAdapter) Warp(p Vec3) {
	n.pos = p
	n.vel = Vec3{}
	n.hasDest = false
	if n.svc != nil {
		n.svc.Warp(p)
	}
}

// ChaseDestination is the agent's slot on a ring around the target.
func ChaseDestination(target Vec3, orbitAngle, radius float64) Vec3 {
	return target.Flat().Add(YawVector(orbitAngle).Scale(radius))
}

// StrafeDestination offsets the target laterally by strafeRadius on the
// strafe side. With withRange set it also pulls the point along the line of
// fire so the agent drifts back toward preferred range.
func StrafeDestination(pos, target Vec3, dir int, strafeRadius, preferred float64, withRange bool) Vec3 {
	toTarget := target.Sub(pos).Flat()
	dist := toTarget.Len()
	toTarget = toTarget.Normalize()
	d := target.Flat().Add(Perp(toTarget).Scale(float64(dir) * strafeRadius))
	if withRange {
		d = d.Add(toTarget.Scale(-(preferred - dist) * strafeRangeGain))
	}
	return d
}

// RepositionDestination backs away from the target, or swings out to the
// side when flank is set.
func RepositionDestination(pos, target Vec3, flank bool, distance float64) Vec3 {
	away := pos.Sub(target).Flat()
	if away.IsZero() {
		away = Vec3{X: 1}
	}
	if flank {
		away = away.Add(Perp(away).Scale(flankPerpWeight))
	}
	return pos.Flat().Add(away.Normalize().Scale(distance))
}
