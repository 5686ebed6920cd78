package game

const (
	defaultLOSCheckInterval = 0.1 // seconds between raycasts
	losEpsilon              = 1e-9
)

// Perception caches the line-of-sight result between raycasts and tracks
// how long the target has been continuously hidden.
type Perception struct {
	interval float64
	timer    float64
	visible  bool
	blocked  float64
	checks   int
}

// NewPerception starts in the visible state with an empty accumulator.
func NewPerception(interval float64) Perception {
	if interval <= 0 {
		interval = defaultLOSCheckInterval
	}
	return Perception{interval: interval, visible: true}
}

// Update advances the check timer by dt. When a check is due, probe is asked
// for a fresh result; a nil probe skips the check and leaves state untouched.
func (p *Perception) Update(dt float64, probe func() bool) {
	p.timer += dt
	if p.timer+losEpsilon < p.interval {
		if !p.visible {
			p.blocked += dt
		}
		return
	}
	p.timer = 0
	if probe == nil {
		return
	}
	p.checks++
	p.visible = probe()
	if p.visible {
		p.blocked = 0
	} else {
		p.blocked += p.interval
	}
}

// Visible is the most recent line-of-sight result.
func (p Perception) Visible() bool { return p.visible }

// Blocked is how long the target has been hidden, in seconds.
func (p Perception) Blocked() float64 { return p.blocked }

// Checks counts raycasts performed so far.
func (p Perception) Checks() int { return p.checks }

// Reset restores the initial visible state.
func (p *Perception) Reset() {
	p.timer = 0
	p.visible = true
	p.blocked = 0
}

// LineOfSight casts from origin toward the target and reports whether the
// first collider struck is the target itself.
func LineOfSight(q SpatialQuery, origin Vec3, t Target, ignore Faction) bool {
	if q == nil || t == nil {
		return false
	}
	d := t.Position().Sub(origin)
	dist := d.Len()
	if dist < losEpsilon {
		return true
	}
	hit, ok := q.Raycast(origin, d.Scale(1/dist), dist, ignore)
	if !ok {
		return false
	}
	return hit.Collider == t.ColliderID()
}
