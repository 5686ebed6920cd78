package game

import "math"

// Box is an axis-aligned obstacle footprint on the ground plane.
type Box struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// NewBox builds a box from a corner and its size.
func NewBox(x, z, w, d float64) Box {
	return Box{MinX: x, MinZ: z, MaxX: x + w, MaxZ: z + d}
}

// Inflate grows the box by r on every side.
func (b Box) Inflate(r float64) Box {
	return Box{MinX: b.MinX - r, MinZ: b.MinZ - r, MaxX: b.MaxX + r, MaxZ: b.MaxZ + r}
}

// Contains reports whether p's ground projection lies inside the box.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// SegmentClear reports whether the ground segment a->b misses every box.
func SegmentClear(a, b Vec3, boxes []Box) bool {
	for _, o := range boxes {
		if rayIntersectsAABB(a.X, a.Z, b.X, b.Z, o.MinX, o.MinZ, o.MaxX, o.MaxZ) {
			return false
		}
	}
	return true
}

// rayAABBHitT returns the first segment parameter t in [0,1] where the line
// from (ox,oy)->(ex,ey) enters the AABB. The bool is false when no hit exists.
func rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := ex - ox
	dy := ey - oy

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}

// rayIntersectsAABB checks if the segment from (ox,oy)->(ex,ey) touches the box.
func rayIntersectsAABB(ox, oy, ex, ey, minX, minY, maxX, maxY float64) bool {
	_, hit := rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY)
	return hit
}
