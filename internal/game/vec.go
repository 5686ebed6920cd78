package game

import "math"

// Vec3 is a world-space point or direction. X/Z span the ground plane, Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Up is the world vertical axis.
var Up = Vec3{Y: 1}

func (a Vec3) Add(b Vec3) Vec3         { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3         { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3    { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64      { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64            { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Dist(b Vec3) float64     { return a.Sub(b).Len() }
func (a Vec3) Flat() Vec3              { return Vec3{X: a.X, Z: a.Z} }
func (a Vec3) FlatDist(b Vec3) float64 { return a.Sub(b).Flat().Len() }

// Cross returns a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Normalize returns the unit vector, or the zero vector when a has no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// IsZero reports whether every component is within epsilon of zero.
func (a Vec3) IsZero() bool {
	return math.Abs(a.X) < 1e-9 && math.Abs(a.Y) < 1e-9 && math.Abs(a.Z) < 1e-9
}

// Perp returns the horizontal unit vector perpendicular to v (v × up).
func Perp(v Vec3) Vec3 {
	return v.Flat().Cross(Up).Normalize()
}

// YawVector returns the ground-plane unit vector for a yaw in radians.
func YawVector(yaw float64) Vec3 {
	return Vec3{X: math.Cos(yaw), Z: math.Sin(yaw)}
}

// YawOf returns the yaw of v on the ground plane.
func YawOf(v Vec3) float64 {
	return math.Atan2(v.Z, v.X)
}

// LocalToWorld maps an offset in a body frame (X right, Y up, Z forward)
// to world space for a body at pos facing yaw.
func LocalToWorld(pos Vec3, yaw float64, local Vec3) Vec3 {
	fwd := YawVector(yaw)
	right := Perp(fwd)
	return pos.Add(right.Scale(local.X)).Add(Up.Scale(local.Y)).Add(fwd.Scale(local.Z))
}

// Deflect rotates a direction by yaw and pitch offsets given in degrees.
// The result keeps the input's length.
func Deflect(dir Vec3, yawDeg, pitchDeg float64) Vec3 {
	l := dir.Len()
	if l < 1e-9 {
		return dir
	}
	flat := math.Hypot(dir.X, dir.Z)
	yaw := math.Atan2(dir.Z, dir.X) + yawDeg*math.Pi/180
	pitch := math.Atan2(dir.Y, flat) + pitchDeg*math.Pi/180
	cosP := math.Cos(pitch)
	return Vec3{
		X: math.Cos(yaw) * cosP * l,
		Y: math.Sin(pitch) * l,
		Z: math.Sin(yaw) * cosP * l,
	}
}
