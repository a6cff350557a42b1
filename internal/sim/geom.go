package sim

import "math"

// Point2D is a position in the ground (XZ) plane.
type Point2D struct {
	X, Z float64
}

func Pt(x, z float64) Point2D {
	return Point2D{X: x, Z: z}
}

func (p Point2D) Add(o Point2D) Point2D {
	return Point2D{X: p.X + o.X, Z: p.Z + o.Z}
}

func (p Point2D) Sub(o Point2D) Point2D {
	return Point2D{X: p.X - o.X, Z: p.Z - o.Z}
}

func (p Point2D) Distance(o Point2D) float64 {
	return math.Hypot(o.X-p.X, o.Z-p.Z)
}

// DistanceSq avoids the square root for range tests.
func (p Point2D) DistanceSq(o Point2D) float64 {
	dx := o.X - p.X
	dz := o.Z - p.Z
	return dx*dx + dz*dz
}

// Near reports whether two points coincide within eps.
func (p Point2D) Near(o Point2D, eps float64) bool {
	return absF(p.X-o.X) <= eps && absF(p.Z-o.Z) <= eps
}

// Vec3 is a world-space position or extent (Y is up).
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Ground() Point2D {
	return Point2D{X: v.X, Z: v.Z}
}

// GroundDistanceSq is the squared distance in the XZ plane, ignoring height.
func (v Vec3) GroundDistanceSq(o Vec3) float64 {
	dx := o.X - v.X
	dz := o.Z - v.Z
	return dx*dx + dz*dz
}

// Direction classifies a road or crosswalk by its cardinal axis.
type Direction int

const (
	EastWest Direction = iota
	NorthSouth
)

func (d Direction) String() string {
	if d == EastWest {
		return "east-west"
	}
	return "north-south"
}

// Other returns the perpendicular direction.
func (d Direction) Other() Direction {
	if d == EastWest {
		return NorthSouth
	}
	return EastWest
}

// gridKey canonicalizes a point to integer units so endpoints within the
// matching epsilon (0.5) collapse to one key.
type gridKey struct {
	X, Z int
}

func keyOf(p Point2D) gridKey {
	return gridKey{X: int(math.Round(p.X)), Z: int(math.Round(p.Z))}
}
