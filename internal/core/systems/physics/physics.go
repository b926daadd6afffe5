package physics

import "math"

// Vec2 is a 2D vector value. Methods never mutate the receiver.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

// ScaleXY scales each axis independently.
func (v Vec2) ScaleXY(sx, sy float64) Vec2 { return Vec2{X: v.X * sx, Y: v.Y * sy} }

func (v Vec2) Neg() Vec2 { return Vec2{X: -v.X, Y: -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Perp rotates v by 90 degrees: (x, y) -> (y, -x).
func (v Vec2) Perp() Vec2 { return Vec2{X: v.Y, Y: -v.X} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Len2() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector of v, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Project projects v onto an arbitrary non-zero axis.
func (v Vec2) Project(axis Vec2) Vec2 {
	return axis.Scale(v.Dot(axis) / axis.Len2())
}

// ProjectN projects v onto axis without normalizing by its length. Only exact
// for unit axes.
func (v Vec2) ProjectN(axis Vec2) Vec2 {
	return axis.Scale(v.Dot(axis))
}

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// DistanceV computes distance between two vectors.
func DistanceV(a, b Vec2) float64 { return Distance2(a.X, a.Y, b.X, b.Y) }
