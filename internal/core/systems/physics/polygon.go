package physics

import (
	"fmt"
	"math"
)

// areaEpsilon is the smallest absolute area accepted for a polygon.
const areaEpsilon = 1e-9

// Polygon is a convex polygon positioned in world space. Points are stored
// relative to the position and never change after construction; only the
// position moves.
type Polygon struct {
	pos     Vec2
	points  []Vec2
	normals []Vec2
	bounds  AABB // local space
}

// NewPolygon validates points and builds a polygon at pos. It fails with
// ErrDegenerateShape for fewer than three points, repeated consecutive
// points or zero area, and with ErrNonConvexShape when the outline turns
// both ways or winds more than once.
func NewPolygon(pos Vec2, points []Vec2) (*Polygon, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d points, need at least 3", ErrDegenerateShape, n)
	}

	local := make([]Vec2, n)
	copy(local, points)

	for i := range local {
		if local[i] == local[(i+1)%n] {
			return nil, fmt.Errorf("%w: point %d repeats its successor", ErrDegenerateShape, i)
		}
	}
	if math.Abs(signedArea(local)) < areaEpsilon {
		return nil, fmt.Errorf("%w: zero area", ErrDegenerateShape)
	}
	if !isConvex(local) {
		return nil, ErrNonConvexShape
	}

	p := &Polygon{
		pos:     pos,
		points:  local,
		normals: make([]Vec2, n),
	}
	min, max := local[0], local[0]
	for i, pt := range local {
		edge := local[(i+1)%n].Sub(pt)
		p.normals[i] = edge.Perp().Normalize()
		min = Vec2{X: math.Min(min.X, pt.X), Y: math.Min(min.Y, pt.Y)}
		max = Vec2{X: math.Max(max.X, pt.X), Y: math.Max(max.Y, pt.Y)}
	}
	p.bounds = AABB{Min: min, Max: max}
	return p, nil
}

// NewBox builds a width x height rectangle whose top-left corner sits at pos.
func NewBox(pos Vec2, width, height float64) (*Polygon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidDimension, width, height)
	}
	return NewPolygon(pos, []Vec2{
		{X: 0, Y: 0},
		{X: 0, Y: height},
		{X: width, Y: height},
		{X: width, Y: 0},
	})
}

func (p *Polygon) Position() Vec2 { return p.pos }

func (p *Polygon) SetPosition(pos Vec2) { p.pos = pos }

// Points returns a copy of the local-space outline.
func (p *Polygon) Points() []Vec2 {
	out := make([]Vec2, len(p.points))
	copy(out, p.points)
	return out
}

// Normals returns a copy of the unit edge normals; normal i belongs to the
// edge from point i to point i+1.
func (p *Polygon) Normals() []Vec2 {
	out := make([]Vec2, len(p.normals))
	copy(out, p.normals)
	return out
}

// WorldPoints returns the outline translated to the current position.
func (p *Polygon) WorldPoints() []Vec2 {
	out := make([]Vec2, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Add(p.pos)
	}
	return out
}

// Bounds returns the world-space AABB.
func (p *Polygon) Bounds() AABB {
	return p.bounds.Translate(p.pos)
}

// Centroid returns the average of the world-space points.
func (p *Polygon) Centroid() Vec2 {
	var sum Vec2
	for _, pt := range p.points {
		sum = sum.Add(pt)
	}
	return sum.Scale(1 / float64(len(p.points))).Add(p.pos)
}

// Area returns the unsigned area.
func (p *Polygon) Area() float64 {
	return math.Abs(signedArea(p.points))
}

// project returns the interval covered by the polygon on axis.
func (p *Polygon) project(axis Vec2) (min, max float64) {
	offset := p.pos.Dot(axis)
	min, max = math.Inf(1), math.Inf(-1)
	for _, pt := range p.points {
		d := pt.Dot(axis) + offset
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return min, max
}

// ContainsPoint reports whether the world-space point lies inside or on the outline.
func (p *Polygon) ContainsPoint(pt Vec2) bool {
	local := pt.Sub(p.pos)
	n := len(p.points)
	sign := 0.0
	for i, a := range p.points {
		c := p.points[(i+1)%n].Sub(a).Cross(local.Sub(a))
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// IntersectsSegment reports whether the world-space segment a-b touches the
// polygon: a starts inside it, or the segment comes within tolerance of an edge.
func (p *Polygon) IntersectsSegment(a, b Vec2, tolerance float64) bool {
	if p.ContainsPoint(a) {
		return true
	}
	pts := p.WorldPoints()
	for i, e1 := range pts {
		e2 := pts[(i+1)%len(pts)]
		if segmentDistance(a, b, e1, e2) <= tolerance {
			return true
		}
	}
	return false
}

func signedArea(points []Vec2) float64 {
	var sum float64
	for i, a := range points {
		sum += a.Cross(points[(i+1)%len(points)])
	}
	return sum / 2
}

// isConvex requires every turn to go the same way and the outline to turn
// through exactly one full revolution.
func isConvex(points []Vec2) bool {
	n := len(points)
	sign := 0.0
	total := 0.0
	for i := range points {
		e1 := points[(i+1)%n].Sub(points[i])
		e2 := points[(i+2)%n].Sub(points[(i+1)%n])
		c := e1.Cross(e2)
		if c != 0 {
			if sign == 0 {
				sign = c
			} else if (c > 0) != (sign > 0) {
				return false
			}
		}
		total += math.Atan2(c, e1.Dot(e2))
	}
	return math.Abs(math.Abs(total)-2*math.Pi) < 1e-6
}

func segmentsIntersect(p1, p2, q1, q2 Vec2) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orientation(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment assumes c is collinear with a-b.
func onSegment(a, b, c Vec2) bool {
	return c.X >= math.Min(a.X, b.X) && c.X <= math.Max(a.X, b.X) &&
		c.Y >= math.Min(a.Y, b.Y) && c.Y <= math.Max(a.Y, b.Y)
}

func pointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Len2()
	if l2 == 0 {
		return DistanceV(p, a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return DistanceV(p, a.Add(ab.Scale(t)))
}

func segmentDistance(p1, p2, q1, q2 Vec2) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDistance(p1, q1, q2), pointSegmentDistance(p2, q1, q2)),
		math.Min(pointSegmentDistance(q1, p1, p2), pointSegmentDistance(q2, p1, p2)),
	)
}
