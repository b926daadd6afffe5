package physics

import "math"

// Response describes how two polygons overlap, from the point of view of the
// first polygon passed to TestOverlap (A).
//
// OverlapN is the unit minimum-translation axis pointing from A toward B and
// OverlapV is OverlapN scaled by Overlap. Moving A by -OverlapV separates it
// from B.
type Response struct {
	Overlap  float64
	OverlapN Vec2
	OverlapV Vec2
	// AInB is true when A lies entirely inside B, BInA the reverse.
	AInB bool
	BInA bool
}

// Mirror returns the same overlap seen from B.
func (r Response) Mirror() Response {
	return Response{
		Overlap:  r.Overlap,
		OverlapN: r.OverlapN.Neg(),
		OverlapV: r.OverlapV.Neg(),
		AInB:     r.BInA,
		BInA:     r.AInB,
	}
}

// TestOverlap runs the separating axis test on two convex polygons. Candidate
// axes are the edge normals of a, then of b. It returns false on the first
// axis whose projections are disjoint. Touching projections count as
// overlapping, so a true result may carry Overlap == 0.
func TestOverlap(a, b *Polygon) (Response, bool) {
	r := Response{Overlap: math.MaxFloat64, AInB: true, BInA: true}
	for _, axis := range a.normals {
		if separates(a, b, axis, &r) {
			return Response{}, false
		}
	}
	for _, axis := range b.normals {
		if separates(a, b, axis, &r) {
			return Response{}, false
		}
	}
	r.OverlapV = r.OverlapN.Scale(r.Overlap)
	return r, true
}

// separates projects both polygons on axis. On overlap it folds the axis into
// r when it is shallower than anything seen so far.
func separates(a, b *Polygon, axis Vec2, r *Response) bool {
	minA, maxA := a.project(axis)
	minB, maxB := b.project(axis)
	if minA > maxB || minB > maxA {
		return true
	}

	// overlap is signed: negative means A must travel along +axis to leave B.
	var overlap float64
	if minA < minB {
		r.AInB = false
		if maxA < maxB {
			overlap = maxA - minB
			r.BInA = false
		} else {
			overlap = shortestExit(maxA-minB, maxB-minA)
		}
	} else {
		r.BInA = false
		if maxA > maxB {
			overlap = minA - maxB
			r.AInB = false
		} else {
			overlap = shortestExit(maxA-minB, maxB-minA)
		}
	}

	if abs := math.Abs(overlap); abs < r.Overlap {
		r.Overlap = abs
		r.OverlapN = axis
		if overlap < 0 {
			r.OverlapN = axis.Neg()
		}
	}
	return false
}

// shortestExit picks the cheaper way out when one interval contains the other.
func shortestExit(forward, backward float64) float64 {
	if forward < backward {
		return forward
	}
	return -backward
}
