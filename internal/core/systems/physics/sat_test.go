package physics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBox(t *testing.T, x, y, w, h float64) *Polygon {
	t.Helper()
	p, err := NewBox(V(x, y), w, h)
	require.NoError(t, err)
	return p
}

func mustPoly(t *testing.T, x, y float64, pts ...Vec2) *Polygon {
	t.Helper()
	p, err := NewPolygon(V(x, y), pts)
	require.NoError(t, err)
	return p
}

func TestOverlapSquares(t *testing.T) {
	t.Run("gap of two", func(t *testing.T) {
		_, ok := TestOverlap(mustBox(t, 0, 0, 48, 48), mustBox(t, 50, 0, 48, 48))
		require.False(t, ok)
	})

	t.Run("overlap of eight along x", func(t *testing.T) {
		r, ok := TestOverlap(mustBox(t, 0, 0, 48, 48), mustBox(t, 40, 0, 48, 48))
		require.True(t, ok)
		require.InDelta(t, 8, r.Overlap, 1e-9)
		require.Equal(t, V(1, 0), r.OverlapN)
		require.Equal(t, V(8, 0), r.OverlapV)
		require.False(t, r.AInB)
		require.False(t, r.BInA)
	})

	t.Run("touching edges report zero depth", func(t *testing.T) {
		r, ok := TestOverlap(mustBox(t, 0, 0, 48, 48), mustBox(t, 48, 0, 48, 48))
		require.True(t, ok)
		require.Zero(t, r.Overlap)
		require.True(t, r.OverlapV.IsZero())
	})
}

func TestOverlapSignConvention(t *testing.T) {
	a := mustBox(t, 0, 0, 48, 48)
	b := mustBox(t, 40, 0, 48, 48)

	r, ok := TestOverlap(a, b)
	require.True(t, ok)

	// moving A by -OverlapV separates it, leaving the shapes just touching
	a.SetPosition(a.Position().Add(r.OverlapV.Neg()))
	after, ok := TestOverlap(a, b)
	if ok {
		require.InDelta(t, 0, after.Overlap, 1e-9)
	}
}

func TestOverlapTriangleAndBox(t *testing.T) {
	tri := mustPoly(t, 0, 0, V(0, 0), V(128, 128), V(0, 128))
	box := mustBox(t, 100, 110, 48, 48)

	r, ok := TestOverlap(tri, box)
	require.True(t, ok)
	require.InDelta(t, 18, r.Overlap, 1e-9)
	require.Equal(t, V(0, 1), r.OverlapN)
}

func TestOverlapContainment(t *testing.T) {
	small := mustBox(t, 20, 20, 10, 10)
	big := mustBox(t, 0, 0, 48, 48)

	r, ok := TestOverlap(small, big)
	require.True(t, ok)
	require.True(t, r.AInB)
	require.False(t, r.BInA)
	require.InDelta(t, 28, r.Overlap, 1e-9)
	require.Equal(t, V(-1, 0), r.OverlapN)

	r2, ok := TestOverlap(big, small)
	require.True(t, ok)
	require.False(t, r2.AInB)
	require.True(t, r2.BInA)
}

func TestOverlapSymmetry(t *testing.T) {
	tri := []Vec2{{0, 0}, {128, 128}, {0, 128}}
	hex := []Vec2{{10, 0}, {30, 0}, {40, 17}, {30, 34}, {10, 34}, {0, 17}}

	cases := []struct {
		name string
		a, b func() *Polygon
	}{
		{"squares side by side",
			func() *Polygon { return mustBox(t, 0, 0, 48, 48) },
			func() *Polygon { return mustBox(t, 40, 0, 48, 48) }},
		{"squares offset diagonally",
			func() *Polygon { return mustBox(t, 0, 0, 48, 48) },
			func() *Polygon { return mustBox(t, 40, 30, 48, 48) }},
		{"triangle and box",
			func() *Polygon { return mustPoly(t, 0, 0, tri...) },
			func() *Polygon { return mustBox(t, 100, 110, 48, 48) }},
		{"hexagon and triangle",
			func() *Polygon { return mustPoly(t, 5, 60, hex...) },
			func() *Polygon { return mustPoly(t, 0, 0, tri...) }},
		{"disjoint hexagon and box",
			func() *Polygon { return mustPoly(t, 300, 300, hex...) },
			func() *Polygon { return mustBox(t, 0, 0, 48, 48) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := tc.a(), tc.b()
			ab, okAB := TestOverlap(a, b)
			ba, okBA := TestOverlap(b, a)
			require.Equal(t, okAB, okBA)
			if !okAB {
				return
			}
			require.InDelta(t, ab.Overlap, ba.Overlap, 1e-9)
			sum := ab.OverlapN.Add(ba.OverlapN)
			require.InDelta(t, 0, sum.X, 1e-9, "normals must be antiparallel")
			require.InDelta(t, 0, sum.Y, 1e-9, "normals must be antiparallel")
		})
	}
}

func TestResponseMirror(t *testing.T) {
	r := Response{Overlap: 3, OverlapN: V(0, 1), OverlapV: V(0, 3), AInB: true}
	m := r.Mirror()
	require.Equal(t, 3.0, m.Overlap)
	require.Equal(t, V(0, -1), m.OverlapN)
	require.Equal(t, V(0, -3), m.OverlapV)
	require.False(t, m.AInB)
	require.True(t, m.BInA)
}
