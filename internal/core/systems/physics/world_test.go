package physics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(opts...)
	require.NoError(t, err)
	return w
}

func mustRect(t *testing.T, w *World, name string, x, y, width, height float64, static bool) Handle {
	t.Helper()
	h, err := w.MakeRectBody(name, x, y, width, height, static)
	require.NoError(t, err)
	return h
}

func mustBody(t *testing.T, w *World, h Handle) *Body {
	t.Helper()
	b, err := w.Body(h)
	require.NoError(t, err)
	return b
}

func TestWorldPairCount(t *testing.T) {
	t.Run("all dynamic", func(t *testing.T) {
		w := newWorld(t)
		for i := 0; i < 5; i++ {
			mustRect(t, w, "b", float64(i)*100, 0, 10, 10, false)
		}
		stats := w.Step()
		require.Equal(t, 5, stats.Refreshed)
		require.Equal(t, 5*4/2, stats.PairTests)
		require.Zero(t, stats.Contacts)
	})

	t.Run("static pairs skipped", func(t *testing.T) {
		w := newWorld(t)
		mustRect(t, w, "s1", 0, 0, 10, 10, true)
		mustRect(t, w, "s2", 5, 0, 10, 10, true)
		mustRect(t, w, "d", 500, 0, 10, 10, false)
		stats := w.Step()
		require.Equal(t, 2, stats.PairTests)
		require.Zero(t, stats.Contacts, "overlapping statics are never tested")
	})
}

func TestWorldLandingOnGround(t *testing.T) {
	for _, groundFirst := range []bool{true, false} {
		name := "box first"
		if groundFirst {
			name = "ground first"
		}
		t.Run(name, func(t *testing.T) {
			w := newWorld(t)
			var ground, box Handle
			if groundFirst {
				ground = mustRect(t, w, "ground", 0, 100, 200, 20, true)
				box = mustRect(t, w, "box", 10, 60, 48, 48, false)
			} else {
				box = mustRect(t, w, "box", 10, 60, 48, 48, false)
				ground = mustRect(t, w, "ground", 0, 100, 200, 20, true)
			}
			mustBody(t, w, box).SetVelocity(V(160, 300))

			stats := w.Step()
			require.Equal(t, 1, stats.Contacts)

			b := mustBody(t, w, box)
			require.InDelta(t, 10, b.Position().X, 1e-9)
			require.InDelta(t, 52, b.Position().Y, 1e-9)
			require.InDelta(t, 160, b.Velocity().X, 1e-9)
			require.InDelta(t, 0, b.Velocity().Y, 1e-9)
			require.Equal(t, V(0, 100), mustBody(t, w, ground).Position())
		})
	}
}

func TestWorldRestingContactIsFiltered(t *testing.T) {
	w := newWorld(t)
	mustRect(t, w, "ground", 0, 100, 200, 20, true)
	box := mustRect(t, w, "box", 10, 52, 48, 48, false)
	mustBody(t, w, box).SetVelocity(V(160, 0))

	stats := w.Step()
	require.Equal(t, 1, stats.PairTests)
	require.Zero(t, stats.Contacts)
	require.Equal(t, V(160, 0), mustBody(t, w, box).Velocity())
}

func TestWorldOneSidedCorrection(t *testing.T) {
	w := newWorld(t)
	a := mustRect(t, w, "a", 0, 0, 48, 48, false)
	b := mustRect(t, w, "b", 40, 0, 48, 48, false)
	mustBody(t, w, a).SetVelocity(V(10, 0))
	mustBody(t, w, b).SetVelocity(V(-10, 0))

	var contacts []Contact
	w.OnContact(func(c Contact) { contacts = append(contacts, c) })

	stats := w.Step()
	require.Equal(t, 2, stats.Contacts)

	// both sides are pushed the full depth from the same pre-correction test,
	// so the pair ends up separated by twice what was needed
	require.Equal(t, V(-8, 0), mustBody(t, w, a).Position())
	require.Equal(t, V(48, 0), mustBody(t, w, b).Position())
	require.Equal(t, V(0, 0), mustBody(t, w, a).Velocity())
	require.Equal(t, V(0, 0), mustBody(t, w, b).Velocity())

	require.Len(t, contacts, 2)
	require.Equal(t, a, contacts[0].Body)
	require.Equal(t, b, contacts[0].Other)
	require.Equal(t, V(1, 0), contacts[0].Response.OverlapN)
	require.Equal(t, b, contacts[1].Body)
	require.Equal(t, a, contacts[1].Other)
	require.Equal(t, V(-1, 0), contacts[1].Response.OverlapN)
}

func TestWorldCorrectionsVisibleToLaterPairs(t *testing.T) {
	w := newWorld(t)
	a := mustRect(t, w, "a", 0, 0, 48, 48, false)
	mustRect(t, w, "right", 40, 0, 48, 48, true)
	mustRect(t, w, "left", -40, 0, 48, 48, true)

	stats := w.Step()
	require.Equal(t, 2, stats.Contacts)
	// pushed left by 8 out of "right", which deepens the overlap with "left"
	// to 16, so it is pushed back right and ends inside "right" again
	require.Equal(t, V(8, 0), mustBody(t, w, a).Position())
}

func TestWorldRefreshesShapePositions(t *testing.T) {
	w := newWorld(t)
	h := mustRect(t, w, "box", 0, 0, 10, 10, false)
	b := mustBody(t, w, h)

	b.SetPosition(V(5, 5))
	require.Equal(t, V(0, 0), b.Shape().Position(), "polygon follows only on step")

	w.Step()
	require.Equal(t, V(5, 5), b.Shape().Position())
	require.Equal(t, Rect(5, 5, 10, 10), b.Bounds())
}

func TestWorldHandles(t *testing.T) {
	w := newWorld(t)
	a := mustRect(t, w, "a", 0, 0, 10, 10, false)
	b := mustRect(t, w, "b", 100, 0, 10, 10, false)
	c := mustRect(t, w, "c", 200, 0, 10, 10, false)

	require.NoError(t, w.Unregister(b))
	require.Equal(t, []Handle{a, c}, w.Handles())

	_, err := w.Body(b)
	require.ErrorIs(t, err, ErrUnknownBody)
	require.ErrorIs(t, w.Unregister(b), ErrUnknownBody)

	d := mustRect(t, w, "d", 300, 0, 10, 10, false)
	require.Equal(t, []Handle{a, c, d}, w.Handles())
	require.NotEqual(t, b, d, "recycled slot gets a new generation")
	_, err = w.Body(b)
	require.ErrorIs(t, err, ErrUnknownBody)

	found, ok := w.Find("d")
	require.True(t, ok)
	require.Equal(t, d, found)
	_, ok = w.Find("b")
	require.False(t, ok)

	require.Equal(t, 3, w.Len())
	require.Equal(t, 3, w.Step().PairTests)
}

func TestWorldFactoriesRejectBadShapes(t *testing.T) {
	w := newWorld(t)
	_, err := w.MakeRectBody("flat", 0, 0, 10, 0, false)
	require.ErrorIs(t, err, ErrInvalidDimension)

	_, err = w.MakePolyBody("dart", 0, 0, []Vec2{{0, 0}, {4, 0}, {2, 1}, {4, 4}, {0, 4}}, false)
	require.ErrorIs(t, err, ErrNonConvexShape)

	_, err = w.MakePolyBody("line", 0, 0, []Vec2{{0, 0}, {4, 0}}, false)
	require.ErrorIs(t, err, ErrDegenerateShape)

	h, err := w.MakePolyBody("ramp", 100, 400, []Vec2{{0, 0}, {128, 128}, {0, 128}}, true)
	require.NoError(t, err)
	b := mustBody(t, w, h)
	require.True(t, b.IsStatic())
	require.False(t, b.GravityEnabled())
	require.Equal(t, 128.0, b.Width())
	require.Equal(t, 0, w.Step().PairTests)
}

func TestWorldMaterialAndSystem(t *testing.T) {
	_, err := NewWorld(WithMaterial(Material{Restitution: -1}))
	require.ErrorIs(t, err, ErrInvalidMaterial)

	w := newWorld(t, WithMaterial(LegacyMaterial()))
	require.Equal(t, LegacyMaterial(), w.Material())
	require.ErrorIs(t, w.SetMaterial(Material{Friction: -1}), ErrInvalidMaterial)
	require.Equal(t, LegacyMaterial(), w.Material())

	mustRect(t, w, "a", 0, 0, 48, 48, false)
	mustRect(t, w, "b", 40, 0, 48, 48, true)
	require.Equal(t, "collision", w.Name())
	require.NoError(t, w.Update(1.0/60))
	require.Equal(t, 1, w.LastStep().Contacts)
}

func TestWorldDigest(t *testing.T) {
	build := func() *World {
		w := newWorld(t)
		mustRect(t, w, "ground", 0, 100, 200, 20, true)
		h := mustRect(t, w, "box", 10, 60, 48, 48, false)
		mustBody(t, w, h).SetVelocity(V(160, 300))
		return w
	}

	w1, w2 := build(), build()
	require.Equal(t, w1.Digest(), w2.Digest())

	w1.Step()
	w2.Step()
	require.Equal(t, w1.Digest(), w2.Digest())

	h, _ := w2.Find("box")
	mustBody(t, w2, h).SetVelocityX(159)
	require.NotEqual(t, w1.Digest(), w2.Digest())
}
