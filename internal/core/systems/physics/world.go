package physics

import (
	"fmt"

	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/core/systems"
)

var _ systems.System = (*World)(nil)

// Handle addresses a registered body. Handles stay valid until the body is
// unregistered; a recycled slot gets a new generation so stale handles fail.
type Handle struct {
	index      uint32
	generation uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.generation)
}

// Contact is one resolved side of an overlapping pair. Response is expressed
// from Body's point of view.
type Contact struct {
	Body     Handle
	Other    Handle
	Response Response
}

// StepStats summarizes one Step.
type StepStats struct {
	Refreshed int
	PairTests int
	Contacts  int
}

type slot struct {
	body       *Body
	generation uint32
}

// World is the registry of collidable bodies and runs the narrow phase.
// It is not safe for concurrent use.
type World struct {
	slots    []slot
	free     []uint32
	order    []Handle
	resolver *Resolver
	handlers []ContactHandler
	logger   log.Log
	last     StepStats
}

type Option func(*World) error

func WithMaterial(m Material) Option {
	return func(w *World) error {
		r, err := NewResolver(m)
		if err != nil {
			return err
		}
		w.resolver = r
		return nil
	}
}

func WithLogger(l log.Log) Option {
	return func(w *World) error {
		w.logger = l
		return nil
	}
}

func WithContactHandler(h ContactHandler) Option {
	return func(w *World) error {
		w.handlers = append(w.handlers, h)
		return nil
	}
}

func NewWorld(opts ...Option) (*World, error) {
	w := &World{
		resolver: &Resolver{material: DefaultMaterial()},
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) Name() string { return "collision" }

func (w *World) ExecutionPhase() systems.ExecutionPhase { return systems.PhasePostUpdate }

// Update runs Step; deltaTime is unused since correction is positional.
func (w *World) Update(float64) error {
	w.Step()
	return nil
}

// OnContact adds a contact handler.
func (w *World) OnContact(h ContactHandler) {
	w.handlers = append(w.handlers, h)
}

func (w *World) Material() Material { return w.resolver.material }

func (w *World) SetMaterial(m Material) error {
	r, err := NewResolver(m)
	if err != nil {
		return err
	}
	w.resolver = r
	return nil
}

// Register adds a body at the end of the sweep order.
func (w *World) Register(body *Body) Handle {
	var h Handle
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		s := &w.slots[idx]
		s.generation++
		s.body = body
		h = Handle{index: idx, generation: s.generation}
	} else {
		w.slots = append(w.slots, slot{body: body, generation: 1})
		h = Handle{index: uint32(len(w.slots) - 1), generation: 1}
	}
	w.order = append(w.order, h)

	w.logger.Debug("body registered",
		log.String("handle", h.String()),
		log.String("name", body.name),
		log.Bool("static", body.static),
	)
	return h
}

// MakeRectBody registers a width x height rectangle with its top-left corner at (x, y).
func (w *World) MakeRectBody(name string, x, y, width, height float64, static bool) (Handle, error) {
	shape, err := NewBox(V(x, y), width, height)
	if err != nil {
		return Handle{}, fmt.Errorf("rect body %q: %w", name, err)
	}
	return w.Register(NewBody(name, shape, static)), nil
}

// MakePolyBody registers a convex polygon given as local points, positioned at (x, y).
func (w *World) MakePolyBody(name string, x, y float64, points []Vec2, static bool) (Handle, error) {
	shape, err := NewPolygon(V(x, y), points)
	if err != nil {
		return Handle{}, fmt.Errorf("poly body %q: %w", name, err)
	}
	return w.Register(NewBody(name, shape, static)), nil
}

// Unregister removes a body. The remaining bodies keep their relative order.
func (w *World) Unregister(h Handle) error {
	if _, err := w.Body(h); err != nil {
		return err
	}
	s := &w.slots[h.index]
	name := s.body.name
	s.body = nil
	w.free = append(w.free, h.index)
	for i, oh := range w.order {
		if oh == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	w.logger.Debug("body unregistered", log.String("handle", h.String()), log.String("name", name))
	return nil
}

func (w *World) Body(h Handle) (*Body, error) {
	if int(h.index) >= len(w.slots) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, h)
	}
	s := w.slots[h.index]
	if s.body == nil || s.generation != h.generation {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, h)
	}
	return s.body, nil
}

// Find returns the first body registered under name.
func (w *World) Find(name string) (Handle, bool) {
	for _, h := range w.order {
		if w.slots[h.index].body.name == name {
			return h, true
		}
	}
	return Handle{}, false
}

// Handles returns the registered handles in sweep order.
func (w *World) Handles() []Handle {
	out := make([]Handle, len(w.order))
	copy(out, w.order)
	return out
}

func (w *World) Len() int { return len(w.order) }

// Each visits bodies in sweep order until fn returns false.
func (w *World) Each(fn func(Handle, *Body) bool) {
	for _, h := range w.order {
		if !fn(h, w.slots[h.index].body) {
			return
		}
	}
}

// LastStep returns the stats of the most recent Step.
func (w *World) LastStep() StepStats { return w.last }

// Step runs one collision sweep.
//
// Every polygon is first synced to its body's position. Then each unordered
// pair (i, j), i < j in registration order, is tested once unless both are
// static. On a positive-depth overlap each dynamic side is corrected on its
// own from that single test: A with the response, B with its mirror. There is
// no impulse split and no iteration, and corrections made for one pair are
// visible to later pairs in the same sweep.
//
// Pairs whose boxes are disjoint count as tested but skip the SAT.
func (w *World) Step() StepStats {
	var stats StepStats
	bodies := make([]*Body, len(w.order))
	for i, h := range w.order {
		b := w.slots[h.index].body
		b.sync()
		bodies[i] = b
		stats.Refreshed++
	}

	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if a.static && b.static {
				continue
			}
			stats.PairTests++
			if !a.shape.Bounds().Overlaps(b.shape.Bounds()) {
				continue
			}
			resp, ok := TestOverlap(a.shape, b.shape)
			if !ok || resp.Overlap <= 0 {
				continue
			}
			if !a.static {
				w.resolver.Resolve(a, resp)
				w.emit(Contact{Body: w.order[i], Other: w.order[j], Response: resp})
				stats.Contacts++
			}
			if !b.static {
				mirrored := resp.Mirror()
				w.resolver.Resolve(b, mirrored)
				w.emit(Contact{Body: w.order[j], Other: w.order[i], Response: mirrored})
				stats.Contacts++
			}
		}
	}

	w.last = stats
	return stats
}

func (w *World) emit(c Contact) {
	for _, h := range w.handlers {
		h(c)
	}
}
