package physics

// Body is a rigid, non-rotating entity wrapping a convex polygon.
//
// Position is the body's physical position as written by motion integration.
// The polygon's position mirrors it; the world copies it across at the start
// of every step, and collision correction moves both together.
type Body struct {
	name     string
	shape    *Polygon
	position Vec2
	velocity Vec2
	static   bool
	gravity  bool
}

// NewBody wraps shape, taking its current position as the body position.
// Dynamic bodies start with gravity enabled, static bodies without.
func NewBody(name string, shape *Polygon, static bool) *Body {
	return &Body{
		name:     name,
		shape:    shape,
		position: shape.Position(),
		static:   static,
		gravity:  !static,
	}
}

func (b *Body) Name() string { return b.name }

func (b *Body) Shape() *Polygon { return b.shape }

func (b *Body) Position() Vec2 { return b.position }

// SetPosition moves the body. The polygon follows at the next world step.
func (b *Body) SetPosition(p Vec2) { b.position = p }

func (b *Body) Velocity() Vec2 { return b.velocity }

func (b *Body) SetVelocity(v Vec2) { b.velocity = v }

func (b *Body) SetVelocityX(x float64) { b.velocity.X = x }

func (b *Body) SetVelocityY(y float64) { b.velocity.Y = y }

func (b *Body) IsStatic() bool { return b.static }

func (b *Body) GravityEnabled() bool { return b.gravity }

func (b *Body) SetGravityEnabled(enabled bool) { b.gravity = enabled }

// Bounds returns the AABB at the body position, which may be ahead of the
// polygon between steps.
func (b *Body) Bounds() AABB {
	return b.shape.bounds.Translate(b.position)
}

// Width and Height are the extents of the local bounding box.
func (b *Body) Width() float64 { return b.shape.bounds.Width() }

func (b *Body) Height() float64 { return b.shape.bounds.Height() }

// sync copies the physical position into the polygon.
func (b *Body) sync() { b.shape.pos = b.position }

// translate moves body and polygon together.
func (b *Body) translate(d Vec2) {
	b.position = b.position.Add(d)
	b.shape.pos = b.position
}
