package motion

import (
	"github.com/zeusync/sat2d/internal/core/systems"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

var _ systems.System = (*Integrator)(nil)

// Integrator advances dynamic bodies with explicit Euler integration:
// gravity into velocity, then velocity into position.
type Integrator struct {
	world   *physics.World
	gravity physics.Vec2
	bounds  physics.AABB
}

// NewIntegrator builds an integrator. A zero bounds box leaves bodies unconstrained.
func NewIntegrator(world *physics.World, gravity physics.Vec2, bounds physics.AABB) *Integrator {
	return &Integrator{world: world, gravity: gravity, bounds: bounds}
}

func (i *Integrator) Name() string { return "motion" }

func (i *Integrator) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseFixedUpdate }

func (i *Integrator) Gravity() physics.Vec2 { return i.gravity }

func (i *Integrator) Update(deltaTime float64) error {
	i.world.Each(func(_ physics.Handle, b *physics.Body) bool {
		if b.IsStatic() {
			return true
		}
		v := b.Velocity()
		if b.GravityEnabled() {
			v = v.Add(i.gravity.Scale(deltaTime))
		}
		b.SetVelocity(v)
		b.SetPosition(b.Position().Add(v.Scale(deltaTime)))
		if !i.bounds.IsZero() {
			i.clamp(b)
		}
		return true
	})
	return nil
}

// clamp keeps the body's box inside the bounds and drops the velocity
// component that pushed it out.
func (i *Integrator) clamp(b *physics.Body) {
	box := b.Bounds()
	pos, vel := b.Position(), b.Velocity()

	switch {
	case box.Min.X < i.bounds.Min.X:
		pos.X += i.bounds.Min.X - box.Min.X
		vel.X = max(vel.X, 0)
	case box.Max.X > i.bounds.Max.X:
		pos.X -= box.Max.X - i.bounds.Max.X
		vel.X = min(vel.X, 0)
	}
	switch {
	case box.Min.Y < i.bounds.Min.Y:
		pos.Y += i.bounds.Min.Y - box.Min.Y
		vel.Y = max(vel.Y, 0)
	case box.Max.Y > i.bounds.Max.Y:
		pos.Y -= box.Max.Y - i.bounds.Max.Y
		vel.Y = min(vel.Y, 0)
	}

	b.SetPosition(pos)
	b.SetVelocity(vel)
}
