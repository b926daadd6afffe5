package physics

import "fmt"

// Material tunes the velocity response to a contact.
//
// After a contact the body's velocity is split along the overlap normal into
// a normal part vn and a tangential part vt, and becomes
//
//	vt*Friction - vn*Restitution
//
// The defaults (Restitution 0, Friction 1) remove the normal part and keep the
// tangential part untouched: bodies slide and never bounce.
type Material struct {
	Restitution float64 `json:"restitution" yaml:"restitution"`
	Friction    float64 `json:"friction" yaml:"friction"`
	// ProjectionScale, when non-zero, scales the overlap normal per axis before
	// the split. The scaled normal is not renormalized, so part of the normal
	// velocity survives in vt.
	ProjectionScale Vec2 `json:"projection_scale" yaml:"projection_scale"`
}

func DefaultMaterial() Material {
	return Material{Restitution: 0, Friction: 1}
}

// LegacyMaterial reproduces the anisotropic (-0.99, -0.95) projection used by
// the first version of the sandbox.
func LegacyMaterial() Material {
	return Material{Restitution: 0, Friction: 1, ProjectionScale: Vec2{X: -0.99, Y: -0.95}}
}

func (m Material) Validate() error {
	if m.Restitution < 0 {
		return fmt.Errorf("%w: restitution %g < 0", ErrInvalidMaterial, m.Restitution)
	}
	if m.Friction < 0 {
		return fmt.Errorf("%w: friction %g < 0", ErrInvalidMaterial, m.Friction)
	}
	return nil
}

// Resolver applies overlap responses to bodies.
type Resolver struct {
	material Material
}

func NewResolver(m Material) (*Resolver, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{material: m}, nil
}

func (r *Resolver) Material() Material { return r.material }

// Resolve pushes body out along -resp.OverlapV and rewrites its velocity.
// resp must be expressed from body's point of view. Static bodies and
// zero-depth overlaps are left alone.
func (r *Resolver) Resolve(body *Body, resp Response) {
	if body.static || resp.Overlap <= 0 {
		return
	}

	body.translate(resp.OverlapV.Neg())

	n := resp.OverlapN
	if !r.material.ProjectionScale.IsZero() {
		n = n.ScaleXY(r.material.ProjectionScale.X, r.material.ProjectionScale.Y)
	}
	vn := body.velocity.ProjectN(n)
	vt := body.velocity.Sub(vn)

	bounce := vn.Scale(-r.material.Restitution)
	friction := vt.Scale(r.material.Friction)
	body.velocity = friction.Add(bounce)
}
