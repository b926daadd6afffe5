package simulation

import "github.com/zeusync/sat2d/internal/core/systems/physics"

// Snapshot is the serializable state of a simulation after a tick.
type Snapshot struct {
	RunID    string      `json:"run_id"`
	Tick     uint64      `json:"tick"`
	Digest   uint64      `json:"digest"`
	Contacts uint64      `json:"contacts"`
	Hooked   bool        `json:"hooked"`
	Bodies   []BodyState `json:"bodies"`
}

type BodyState struct {
	Name     string         `json:"name"`
	Position physics.Vec2   `json:"position"`
	Velocity physics.Vec2   `json:"velocity"`
	Static   bool           `json:"static"`
	Points   []physics.Vec2 `json:"points"`
}

// Snapshot captures every body in sweep order. Polygon points are in world
// space as of the body's current position.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:    s.RunID(),
		Tick:     s.Tick(),
		Digest:   s.world.Digest(),
		Contacts: s.Contacts(),
		Hooked:   s.hook != nil && s.hook.Active(),
		Bodies:   make([]BodyState, 0, s.world.Len()),
	}
	s.world.Each(func(_ physics.Handle, b *physics.Body) bool {
		local := b.Shape().Points()
		pos := b.Position()
		for i := range local {
			local[i] = local[i].Add(pos)
		}
		snap.Bodies = append(snap.Bodies, BodyState{
			Name:     b.Name(),
			Position: pos,
			Velocity: b.Velocity(),
			Static:   b.IsStatic(),
			Points:   local,
		})
		return true
	})
	return snap
}
