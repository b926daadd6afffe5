package motion

import (
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/core/systems"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

var _ systems.System = (*Hook)(nil)

type HookConfig struct {
	// Speed is how fast the player is reeled toward the anchor.
	Speed float64
	// SnapDistance releases the hook once the player is this close.
	SnapDistance float64
	// Tolerance widens the line-of-sight test against other bodies.
	Tolerance float64
}

func DefaultHookConfig() HookConfig {
	return HookConfig{Speed: 400, SnapDistance: 20, Tolerance: 1}
}

// Hook is the grapple gadget. While attached it suspends gravity on the
// player and steers it toward the anchor at a fixed speed.
type Hook struct {
	world  *physics.World
	player physics.Handle
	cfg    HookConfig
	logger log.Log

	active bool
	anchor physics.Vec2
	aim    physics.Vec2
}

func NewHook(world *physics.World, player physics.Handle, cfg HookConfig, logger log.Log) *Hook {
	return &Hook{world: world, player: player, cfg: cfg, logger: logger}
}

func (h *Hook) Name() string { return "hook" }

func (h *Hook) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseUpdate }

func (h *Hook) Active() bool { return h.active }

// Anchor is the point the hook was fired at.
func (h *Hook) Anchor() physics.Vec2 { return h.anchor }

// Fire toggles the hook. An attached hook is released. Otherwise the hook
// attaches to target unless the line from the player to target touches
// another body. It reports whether the hook is attached afterwards.
func (h *Hook) Fire(target physics.Vec2) (bool, error) {
	if h.active {
		return false, h.Release()
	}

	player, err := h.world.Body(h.player)
	if err != nil {
		return false, err
	}

	origin := player.Position()
	blocked := ""
	h.world.Each(func(handle physics.Handle, b *physics.Body) bool {
		if handle == h.player {
			return true
		}
		if b.Shape().IntersectsSegment(origin, target, h.cfg.Tolerance) {
			blocked = b.Name()
			return false
		}
		return true
	})
	if blocked != "" {
		h.logger.Debug("hook blocked", log.String("by", blocked))
		return false, nil
	}

	half := player.Width() / 2
	h.active = true
	h.anchor = target
	h.aim = target.Sub(physics.V(half, half))
	player.SetGravityEnabled(false)

	h.logger.Debug("hook attached",
		log.Float64("x", target.X),
		log.Float64("y", target.Y),
	)
	return true, nil
}

// Release detaches the hook and restores gravity on the player.
func (h *Hook) Release() error {
	if !h.active {
		return nil
	}
	h.active = false
	player, err := h.world.Body(h.player)
	if err != nil {
		return err
	}
	player.SetGravityEnabled(true)
	h.logger.Debug("hook released")
	return nil
}

func (h *Hook) Update(float64) error {
	if !h.active {
		return nil
	}
	player, err := h.world.Body(h.player)
	if err != nil {
		return err
	}

	pos := player.Position()
	player.SetVelocity(h.aim.Sub(pos).Normalize().Scale(h.cfg.Speed))

	if physics.DistanceV(pos, h.aim) < h.cfg.SnapDistance {
		return h.Release()
	}
	return nil
}
