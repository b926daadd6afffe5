package motion

import (
	"time"

	"github.com/zeusync/sat2d/internal/core/input"
	"github.com/zeusync/sat2d/internal/core/systems"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

var _ systems.System = (*Controller)(nil)

// cooldownEpsilon absorbs rounding from subtracting a fixed step, so a 250ms
// cooldown at 60Hz ends after exactly 15 ticks.
const cooldownEpsilon = 1e-9

type ControllerConfig struct {
	RunSpeed     float64
	JumpSpeed    float64
	JumpCooldown time.Duration
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{RunSpeed: 160, JumpSpeed: 330, JumpCooldown: 250 * time.Millisecond}
}

// Touching records which sides of the player hit something during a sweep.
type Touching struct {
	Ground bool
	Left   bool
	Right  bool
}

// Controller turns held keys into player velocity.
//
// Two rules differ from a plain "keys set velocity every frame" controller:
// an airborne player pressing into a wall it touches keeps its horizontal
// velocity, and a held jump key only re-jumps once JumpCooldown has elapsed.
// Scripted runs therefore do not replay frame for frame against an ungated
// controller.
type Controller struct {
	world  *physics.World
	player physics.Handle
	cfg    ControllerConfig
	state  *input.State
	hook   *Hook

	left  input.Binding
	right input.Binding
	jump  input.Binding

	pending  Touching
	touching Touching
	cooldown float64
}

// NewController binds LEFT/A, RIGHT/D and UP/W. hook may be nil.
func NewController(world *physics.World, player physics.Handle, cfg ControllerConfig, state *input.State, hook *Hook) *Controller {
	return &Controller{
		world:  world,
		player: player,
		cfg:    cfg,
		state:  state,
		hook:   hook,
		left:   input.NewBinding(input.KeyLeft, input.KeyA),
		right:  input.NewBinding(input.KeyRight, input.KeyD),
		jump:   input.NewBinding(input.KeyUp, input.KeyW),
	}
}

func (c *Controller) Name() string { return "controller" }

func (c *Controller) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseUpdate }

// HandleContact feeds the touch sensors. Contacts for other bodies are ignored.
func (c *Controller) HandleContact(ct physics.Contact) {
	if ct.Body != c.player {
		return
	}
	n := ct.Response.OverlapN
	switch {
	case n.Y > 0.5:
		c.pending.Ground = true
	case n.X < -0.5:
		c.pending.Left = true
	case n.X > 0.5:
		c.pending.Right = true
	}
}

// Touching returns the sensors used by the latest Update.
func (c *Controller) Touching() Touching { return c.touching }

func (c *Controller) Update(deltaTime float64) error {
	c.touching, c.pending = c.pending, Touching{}
	if c.cooldown > 0 {
		c.cooldown -= deltaTime
	}

	if c.hook != nil && c.hook.Active() {
		return nil
	}

	player, err := c.world.Body(c.player)
	if err != nil {
		return err
	}

	inAir := !c.touching.Ground
	switch {
	case c.left.IsDown(c.state):
		if !(inAir && c.touching.Left) {
			player.SetVelocityX(-c.cfg.RunSpeed)
		}
	case c.right.IsDown(c.state):
		if !(inAir && c.touching.Right) {
			player.SetVelocityX(c.cfg.RunSpeed)
		}
	default:
		player.SetVelocityX(0)
	}

	if c.jump.IsDown(c.state) && c.cooldown <= cooldownEpsilon {
		player.SetVelocityY(-c.cfg.JumpSpeed)
		c.cooldown = c.cfg.JumpCooldown.Seconds()
	}
	return nil
}
