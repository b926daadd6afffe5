package simulation

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/sat2d/internal/config"
	"github.com/zeusync/sat2d/internal/core/events/bus"
	"github.com/zeusync/sat2d/internal/core/input"
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/core/systems"
	"github.com/zeusync/sat2d/internal/core/systems/motion"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

const (
	// EventContact carries a physics.Contact for every resolved body side.
	EventContact = "physics.contact"
	// EventSnapshot carries the Snapshot taken after every tick.
	EventSnapshot = "simulation.snapshot"

	eventSource = "simulation"
)

// Simulation owns one world and drives it tick by tick:
// input, hook and controller, integration, collision.
// Contacts reach the controller's sensors through the event bus.
type Simulation struct {
	id     uuid.UUID
	cfg    *config.Config
	logger log.Log
	bus    bus.EventBus

	world      *physics.World
	state      *input.State
	script     *input.Script
	hook       *motion.Hook
	controller *motion.Controller
	runner     *systems.Runner
	player     physics.Handle
	hasPlayer  bool

	subs []bus.Subscription
	// dt is the exact fixed step; TickDuration only paces Run.
	dt float64

	mu        sync.RWMutex
	tick      uint64
	contacts  uint64
	observers []func(Snapshot)
}

// New builds the world and the system pipeline described by cfg.
// A nil logger falls back to log.Provide, a nil bus to a private one.
func New(cfg *config.Config, logger log.Log, eventBus bus.EventBus) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Provide()
	}
	if eventBus == nil {
		eventBus = bus.New()
	}

	id := uuid.New()
	logger = logger.With(log.String("run", id.String()))

	s := &Simulation{
		id:     id,
		cfg:    cfg,
		logger: logger,
		bus:    eventBus,
		state:  input.NewState(),
		dt:     1 / float64(cfg.World.TickRate),
	}

	world, err := physics.NewWorld(
		physics.WithMaterial(cfg.Material()),
		physics.WithLogger(logger),
		physics.WithContactHandler(s.publishContact),
	)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	s.world = world

	if err = s.populate(); err != nil {
		return nil, err
	}

	s.script, err = input.NewScript(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("input script: %w", err)
	}

	s.runner = systems.NewRunner(
		systems.NewFunc("input", systems.PhasePreUpdate, s.applyInput),
		motion.NewIntegrator(world, cfg.World.Gravity, cfg.World.Bounds.AABB()),
		world,
	)

	if s.hasPlayer {
		s.hook = motion.NewHook(world, s.player, motion.HookConfig{
			Speed:        cfg.Player.HookSpeed,
			SnapDistance: cfg.Player.HookSnapDistance,
			Tolerance:    cfg.Player.HookTolerance,
		}, logger)
		s.controller = motion.NewController(world, s.player, motion.ControllerConfig{
			RunSpeed:     cfg.Player.RunSpeed,
			JumpSpeed:    cfg.Player.JumpSpeed,
			JumpCooldown: cfg.Player.JumpCooldown.Std(),
		}, s.state, s.hook)
		s.runner.Add(s.hook)
		s.runner.Add(s.controller)

		sub, err := eventBus.Subscribe(EventContact, bus.Handle(func(c physics.Contact) error {
			s.controller.HandleContact(c)
			return nil
		}))
		if err != nil {
			return nil, fmt.Errorf("subscribe contacts: %w", err)
		}
		s.subs = append(s.subs, sub)
	}

	logger.Debug("simulation ready",
		log.Int("bodies", world.Len()),
		log.String("systems", fmt.Sprint(s.runner.ExecutionOrder())),
	)
	return s, nil
}

func (s *Simulation) populate() error {
	for _, bc := range s.cfg.Bodies {
		var (
			h   physics.Handle
			err error
		)
		switch bc.Kind {
		case config.KindRect:
			h, err = s.world.MakeRectBody(bc.Name, bc.X, bc.Y, bc.Width, bc.Height, bc.Static)
		case config.KindPoly:
			h, err = s.world.MakePolyBody(bc.Name, bc.X, bc.Y, bc.Vertices(), bc.Static)
		default:
			err = fmt.Errorf("%w: unknown body kind %q", config.ErrInvalidConfig, bc.Kind)
		}
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}

		if bc.Gravity != nil && !bc.Static {
			b, err := s.world.Body(h)
			if err != nil {
				return err
			}
			b.SetGravityEnabled(*bc.Gravity)
		}
		if bc.Name == s.cfg.Player.Body {
			s.player, s.hasPlayer = h, true
		}
	}
	return nil
}

func (s *Simulation) publishContact(c physics.Contact) {
	if err := s.bus.Publish(bus.NewEvent(EventContact, eventSource, c)); err != nil {
		s.logger.Warn("contact delivery failed", log.Error(err))
	}
}

func (s *Simulation) applyInput(float64) error {
	s.script.Apply(s.Tick(), s.state)
	for _, click := range s.state.TakeClicks() {
		if s.hook == nil {
			continue
		}
		if _, err := s.hook.Fire(physics.V(click.X, click.Y)); err != nil {
			return fmt.Errorf("fire hook: %w", err)
		}
	}
	return nil
}

func (s *Simulation) RunID() string { return s.id.String() }

func (s *Simulation) World() *physics.World { return s.world }

func (s *Simulation) Input() *input.State { return s.state }

// Hook is nil when the scene has no player.
func (s *Simulation) Hook() *motion.Hook { return s.hook }

// Controller is nil when the scene has no player.
func (s *Simulation) Controller() *motion.Controller { return s.controller }

func (s *Simulation) Runner() *systems.Runner { return s.runner }

func (s *Simulation) Player() (physics.Handle, bool) { return s.player, s.hasPlayer }

// Tick is the number of completed steps.
func (s *Simulation) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Contacts is the number of resolved contacts since New.
func (s *Simulation) Contacts() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts
}

// OnSnapshot registers fn to receive a Snapshot after every tick.
func (s *Simulation) OnSnapshot(fn func(Snapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Step advances the simulation by one fixed tick.
func (s *Simulation) Step() error {
	if err := s.runner.Update(s.dt); err != nil {
		return fmt.Errorf("tick %d: %w", s.Tick(), err)
	}
	stats := s.world.LastStep()

	s.mu.Lock()
	s.tick++
	s.contacts += uint64(stats.Contacts)
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	if stats.Contacts > 0 {
		s.logger.Debug("contacts",
			log.Uint64("tick", s.Tick()),
			log.Int("pairs", stats.PairTests),
			log.Int("contacts", stats.Contacts),
		)
	}

	if len(observers) == 0 && !s.bus.HasSubscribers(EventSnapshot) {
		return nil
	}
	snap := s.Snapshot()
	for _, fn := range observers {
		fn(snap)
	}
	if err := s.bus.Publish(bus.NewEvent(EventSnapshot, eventSource, snap)); err != nil {
		s.logger.Warn("snapshot delivery failed", log.Error(err))
	}
	return nil
}

// Run steps the simulation ticks times, or until ctx is done when ticks is 0.
// A positive pace spaces ticks in wall-clock time.
func (s *Simulation) Run(ctx context.Context, ticks uint64, pace time.Duration) error {
	s.logger.Info("simulation started",
		log.Uint64("ticks", ticks),
		log.Duration("pace", pace),
		log.Int("bodies", s.world.Len()),
	)

	var tc <-chan time.Time
	if pace > 0 {
		ticker := time.NewTicker(pace)
		defer ticker.Stop()
		tc = ticker.C
	}

	var err error
	for n := uint64(0); ticks == 0 || n < ticks; n++ {
		if tc != nil {
			select {
			case <-ctx.Done():
			case <-tc:
			}
		}
		if err = ctx.Err(); err != nil {
			break
		}
		if err = s.Step(); err != nil {
			break
		}
	}

	s.logger.Info("simulation stopped",
		log.Uint64("tick", s.Tick()),
		log.Uint64("contacts", s.Contacts()),
		log.String("digest", fmt.Sprintf("%016x", s.world.Digest())),
		log.Error(err),
	)
	return err
}

// Close detaches the simulation from the event bus.
func (s *Simulation) Close() error {
	var err error
	for _, sub := range s.subs {
		if e := s.bus.Unsubscribe(sub); e != nil && err == nil {
			err = e
		}
	}
	s.subs = nil
	return err
}
