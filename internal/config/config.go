package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/sat2d/internal/core/input"
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	KindRect = "rect"
	KindPoly = "poly"
)

// Config describes one scene: the world, its bodies, the controlled player
// and an optional scripted input timeline.
type Config struct {
	World    WorldConfig  `yaml:"world" json:"world"`
	Player   PlayerConfig `yaml:"player" json:"player"`
	Bodies   []BodyConfig `yaml:"bodies" json:"bodies"`
	Input    []input.Step `yaml:"input,omitempty" json:"input,omitempty"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
}

type WorldConfig struct {
	Gravity         physics.Vec2 `yaml:"gravity" json:"gravity"`
	Bounds          Bounds       `yaml:"bounds" json:"bounds"`
	Restitution     float64      `yaml:"restitution" json:"restitution"`
	Friction        float64      `yaml:"friction" json:"friction"`
	ProjectionScale physics.Vec2 `yaml:"projection_scale" json:"projection_scale"`
	TickRate        int          `yaml:"tick_rate" json:"tick_rate"`
}

// Bounds is an optional world rectangle. The zero value means unbounded.
type Bounds struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

func (b Bounds) AABB() physics.AABB {
	if b.Width == 0 && b.Height == 0 {
		return physics.AABB{}
	}
	return physics.Rect(b.X, b.Y, b.Width, b.Height)
}

// PlayerConfig tunes the controlled body. An empty Body disables the
// controller and the hook.
type PlayerConfig struct {
	Body             string   `yaml:"body" json:"body"`
	RunSpeed         float64  `yaml:"run_speed" json:"run_speed"`
	JumpSpeed        float64  `yaml:"jump_speed" json:"jump_speed"`
	JumpCooldown     Duration `yaml:"jump_cooldown" json:"jump_cooldown"`
	HookSpeed        float64  `yaml:"hook_speed" json:"hook_speed"`
	HookSnapDistance float64  `yaml:"hook_snap_distance" json:"hook_snap_distance"`
	HookTolerance    float64  `yaml:"hook_tolerance" json:"hook_tolerance"`
}

type BodyConfig struct {
	Name   string       `yaml:"name" json:"name"`
	Kind   string       `yaml:"kind" json:"kind"`
	X      float64      `yaml:"x" json:"x"`
	Y      float64      `yaml:"y" json:"y"`
	Width  float64      `yaml:"width,omitempty" json:"width,omitempty"`
	Height float64      `yaml:"height,omitempty" json:"height,omitempty"`
	Points [][2]float64 `yaml:"points,omitempty" json:"points,omitempty"`
	Static bool         `yaml:"static" json:"static"`
	// Gravity overrides the default of gravity on for dynamic bodies.
	Gravity *bool `yaml:"gravity,omitempty" json:"gravity,omitempty"`
}

// Vertices converts Points to local polygon vertices.
func (b BodyConfig) Vertices() []physics.Vec2 {
	out := make([]physics.Vec2, len(b.Points))
	for i, p := range b.Points {
		out[i] = physics.V(p[0], p[1])
	}
	return out
}

// Duration reads "250ms" style strings from both YAML and JSON.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the sandbox tuning with no bodies and no player.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Gravity:  physics.V(0, 1000),
			Friction: 1,
			TickRate: 60,
		},
		Player: PlayerConfig{
			RunSpeed:         160,
			JumpSpeed:        330,
			JumpCooldown:     Duration(250 * time.Millisecond),
			HookSpeed:        400,
			HookSnapDistance: 20,
			HookTolerance:    1,
		},
		LogLevel: "info",
	}
}

// Material returns the world's collision response material.
func (c *Config) Material() physics.Material {
	return physics.Material{
		Restitution:     c.World.Restitution,
		Friction:        c.World.Friction,
		ProjectionScale: c.World.ProjectionScale,
	}
}

// TickDuration is the fixed simulation step.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.World.TickRate)
}

func (c *Config) Validate() error {
	var errs []error
	if c.World.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("world.tick_rate must be positive, got %d", c.World.TickRate))
	}
	if c.World.Bounds.Width < 0 || c.World.Bounds.Height < 0 {
		errs = append(errs, errors.New("world.bounds must have non-negative size"))
	}
	if err := c.Material().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	names := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("bodies[%d]: missing name", i))
		} else if names[b.Name] {
			errs = append(errs, fmt.Errorf("bodies[%d]: duplicate name %q", i, b.Name))
		}
		names[b.Name] = true
		switch b.Kind {
		case KindRect:
			if b.Width <= 0 || b.Height <= 0 {
				errs = append(errs, fmt.Errorf("bodies[%d] %q: rect needs positive width and height", i, b.Name))
			}
		case KindPoly:
			if len(b.Points) < 3 {
				errs = append(errs, fmt.Errorf("bodies[%d] %q: poly needs at least 3 points", i, b.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("bodies[%d] %q: unknown kind %q", i, b.Name, b.Kind))
		}
	}

	if c.Player.Body != "" {
		if !names[c.Player.Body] {
			errs = append(errs, fmt.Errorf("player.body %q is not a declared body", c.Player.Body))
		}
		for _, b := range c.Bodies {
			if b.Name == c.Player.Body && b.Static {
				errs = append(errs, fmt.Errorf("player.body %q must be dynamic", b.Name))
			}
		}
	}
	if _, err := input.NewScript(c.Input); err != nil {
		errs = append(errs, err)
	}
	if c.Player.RunSpeed < 0 || c.Player.JumpSpeed < 0 || c.Player.HookSpeed < 0 {
		errs = append(errs, errors.New("player speeds must be non-negative"))
	}
	if c.Player.JumpCooldown < 0 {
		errs = append(errs, errors.New("player.jump_cooldown must be non-negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LoadYAML decodes a scene over Default and validates it.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadJSON decodes a scene over Default and validates it.
func LoadJSON(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: decode json: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(bytes.NewReader(data))
	case ".json":
		return LoadJSON(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
}
