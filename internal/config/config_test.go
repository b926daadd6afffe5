package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/sat2d/internal/core/input"
	"github.com/zeusync/sat2d/internal/core/systems/physics"
)

const sceneYAML = `
world:
  bounds: {x: 0, y: 0, width: 800, height: 600}
  projection_scale: {x: -0.99, y: -0.95}
player:
  body: hero
  jump_cooldown: 100ms
bodies:
  - name: hero
    kind: rect
    x: 10
    y: 20
    width: 48
    height: 48
  - name: ramp
    kind: poly
    x: 100
    y: 400
    points: [[0, 0], [128, 128], [0, 128]]
    static: true
    gravity: false
input:
  - tick: 3
    down: [right]
log_level: debug
`

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, physics.V(0, 1000), cfg.World.Gravity)
	require.Equal(t, 60, cfg.World.TickRate)
	require.Equal(t, physics.DefaultMaterial(), cfg.Material())
	require.Equal(t, 250*time.Millisecond, cfg.Player.JumpCooldown.Std())
	require.Equal(t, time.Second/60, cfg.TickDuration())
	require.True(t, cfg.World.Bounds.AABB().IsZero())
}

func TestLoadYAML(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	require.Equal(t, physics.V(0, 1000), cfg.World.Gravity, "unset fields keep defaults")
	require.Equal(t, physics.Rect(0, 0, 800, 600), cfg.World.Bounds.AABB())
	require.Equal(t, physics.LegacyMaterial(), cfg.Material())
	require.Equal(t, "hero", cfg.Player.Body)
	require.Equal(t, 100*time.Millisecond, cfg.Player.JumpCooldown.Std())
	require.Equal(t, 160.0, cfg.Player.RunSpeed)
	require.Equal(t, "debug", cfg.LogLevel)

	require.Len(t, cfg.Bodies, 2)
	require.Equal(t, KindPoly, cfg.Bodies[1].Kind)
	require.Equal(t, []physics.Vec2{{X: 0, Y: 0}, {X: 128, Y: 128}, {X: 0, Y: 128}}, cfg.Bodies[1].Vertices())
	require.NotNil(t, cfg.Bodies[1].Gravity)
	require.False(t, *cfg.Bodies[1].Gravity)
	require.Nil(t, cfg.Bodies[0].Gravity)

	require.Len(t, cfg.Input, 1)
	require.Equal(t, uint64(3), cfg.Input[0].Tick)
}

func TestLoadJSON(t *testing.T) {
	doc := `{
		"world": {"tick_rate": 30, "friction": 0.5},
		"player": {"body": "p", "jump_cooldown": "1s"},
		"bodies": [{"name": "p", "kind": "rect", "width": 10, "height": 10}]
	}`
	cfg, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 30, cfg.World.TickRate)
	require.Equal(t, 0.5, cfg.World.Friction)
	require.Equal(t, time.Second, cfg.Player.JumpCooldown.Std())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sceneYAML), 0o600))
	cfg, err := LoadFile(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "hero", cfg.Player.Body)

	txtPath := filepath.Join(dir, "scene.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(sceneYAML), 0o600))
	_, err = LoadFile(txtPath)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestPlaygroundScene(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "examples", "scenes", "playground.yaml"))
	require.NoError(t, err)
	require.Equal(t, "player", cfg.Player.Body)
	require.Len(t, cfg.Bodies, 4)
}

func TestValidate(t *testing.T) {
	rect := func(name string, static bool) BodyConfig {
		return BodyConfig{Name: name, Kind: KindRect, Width: 10, Height: 10, Static: static}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick rate", func(c *Config) { c.World.TickRate = 0 }},
		{"negative bounds", func(c *Config) { c.World.Bounds.Width = -1 }},
		{"negative restitution", func(c *Config) { c.World.Restitution = -1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"missing name", func(c *Config) { c.Bodies = []BodyConfig{rect("", false)} }},
		{"duplicate name", func(c *Config) { c.Bodies = []BodyConfig{rect("a", false), rect("a", true)} }},
		{"unknown kind", func(c *Config) { c.Bodies = []BodyConfig{{Name: "a", Kind: "circle"}} }},
		{"empty rect", func(c *Config) { c.Bodies = []BodyConfig{{Name: "a", Kind: KindRect}} }},
		{"short poly", func(c *Config) {
			c.Bodies = []BodyConfig{{Name: "a", Kind: KindPoly, Points: [][2]float64{{0, 0}, {1, 1}}}}
		}},
		{"undeclared player", func(c *Config) { c.Player.Body = "ghost" }},
		{"static player", func(c *Config) {
			c.Bodies = []BodyConfig{rect("p", true)}
			c.Player.Body = "p"
		}},
		{"negative speed", func(c *Config) { c.Player.RunSpeed = -1 }},
		{"bad input key", func(c *Config) { c.Input = []input.Step{{Tick: 1, Down: []string{"F13"}}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
