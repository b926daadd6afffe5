package input

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyA
	KeyD
	KeyW
	KeyS
	KeySpace
)

var keyNames = map[Key]string{
	KeyLeft:  "LEFT",
	KeyRight: "RIGHT",
	KeyUp:    "UP",
	KeyDown:  "DOWN",
	KeyA:     "A",
	KeyD:     "D",
	KeyW:     "W",
	KeyS:     "S",
	KeySpace: "SPACE",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// ParseKey resolves a key name, case-insensitively.
func ParseKey(name string) (Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == upper {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// Pointer is a click position in world coordinates.
type Pointer struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// State holds which keys are held and pointer clicks not yet consumed.
type State struct {
	down   map[Key]bool
	clicks []Pointer
}

func NewState() *State {
	return &State{down: make(map[Key]bool)}
}

func (s *State) Press(k Key) { s.down[k] = true }

func (s *State) Release(k Key) { delete(s.down, k) }

func (s *State) IsDown(k Key) bool { return s.down[k] }

// Click queues a pointer press.
func (s *State) Click(p Pointer) { s.clicks = append(s.clicks, p) }

// TakeClicks returns and clears queued clicks in arrival order.
func (s *State) TakeClicks() []Pointer {
	out := s.clicks
	s.clicks = nil
	return out
}

// Binding groups keys that trigger the same action, e.g. LEFT and A.
type Binding struct {
	keys []Key
}

func NewBinding(keys ...Key) Binding {
	return Binding{keys: append([]Key(nil), keys...)}
}

// IsDown reports whether any bound key is held.
func (b Binding) IsDown(s *State) bool {
	for _, k := range b.keys {
		if s.IsDown(k) {
			return true
		}
	}
	return false
}

// IsUp reports whether every bound key is released.
func (b Binding) IsUp(s *State) bool {
	return !b.IsDown(s)
}

func (b Binding) Keys() []Key {
	return append([]Key(nil), b.keys...)
}
