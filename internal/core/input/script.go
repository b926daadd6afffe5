package input

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Step is one scripted input change, applied at the start of Tick.
type Step struct {
	Tick    uint64   `json:"tick" yaml:"tick"`
	Down    []string `json:"down,omitempty" yaml:"down,omitempty"`
	Up      []string `json:"up,omitempty" yaml:"up,omitempty"`
	Pointer *Pointer `json:"pointer,omitempty" yaml:"pointer,omitempty"`
}

type compiledStep struct {
	tick    uint64
	down    []Key
	up      []Key
	pointer *Pointer
}

// Script replays a fixed input timeline into a State.
type Script struct {
	steps []compiledStep
	next  int
}

// NewScript validates key names and orders steps by tick. Steps sharing a
// tick keep their given order.
func NewScript(steps []Step) (*Script, error) {
	compiled := make([]compiledStep, 0, len(steps))
	for i, st := range steps {
		cs := compiledStep{tick: st.Tick, pointer: st.Pointer}
		for _, name := range st.Down {
			k, err := ParseKey(name)
			if err != nil {
				return nil, fmt.Errorf("input step %d: %w", i, err)
			}
			cs.down = append(cs.down, k)
		}
		for _, name := range st.Up {
			k, err := ParseKey(name)
			if err != nil {
				return nil, fmt.Errorf("input step %d: %w", i, err)
			}
			cs.up = append(cs.up, k)
		}
		compiled = append(compiled, cs)
	}
	sort.SliceStable(compiled, func(i, j int) bool { return compiled[i].tick < compiled[j].tick })
	return &Script{steps: compiled}, nil
}

// LoadScriptYAML reads a YAML list of steps.
func LoadScriptYAML(r io.Reader) (*Script, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil && err != io.EOF {
		return nil, err
	}
	return NewScript(steps)
}

// Apply feeds every step scheduled at or before tick that has not run yet.
// Releases apply before presses within a step.
func (s *Script) Apply(tick uint64, state *State) int {
	applied := 0
	for s.next < len(s.steps) && s.steps[s.next].tick <= tick {
		st := s.steps[s.next]
		for _, k := range st.up {
			state.Release(k)
		}
		for _, k := range st.down {
			state.Press(k)
		}
		if st.pointer != nil {
			state.Click(*st.pointer)
		}
		s.next++
		applied++
	}
	return applied
}

// Done reports whether every step has been applied.
func (s *Script) Done() bool { return s.next >= len(s.steps) }

// Reset rewinds the script to its first step.
func (s *Script) Reset() { s.next = 0 }
