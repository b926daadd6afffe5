package systems

import (
	"fmt"
	"sort"
	"time"
)

// System is one stage of the simulation tick.
type System interface {
	// Identity

	Name() string

	// Execution

	ExecutionPhase() ExecutionPhase
	Update(deltaTime float64) error
}

// ExecutionPhase defines when a system runs within a tick.
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhaseFixedUpdate
	PhasePostUpdate
	PhaseLateUpdate
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseFixedUpdate:
		return "fixed-update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseLateUpdate:
		return "late-update"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

// Func adapts a plain function to System.
type Func struct {
	name  string
	phase ExecutionPhase
	fn    func(deltaTime float64) error
}

func NewFunc(name string, phase ExecutionPhase, fn func(deltaTime float64) error) *Func {
	return &Func{name: name, phase: phase, fn: fn}
}

func (f *Func) Name() string                   { return f.name }
func (f *Func) ExecutionPhase() ExecutionPhase { return f.phase }
func (f *Func) Update(deltaTime float64) error { return f.fn(deltaTime) }

// Runner executes systems in phase order. Systems sharing a phase keep their
// registration order.
type Runner struct {
	systems []System
	metrics map[string]*Metrics
}

func NewRunner(systems ...System) *Runner {
	r := &Runner{metrics: make(map[string]*Metrics)}
	for _, s := range systems {
		r.Add(s)
	}
	return r
}

// Add registers a system and re-sorts the execution order.
func (r *Runner) Add(s System) {
	r.systems = append(r.systems, s)
	r.metrics[s.Name()] = &Metrics{}
	sort.SliceStable(r.systems, func(i, j int) bool {
		return r.systems[i].ExecutionPhase() < r.systems[j].ExecutionPhase()
	})
}

// Update runs every system once. The first failing system stops the tick.
func (r *Runner) Update(deltaTime float64) error {
	for _, s := range r.systems {
		start := time.Now()
		err := s.Update(deltaTime)
		elapsed := time.Since(start)

		m := r.metrics[s.Name()]
		m.ExecutionCount++
		m.TotalExecutionTime += elapsed
		m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
		m.MaxExecutionTime = max(m.MaxExecutionTime, elapsed)
		m.LastExecutionTime = start
		if err != nil {
			m.ErrorCount++
			m.LastError = err
			return fmt.Errorf("system %s: %w", s.Name(), err)
		}
	}
	return nil
}

// ExecutionOrder lists system names in the order Update runs them.
func (r *Runner) ExecutionOrder() []string {
	out := make([]string, len(r.systems))
	for i, s := range r.systems {
		out[i] = s.Name()
	}
	return out
}

func (r *Runner) GetSystemMetrics(name string) (Metrics, bool) {
	m, ok := r.metrics[name]
	if !ok {
		return Metrics{}, false
	}
	return *m, true
}
