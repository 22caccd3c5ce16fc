package modes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed modes.yaml
var builtinCatalog []byte

// Sentinel errors for registry lookups.
var (
	ErrUnknownMode     = errors.New("unknown analysis mode")
	ErrUnknownIndustry = errors.New("unknown industry")
)

// Registry is the immutable catalog of analysis modes and industry
// benchmarks. It is built once at startup; lookups are safe for concurrent
// use without locking because nothing mutates after construction.
type Registry struct {
	cascade    map[string]*Mode
	simulation map[string]*Mode
	industries map[string]*IndustryBenchmark

	suggested   map[string]string
	defaultMode string
}

// NewRegistry loads the built-in catalog.
func NewRegistry() (*Registry, error) {
	return newFromBytes(builtinCatalog)
}

// NewRegistryFromFile loads a catalog from disk instead of the built-in one.
// Operators use this to tune weights without rebuilding.
func NewRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mode catalog: %w", err)
	}
	return newFromBytes(data)
}

func newFromBytes(data []byte) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse mode catalog: %w", err)
	}

	r := &Registry{
		cascade:     make(map[string]*Mode, len(c.CascadeModes)),
		simulation:  make(map[string]*Mode, len(c.SimulationModes)),
		industries:  make(map[string]*IndustryBenchmark, len(c.Industries)),
		suggested:   c.SuggestedModes,
		defaultMode: c.DefaultSuggestedMode,
	}
	if r.suggested == nil {
		r.suggested = map[string]string{}
	}

	for i := range c.CascadeModes {
		m := c.CascadeModes[i]
		if err := checkMode(&m, false); err != nil {
			return nil, fmt.Errorf("cascade mode %q: %w", m.ID, err)
		}
		if _, dup := r.cascade[m.ID]; dup {
			return nil, fmt.Errorf("cascade mode %q: duplicate id", m.ID)
		}
		r.cascade[m.ID] = &m
	}
	for i := range c.SimulationModes {
		m := c.SimulationModes[i]
		if err := checkMode(&m, true); err != nil {
			return nil, fmt.Errorf("simulation mode %q: %w", m.ID, err)
		}
		if _, dup := r.simulation[m.ID]; dup {
			return nil, fmt.Errorf("simulation mode %q: duplicate id", m.ID)
		}
		r.simulation[m.ID] = &m
	}
	for i := range c.Industries {
		b := c.Industries[i]
		if b.ID == "" {
			return nil, fmt.Errorf("industry %d: empty id", i)
		}
		if _, dup := r.industries[b.ID]; dup {
			return nil, fmt.Errorf("industry %q: duplicate id", b.ID)
		}
		r.industries[b.ID] = &b
	}

	if len(r.cascade) == 0 {
		return nil, errors.New("mode catalog has no cascade modes")
	}
	if len(r.simulation) == 0 {
		return nil, errors.New("mode catalog has no simulation modes")
	}
	if _, ok := r.cascade[r.defaultMode]; !ok {
		return nil, fmt.Errorf("default suggested mode %q is not a cascade mode", r.defaultMode)
	}
	for changeType, modeID := range r.suggested {
		if _, ok := r.cascade[modeID]; !ok {
			return nil, fmt.Errorf("suggested mode %q for change type %q is not a cascade mode", modeID, changeType)
		}
	}

	return r, nil
}

func checkMode(m *Mode, simulation bool) error {
	if m.ID == "" {
		return errors.New("empty id")
	}
	switch m.Bias {
	case BiasOptimistic, BiasPessimistic, BiasBalanced, BiasContrarian:
	default:
		return fmt.Errorf("unknown bias %q", m.Bias)
	}
	if m.RiskWeighting <= 0 || m.OpportunityWeighting <= 0 {
		return errors.New("weightings must be positive")
	}
	if m.AnalysisDepth < 1 {
		return errors.New("analysis_depth must be at least 1")
	}
	if m.IndustryModifiers.RiskMultiplier <= 0 || m.IndustryModifiers.ConfidenceMultiplier <= 0 {
		return errors.New("industry modifiers must be positive")
	}
	if simulation && m.DefaultUniverseCount < 2 {
		return errors.New("default_universe_count must be at least 2")
	}
	return nil
}

// CascadeMode resolves a cascade mode by ID.
func (r *Registry) CascadeMode(id string) (*Mode, error) {
	m, ok := r.cascade[id]
	if !ok {
		return nil, fmt.Errorf("%w: cascade mode %q", ErrUnknownMode, id)
	}
	return m, nil
}

// SimulationMode resolves a simulation mode by ID.
func (r *Registry) SimulationMode(id string) (*Mode, error) {
	m, ok := r.simulation[id]
	if !ok {
		return nil, fmt.Errorf("%w: simulation mode %q", ErrUnknownMode, id)
	}
	return m, nil
}

// Industry resolves an industry benchmark by ID.
func (r *Registry) Industry(id string) (*IndustryBenchmark, error) {
	b, ok := r.industries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndustry, id)
	}
	return b, nil
}

// SuggestMode returns the cascade mode ID best suited to a change type.
// Unrecognized types get the default mode rather than an error.
func (r *Registry) SuggestMode(changeType string) string {
	if id, ok := r.suggested[changeType]; ok {
		return id
	}
	return r.defaultMode
}

// CascadeModes lists all cascade modes sorted by ID.
func (r *Registry) CascadeModes() []Mode {
	return sortedModes(r.cascade)
}

// SimulationModes lists all simulation modes sorted by ID.
func (r *Registry) SimulationModes() []Mode {
	return sortedModes(r.simulation)
}

// Industries lists all industry benchmarks sorted by ID.
func (r *Registry) Industries() []IndustryBenchmark {
	out := make([]IndustryBenchmark, 0, len(r.industries))
	for _, b := range r.industries {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedModes(m map[string]*Mode) []Mode {
	out := make([]Mode, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
