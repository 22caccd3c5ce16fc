package modes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return r
}

func TestBuiltinCatalogLoads(t *testing.T) {
	r := newTestRegistry(t)

	if len(r.CascadeModes()) < 3 {
		t.Errorf("expected at least 3 cascade modes, got %d", len(r.CascadeModes()))
	}
	if len(r.SimulationModes()) < 3 {
		t.Errorf("expected at least 3 simulation modes, got %d", len(r.SimulationModes()))
	}
	if len(r.Industries()) < 4 {
		t.Errorf("expected at least 4 industries, got %d", len(r.Industries()))
	}
}

func TestCascadeModeLookup(t *testing.T) {
	r := newTestRegistry(t)

	m, err := r.CascadeMode("conservative")
	if err != nil {
		t.Fatalf("CascadeMode failed: %v", err)
	}
	if m.Bias != BiasPessimistic {
		t.Errorf("conservative mode should be pessimistic, got %s", m.Bias)
	}
	if m.AnalysisDepth != 5 {
		t.Errorf("conservative depth should be 5, got %d", m.AnalysisDepth)
	}
	if m.RiskWeighting <= m.OpportunityWeighting {
		t.Error("conservative mode must weigh risk above opportunity")
	}

	if _, err := r.CascadeMode("yolo"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestSimulationModeLookup(t *testing.T) {
	r := newTestRegistry(t)

	m, err := r.SimulationMode("guardian")
	if err != nil {
		t.Fatalf("SimulationMode failed: %v", err)
	}
	if m.DefaultUniverseCount < 2 {
		t.Errorf("simulation mode needs at least 2 universes, got %d", m.DefaultUniverseCount)
	}

	// Cascade IDs are a separate namespace.
	if _, err := r.SimulationMode("balanced"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode for cascade-only id, got %v", err)
	}
}

func TestIndustryLookup(t *testing.T) {
	r := newTestRegistry(t)

	b, err := r.Industry("technology")
	if err != nil {
		t.Fatalf("Industry failed: %v", err)
	}
	if b.DataReliability <= 0 || b.DataReliability > 1 {
		t.Errorf("data reliability out of range: %f", b.DataReliability)
	}
	if b.CascadeModifier <= 0 {
		t.Errorf("cascade modifier must be positive: %f", b.CascadeModifier)
	}

	if _, err := r.Industry("agritech"); !errors.Is(err, ErrUnknownIndustry) {
		t.Errorf("expected ErrUnknownIndustry, got %v", err)
	}
}

func TestSuggestMode(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		changeType string
		want       string
	}{
		{"restructure", "conservative"},
		{"headcount", "conservative"},
		{"market_entry", "aggressive"},
		{"pricing", "balanced"},
		{"something_nobody_heard_of", "conservative"},
		{"", "conservative"},
	}
	for _, tt := range tests {
		if got := r.SuggestMode(tt.changeType); got != tt.want {
			t.Errorf("SuggestMode(%q) = %q, want %q", tt.changeType, got, tt.want)
		}
	}

	// Every suggestion must resolve.
	for _, tt := range tests {
		if _, err := r.CascadeMode(r.SuggestMode(tt.changeType)); err != nil {
			t.Errorf("suggested mode for %q does not resolve: %v", tt.changeType, err)
		}
	}
}

func TestCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modes.yaml")
	catalog := `
cascade_modes:
  - id: custom
    label: Custom
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers:
      risk_multiplier: 1.0
      confidence_multiplier: 1.0
simulation_modes:
  - id: custom-sim
    label: Custom Sim
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    default_universe_count: 2
    industry_modifiers:
      risk_multiplier: 1.0
      confidence_multiplier: 1.0
industries:
  - id: generic
    label: Generic
    data_reliability: 0.7
    forecast_accuracy: 0.6
    cascade_modifier: 1.0
default_suggested_mode: custom
`
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	r, err := NewRegistryFromFile(path)
	if err != nil {
		t.Fatalf("NewRegistryFromFile failed: %v", err)
	}
	if _, err := r.CascadeMode("custom"); err != nil {
		t.Errorf("custom mode missing: %v", err)
	}
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "negative weighting",
			body: `
cascade_modes:
  - id: bad
    bias: balanced
    risk_weighting: -1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
simulation_modes:
  - id: s
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    default_universe_count: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
default_suggested_mode: bad
`,
		},
		{
			name: "unknown bias",
			body: `
cascade_modes:
  - id: bad
    bias: moody
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
simulation_modes:
  - id: s
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    default_universe_count: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
default_suggested_mode: bad
`,
		},
		{
			name: "default mode not a cascade mode",
			body: `
cascade_modes:
  - id: ok
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
simulation_modes:
  - id: s
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    default_universe_count: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
default_suggested_mode: ghost
`,
		},
		{
			name: "duplicate cascade id",
			body: `
cascade_modes:
  - id: twin
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
  - id: twin
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
simulation_modes:
  - id: s
    bias: balanced
    risk_weighting: 1.0
    opportunity_weighting: 1.0
    analysis_depth: 2
    default_universe_count: 2
    industry_modifiers: {risk_multiplier: 1.0, confidence_multiplier: 1.0}
default_suggested_mode: twin
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newFromBytes([]byte(tt.body)); err == nil {
				t.Error("expected catalog validation error")
			}
		})
	}
}
