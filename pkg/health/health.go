// Package health aggregates component probes into health, readiness,
// and liveness verdicts, with an HTTP handler for each.
package health

import (
	"sync"
	"time"
)

// probeSet is a named collection of checks, safe for concurrent
// registration and probing.
type probeSet struct {
	mu     sync.RWMutex
	probes map[string]CheckFunc
}

func newProbeSet() *probeSet {
	return &probeSet{probes: make(map[string]CheckFunc)}
}

func (ps *probeSet) add(name string, fn CheckFunc) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.probes[name] = fn
}

func (ps *probeSet) size() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.probes)
}

// snapshot copies the probe map so slow checks never hold the lock
// against registration.
func (ps *probeSet) snapshot() map[string]CheckFunc {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	out := make(map[string]CheckFunc, len(ps.probes))
	for name, fn := range ps.probes {
		out[name] = fn
	}
	return out
}

// run probes every check and aggregates worst-status-wins. An empty set
// is healthy.
func (ps *probeSet) run() Response {
	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check),
	}

	for name, fn := range ps.snapshot() {
		started := time.Now()
		check := fn()
		check.LastChecked = started
		check.DurationMS = time.Since(started).Milliseconds()

		resp.Checks[name] = check
		resp.Status = worse(resp.Status, check.Status)
	}
	return resp
}

// HealthChecker groups three probe sets: general health (what the
// operator sees), readiness (should this process receive traffic), and
// liveness (should this process be restarted).
type HealthChecker struct {
	health    *probeSet
	readiness *probeSet
	liveness  *probeSet
}

// NewHealthChecker creates a checker with no probes registered.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		health:    newProbeSet(),
		readiness: newProbeSet(),
		liveness:  newProbeSet(),
	}
}

// RegisterCheck adds a component to the general health report.
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.health.add(name, check)
}

// RegisterReadinessCheck adds a gate for receiving traffic.
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.readiness.add(name, check)
}

// RegisterLivenessCheck adds a restart-the-process signal.
func (hc *HealthChecker) RegisterLivenessCheck(name string, check CheckFunc) {
	hc.liveness.add(name, check)
}

// Check probes every registered health component.
func (hc *HealthChecker) Check() Response { return hc.health.run() }

// CheckReadiness probes the readiness gates.
func (hc *HealthChecker) CheckReadiness() Response { return hc.readiness.run() }

// CheckLiveness probes the liveness signals.
func (hc *HealthChecker) CheckLiveness() Response { return hc.liveness.run() }
