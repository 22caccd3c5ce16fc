package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the full health report. Degraded still answers 200:
// the process keeps serving while a component needs attention.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return serveReport(hc.Check, false)
}

// ReadinessHandler serves the readiness gate. Binary: anything short of
// healthy answers 503 so load balancers pull the instance.
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return serveReport(hc.CheckReadiness, true)
}

// LivenessHandler serves the liveness signal, binary like readiness.
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return serveReport(hc.CheckLiveness, true)
}

func serveReport(probe func() Response, binary bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := probe()

		code := http.StatusOK
		switch {
		case resp.Status == StatusUnhealthy:
			code = http.StatusServiceUnavailable
		case resp.Status == StatusDegraded && binary:
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	}
}
