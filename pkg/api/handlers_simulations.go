package api

import (
	"net/http"

	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listSimulations(w, r) }).
		Post(func() { s.createSimulation(w, r) }).
		NotAllowed()
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getSimulation(w, r) }).
		NotAllowed()
}

func (s *Server) listSimulations(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryLimit(w, r)
	if !ok {
		return
	}

	list, err := s.engine.ListSimulations(r.Context(), limit)
	if err != nil {
		s.respondEngineError(w, err, "list simulations")
		return
	}
	if list == nil {
		list = []reports.SimulationSummary{}
	}

	s.respondJSON(w, http.StatusOK, SimulationListResponse{
		Simulations: list,
		Count:       len(list),
	})
}

func (s *Server) createSimulation(w http.ResponseWriter, r *http.Request) {
	var req engine.SimulationRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	report, err := s.engine.Simulate(r.Context(), &req)
	if err != nil {
		s.respondEngineError(w, err, "simulation")
		return
	}

	s.respondJSON(w, http.StatusCreated, report)
}

func (s *Server) getSimulation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.NewPathExtractor(w, r).ExtractID("/api/v1/simulations/")
	if !ok {
		return
	}

	report, err := s.engine.GetSimulation(r.Context(), id)
	if err != nil {
		s.respondEngineError(w, err, "get simulation")
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}
