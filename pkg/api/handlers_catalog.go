package api

import (
	"net/http"
)

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			s.respondJSON(w, http.StatusOK, ModesResponse{
				CascadeModes:    s.engine.CascadeModes(),
				SimulationModes: s.engine.SimulationModes(),
			})
		}).
		NotAllowed()
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			industries := s.engine.Industries()
			s.respondJSON(w, http.StatusOK, IndustryListResponse{
				Industries: industries,
				Count:      len(industries),
			})
		}).
		NotAllowed()
}
