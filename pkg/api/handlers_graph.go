package api

import (
	"fmt"
	"net/http"
)

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			stats, err := s.engine.GraphStats()
			if err != nil {
				s.respondEngineError(w, err, "graph stats")
				return
			}
			s.respondJSON(w, http.StatusOK, stats)
		}).
		NotAllowed()
}

func (s *Server) handleGraphNodes(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			nodes, err := s.engine.ListGraphNodes()
			if err != nil {
				s.respondEngineError(w, err, "graph nodes")
				return
			}
			s.respondJSON(w, http.StatusOK, NodeListResponse{
				Nodes: nodes,
				Count: len(nodes),
			})
		}).
		NotAllowed()
}

func (s *Server) handleGraphSample(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() {
			stats, err := s.engine.LoadSampleGraph()
			if err != nil {
				s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "load sample graph"))
				return
			}
			s.respondJSON(w, http.StatusOK, GraphLoadResponse{Stats: stats})
		}).
		NotAllowed()
}

func (s *Server) handleGraphLoad(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() {
			var req GraphLoadRequest
			if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
				return
			}
			if req.Path == "" {
				s.respondError(w, http.StatusBadRequest, "path is required")
				return
			}

			stats, err := s.engine.LoadGraphFile(req.Path)
			if err != nil {
				// The path came from the client, echoing the failure is safe.
				s.respondError(w, http.StatusBadRequest, fmt.Sprintf("graph load failed: %v", err))
				return
			}
			s.respondJSON(w, http.StatusOK, GraphLoadResponse{Stats: stats})
		}).
		NotAllowed()
}
