package api

import (
	"net/http"

	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listAnalyses(w, r) }).
		Post(func() { s.createAnalysis(w, r) }).
		NotAllowed()
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getAnalysis(w, r) }).
		NotAllowed()
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryLimit(w, r)
	if !ok {
		return
	}

	list, err := s.engine.ListReports(r.Context(), limit)
	if err != nil {
		s.respondEngineError(w, err, "list analyses")
		return
	}
	if list == nil {
		list = []reports.ReportSummary{}
	}

	s.respondJSON(w, http.StatusOK, AnalysisListResponse{
		Analyses: list,
		Count:    len(list),
	})
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var req engine.AnalysisRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	report, err := s.engine.AnalyzeChange(r.Context(), &req)
	if err != nil {
		s.respondEngineError(w, err, "analysis")
		return
	}

	s.respondJSON(w, http.StatusCreated, report)
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := s.NewPathExtractor(w, r).ExtractID("/api/v1/analyses/")
	if !ok {
		return
	}

	report, err := s.engine.GetReport(r.Context(), id)
	if err != nil {
		s.respondEngineError(w, err, "get analysis")
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}
