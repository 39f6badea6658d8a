package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/suggest"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type acceptRisksRequest struct {
	Risks []suggest.SuggestedRisk `json:"risks"`
}

func riskIDParam(r *http.Request) types.RiskID {
	return types.RiskID(chi.URLParam(r, "riskID"))
}

func (s *Server) listRisksHandler(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.ListRisks(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"risks": toRiskResponses(risks)})
}

func (s *Server) createRiskHandler(w http.ResponseWriter, r *http.Request) {
	var in usecase.RiskInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	entry, err := s.uc.Risk.CreateRisk(r.Context(), projectIDParam(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRiskResponse(entry))
}

func (s *Server) getRiskHandler(w http.ResponseWriter, r *http.Request) {
	entry, err := s.uc.Risk.GetRisk(r.Context(), projectIDParam(r), riskIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(entry))
}

func (s *Server) updateRiskHandler(w http.ResponseWriter, r *http.Request) {
	var in usecase.RiskInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	entry, err := s.uc.Risk.UpdateRisk(r.Context(), projectIDParam(r), riskIDParam(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(entry))
}

func (s *Server) deleteRiskHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Risk.DeleteRisk(r.Context(), projectIDParam(r), riskIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) riskSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Risk.Summary(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskSummaryResponse(summary))
}

func (s *Server) analyzeRisksHandler(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.uc.Suggest.AnalyzeRisks(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, analysis)
}

// acceptRisksHandler stores reviewed risk suggestions. Every entry is validated before any is written.
func (s *Server) acceptRisksHandler(w http.ResponseWriter, r *http.Request) {
	var req acceptRisksRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.Risk.AcceptRiskSuggestions(r.Context(), projectIDParam(r), req.Risks)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"risks": toRiskResponses(created)})
}

func (s *Server) suggestControlsHandler(w http.ResponseWriter, r *http.Request) {
	mapping, err := s.uc.Suggest.MapControls(r.Context(), projectIDParam(r), riskIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapping)
}
