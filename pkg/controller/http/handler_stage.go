package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type saveStageRequest struct {
	Values map[string]any `json:"values"`
}

func stageParam(r *http.Request) types.Stage {
	return types.Stage(chi.URLParam(r, "stage"))
}

func (s *Server) listStagesHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.Stage.ListStages(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"stages": lo.Map(records, func(rec *model.StageRecord, _ int) *stageResponse { return toStageResponse(rec) }),
	})
}

func (s *Server) getStageHandler(w http.ResponseWriter, r *http.Request) {
	record, err := s.uc.Stage.GetStage(r.Context(), projectIDParam(r), stageParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStageResponse(record))
}

func (s *Server) saveStageHandler(w http.ResponseWriter, r *http.Request) {
	var req saveStageRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	record, err := s.uc.Stage.SaveStage(r.Context(), projectIDParam(r), stageParam(r), req.Values)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStageResponse(record))
}

func (s *Server) suggestStageHandler(w http.ResponseWriter, r *http.Request) {
	suggestion, err := s.uc.Suggest.SuggestStage(r.Context(), projectIDParam(r), stageParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, suggestion)
}
