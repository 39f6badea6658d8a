package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func projectIDParam(r *http.Request) types.ProjectID {
	return types.ProjectID(chi.URLParam(r, "projectID"))
}

func (s *Server) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := s.uc.Project.ListProjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"projects": lo.Map(projects, func(p *model.Project, _ int) *projectResponse { return toProjectResponse(p) }),
	})
}

func (s *Server) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	project, err := s.uc.Project.CreateProject(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) getProjectHandler(w http.ResponseWriter, r *http.Request) {
	project, err := s.uc.Project.GetProject(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProjectResponse(project))
}

func (s *Server) updateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	project, err := s.uc.Project.UpdateProject(r.Context(), projectIDParam(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProjectResponse(project))
}

func (s *Server) overviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := s.uc.Project.GetOverview(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOverviewResponse(overview))
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	classification, err := s.uc.Suggest.ClassifyRisk(r.Context(), projectIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, classification)
}

func (s *Server) stageSchemasHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"stages": s.uc.Stage.GetStageSchemas(),
	})
}

func controlsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"controls": model.ControlCatalog(),
	})
}
