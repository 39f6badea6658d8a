package http

import (
	"time"

	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type projectResponse struct {
	ID           types.ProjectID    `json:"id"`
	OwnerID      types.UserID       `json:"owner_id"`
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	CustomerRef  string             `json:"customer_ref"`
	Description  string             `json:"description"`
	UseCase      string             `json:"use_case"`
	SystemType   types.SystemType   `json:"system_type"`
	RiskCategory types.RiskCategory `json:"risk_category"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func toProjectResponse(p *model.Project) *projectResponse {
	return &projectResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Version:      p.Version,
		CustomerRef:  p.CustomerRef,
		Description:  p.Description,
		UseCase:      p.UseCase,
		SystemType:   p.SystemType,
		RiskCategory: p.RiskCategory,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type stageResponse struct {
	Stage     types.Stage    `json:"stage"`
	Values    map[string]any `json:"values"`
	UpdatedBy types.UserID   `json:"updated_by,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

func toStageResponse(r *model.StageRecord) *stageResponse {
	resp := &stageResponse{
		Stage:     r.Stage,
		Values:    r.Values,
		UpdatedBy: r.UpdatedBy,
	}
	if resp.Values == nil {
		resp.Values = map[string]any{}
	}
	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = lo.ToPtr(r.UpdatedAt)
	}
	return resp
}

type riskResponse struct {
	ID          types.RiskID            `json:"id"`
	ProjectID   types.ProjectID         `json:"project_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    types.RiskEntryCategory `json:"category"`
	Likelihood  types.Score             `json:"likelihood"`
	Impact      types.Score             `json:"impact"`
	Level       types.RiskLevel         `json:"level"`
	Band        types.RiskBand          `json:"band"`
	Mitigations []string                `json:"mitigations"`
	Controls    []types.ControlID       `json:"controls"`
	Status      types.RiskStatus        `json:"status"`
	Owner       string                  `json:"owner,omitempty"`
	Source      model.RiskSource        `json:"source"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func toRiskResponse(r *model.RiskEntry) *riskResponse {
	return &riskResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Likelihood:  r.Likelihood,
		Impact:      r.Impact,
		Level:       r.Level(),
		Band:        r.Band(),
		Mitigations: lo.Ternary(r.Mitigations == nil, []string{}, r.Mitigations),
		Controls:    lo.Ternary(r.Controls == nil, []types.ControlID{}, r.Controls),
		Status:      r.Status,
		Owner:       r.Owner,
		Source:      r.Source,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRiskResponses(risks []*model.RiskEntry) []*riskResponse {
	return lo.Map(risks, func(r *model.RiskEntry, _ int) *riskResponse { return toRiskResponse(r) })
}

type riskSummaryResponse struct {
	Total    int                      `json:"total"`
	MaxLevel types.RiskLevel          `json:"max_level"`
	ByBand   map[types.RiskBand]int   `json:"by_band"`
	ByStatus map[types.RiskStatus]int `json:"by_status"`
}

func toRiskSummaryResponse(s *model.RiskSummary) *riskSummaryResponse {
	return &riskSummaryResponse{
		Total:    s.Total,
		MaxLevel: s.MaxLevel,
		ByBand:   s.ByBand,
		ByStatus: s.ByStatus,
	}
}

type documentResponse struct {
	ID         types.DocumentID   `json:"id"`
	ProjectID  types.ProjectID    `json:"project_id"`
	Kind       types.DocumentKind `json:"kind"`
	Title      string             `json:"title"`
	Body       string             `json:"body,omitempty"`
	Revision   int                `json:"revision"`
	PreviousID types.DocumentID   `json:"previous_id,omitempty"`
	Model      string             `json:"model,omitempty"`
	CreatedBy  types.UserID       `json:"created_by"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toDocumentResponse(d *model.Document) *documentResponse {
	return &documentResponse{
		ID:         d.ID,
		ProjectID:  d.ProjectID,
		Kind:       d.Kind,
		Title:      d.Title,
		Body:       d.Body,
		Revision:   d.Revision,
		PreviousID: d.PreviousID,
		Model:      d.Model,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func toDocumentResponses(docs []*model.Document) []*documentResponse {
	return lo.Map(docs, func(d *model.Document, _ int) *documentResponse {
		resp := toDocumentResponse(d)
		resp.Body = ""
		return resp
	})
}

type stageCompletionResponse struct {
	Stage          types.Stage `json:"stage"`
	Filled         int         `json:"filled"`
	Total          int         `json:"total"`
	RequiredFilled int         `json:"required_filled"`
	RequiredTotal  int         `json:"required_total"`
	Complete       bool        `json:"complete"`
}

type overviewResponse struct {
	Project   *projectResponse          `json:"project"`
	Stages    []stageCompletionResponse `json:"stages"`
	Risks     *riskSummaryResponse      `json:"risks"`
	Documents []*documentResponse       `json:"documents"`
}

func toOverviewResponse(o *usecase.ProjectOverview) *overviewResponse {
	return &overviewResponse{
		Project: toProjectResponse(o.Project),
		Stages: lo.Map(o.Stages, func(c model.StageCompletion, _ int) stageCompletionResponse {
			return stageCompletionResponse{
				Stage:          c.Stage,
				Filled:         c.Filled,
				Total:          c.Total,
				RequiredFilled: c.RequiredFilled,
				RequiredTotal:  c.RequiredTotal,
				Complete:       c.Complete(),
			}
		}),
		Risks:     toRiskSummaryResponse(o.Risks),
		Documents: toDocumentResponses(o.Documents),
	}
}
