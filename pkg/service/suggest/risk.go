package suggest

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const FlowRiskAnalysis = "risk-analysis"

// DefaultMaxRisks caps the number of risks one analysis returns
const DefaultMaxRisks = 10

// RiskAnalysisInput is the project documentation the risk analysis works from
type RiskAnalysisInput struct {
	Project  ProjectSummary
	Stages   []StageNote
	Existing []RiskNote
	MaxRisks int
}

// RiskAnalysis is the list of risks proposed by the model
type RiskAnalysis struct {
	Risks []SuggestedRisk `json:"risks"`
}

// SuggestedRisk is a register entry proposed by the model, not yet stored
type SuggestedRisk struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Likelihood  int      `json:"likelihood"`
	Impact      int      `json:"impact"`
	Mitigations []string `json:"mitigations"`
	Controls    []string `json:"controls"`
}

// ToEntry converts the suggestion into a register entry of the project
func (s SuggestedRisk) ToEntry(projectID types.ProjectID) *model.RiskEntry {
	return &model.RiskEntry{
		ProjectID:   projectID,
		Title:       s.Title,
		Description: s.Description,
		Category:    types.RiskEntryCategory(s.Category),
		Likelihood:  types.Score(s.Likelihood),
		Impact:      types.Score(s.Impact),
		Mitigations: s.Mitigations,
		Controls:    lo.Map(s.Controls, func(id string, _ int) types.ControlID { return types.ControlID(id) }),
		Status:      types.RiskStatusIdentified,
		Source:      model.RiskSourceSuggested,
	}
}

func (a *RiskAnalysis) Validate() error {
	for i, r := range a.Risks {
		entry := r.ToEntry("")
		entry.Normalize()
		if err := entry.Validate(); err != nil {
			return goerr.Wrap(err, "suggested risk is invalid", goerr.V("index", i), goerr.V("title", r.Title))
		}
	}
	return nil
}

// NewRiskAnalysisFlow builds the risk analysis flow
func NewRiskAnalysisFlow() *Flow[*RiskAnalysisInput, *RiskAnalysis] {
	return &Flow[*RiskAnalysisInput, *RiskAnalysis]{
		Name:         FlowRiskAnalysis,
		SystemPrompt: systemPromptBase + "\nYou perform an AI system risk assessment (ISO/IEC 42001 clause 6.1.2).",
		Template:     lookupTemplate("risk_analysis.tmpl"),
		Schema:       riskAnalysisSchema(),
		Check: func(in *RiskAnalysisInput, out *RiskAnalysis) error {
			existing := lo.SliceToMap(in.Existing, func(r RiskNote) (string, struct{}) {
				return strings.ToLower(strings.TrimSpace(r.Title)), struct{}{}
			})
			out.Risks = lo.Filter(out.Risks, func(r SuggestedRisk, _ int) bool {
				_, dup := existing[strings.ToLower(strings.TrimSpace(r.Title))]
				return !dup
			})
			// known risks must not use up the cap
			if in.MaxRisks > 0 && len(out.Risks) > in.MaxRisks {
				out.Risks = out.Risks[:in.MaxRisks]
			}
			return nil
		},
	}
}

func riskAnalysisSchema() *gollem.Parameter {
	categories := lo.Map(types.AllRiskEntryCategories(), func(c types.RiskEntryCategory, _ int) string { return c.String() })

	return &gollem.Parameter{
		Title:       "RiskAnalysis",
		Description: "Risks identified for the AI system",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"risks": {
				Type:        gollem.TypeArray,
				Description: "Identified risks, most severe first",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"title": {
							Type:        gollem.TypeString,
							Description: "Short name of the risk",
							Required:    true,
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "What can happen, to whom, and why",
							Required:    true,
						},
						"category": {
							Type:        gollem.TypeString,
							Description: "Risk category",
							Enum:        categories,
							Required:    true,
						},
						"likelihood": {
							Type:        gollem.TypeInteger,
							Description: "Likelihood from 1 (rare) to 5 (almost certain)",
							Minimum:     lo.ToPtr(float64(types.MinScore)),
							Maximum:     lo.ToPtr(float64(types.MaxScore)),
							Required:    true,
						},
						"impact": {
							Type:        gollem.TypeInteger,
							Description: "Impact from 1 (negligible) to 5 (severe)",
							Minimum:     lo.ToPtr(float64(types.MinScore)),
							Maximum:     lo.ToPtr(float64(types.MaxScore)),
							Required:    true,
						},
						"mitigations": {
							Type:        gollem.TypeArray,
							Description: "Concrete treatment measures",
							Items:       &gollem.Parameter{Type: gollem.TypeString},
							Required:    true,
						},
						"controls": {
							Type:        gollem.TypeArray,
							Description: "ISO/IEC 42001 Annex A control IDs",
							Items:       &gollem.Parameter{Type: gollem.TypeString, Enum: model.ControlIDs()},
							Required:    true,
						},
					},
				},
			},
		},
	}
}
