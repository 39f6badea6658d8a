package suggest

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const FlowRiskClassification = "risk-classification"

type ClassificationInput struct {
	Project           ProjectSummary
	DataCategories    string
	DeploymentContext string
	HumanOversight    string
}

// Classification is the proposed regulatory risk category of the whole system
type Classification struct {
	RiskCategory string `json:"risk_category"`
	Rationale    string `json:"rationale"`
}

func (c *Classification) Validate() error {
	if !types.RiskCategory(c.RiskCategory).IsValid() {
		return goerr.Wrap(model.ErrInvalidOptionID, "unknown risk category", goerr.V("risk_category", c.RiskCategory))
	}
	if strings.TrimSpace(c.Rationale) == "" {
		return goerr.Wrap(model.ErrMissingRequired, "rationale is empty")
	}
	return nil
}

func NewClassificationFlow() *Flow[*ClassificationInput, *Classification] {
	categories := lo.Map(types.AllRiskCategories(), func(c types.RiskCategory, _ int) string { return c.String() })

	return &Flow[*ClassificationInput, *Classification]{
		Name:         FlowRiskClassification,
		SystemPrompt: systemPromptBase + "\nYou classify AI systems by regulatory risk level.",
		Template:     lookupTemplate("risk_classification.tmpl"),
		Schema: &gollem.Parameter{
			Title:       "RiskClassification",
			Description: "Regulatory risk category of the AI system",
			Type:        gollem.TypeObject,
			Properties: map[string]*gollem.Parameter{
				"risk_category": {
					Type:     gollem.TypeString,
					Enum:     categories,
					Required: true,
				},
				"rationale": {
					Type:        gollem.TypeString,
					Description: "Reasons for the category",
					Required:    true,
				},
			},
		},
	}
}
