package suggest

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const FlowControlMapping = "control-mapping"

type ControlMappingInput struct {
	Project ProjectSummary
	Risk    RiskNote
	Catalog []model.Control
}

// ControlMapping is the set of Annex A controls proposed for one risk
type ControlMapping struct {
	Controls []ControlSuggestion `json:"controls"`
}

type ControlSuggestion struct {
	ID        string `json:"id"`
	Rationale string `json:"rationale"`
}

func (m *ControlMapping) Validate() error {
	for _, c := range m.Controls {
		if _, ok := model.LookupControl(types.ControlID(c.ID)); !ok {
			return goerr.Wrap(model.ErrInvalidOptionID, "control is not in the catalog", goerr.V("id", c.ID))
		}
	}
	m.Controls = lo.UniqBy(m.Controls, func(c ControlSuggestion) string { return c.ID })
	return nil
}

// IDs returns the suggested control IDs in the order the model gave them
func (m *ControlMapping) IDs() []types.ControlID {
	return lo.Map(m.Controls, func(c ControlSuggestion, _ int) types.ControlID { return types.ControlID(c.ID) })
}

func NewControlMappingFlow() *Flow[*ControlMappingInput, *ControlMapping] {
	return &Flow[*ControlMappingInput, *ControlMapping]{
		Name:         FlowControlMapping,
		SystemPrompt: systemPromptBase + "\nYou map risks to ISO/IEC 42001 Annex A controls for the risk treatment plan.",
		Template:     lookupTemplate("control_mapping.tmpl"),
		Schema: &gollem.Parameter{
			Title:       "ControlMapping",
			Description: "Annex A controls that treat the risk",
			Type:        gollem.TypeObject,
			Properties: map[string]*gollem.Parameter{
				"controls": {
					Type:     gollem.TypeArray,
					Required: true,
					Items: &gollem.Parameter{
						Type: gollem.TypeObject,
						Properties: map[string]*gollem.Parameter{
							"id": {
								Type:        gollem.TypeString,
								Description: "Control ID such as A.6.2.4",
								Enum:        model.ControlIDs(),
								Required:    true,
							},
							"rationale": {
								Type:        gollem.TypeString,
								Description: "Why this control treats the risk",
								Required:    true,
							},
						},
					},
				},
			},
		},
	}
}
