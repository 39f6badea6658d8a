package suggest

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// StageInput is what the stage flow sees: the project, the form to fill, its current values and the other stages
type StageInput struct {
	Project ProjectSummary
	Schema  *config.StageSchema
	Current StageNote
	Others  []StageNote
}

// StageSuggestion holds proposed form values. Values are normalized by the stage validator.
type StageSuggestion struct {
	Values    map[string]any `json:"values"`
	Rationale string         `json:"rationale"`
}

func (s *StageSuggestion) Validate() error {
	if s.Values == nil {
		s.Values = map[string]any{}
	}
	return nil
}

// StageFlowName returns the flow name of a stage, e.g. "stage/design"
func StageFlowName(stage types.Stage) string {
	return "stage/" + stage.String()
}

// NewStageFlow builds the suggestion flow of one stage form
func NewStageFlow(schema *config.StageSchema) *Flow[*StageInput, *StageSuggestion] {
	return &Flow[*StageInput, *StageSuggestion]{
		Name: StageFlowName(schema.Stage),
		SystemPrompt: systemPromptBase + fmt.Sprintf(
			"\nYou fill the %q stage form of the AI system lifecycle record.", schema.Name),
		Template: lookupTemplate("stage.tmpl"),
		Schema:   StageSchemaParameter(schema),
		Check: func(in *StageInput, out *StageSuggestion) error {
			normalized, err := model.NewStageValidator(in.Schema).ValidatePartial(out.Values)
			if err != nil {
				return goerr.Wrap(err, "suggested values do not fit the stage form")
			}
			out.Values = normalized
			return nil
		},
	}
}

// StageSchemaParameter converts a stage form into the response schema.
// No field is required; suggestions may be partial.
func StageSchemaParameter(schema *config.StageSchema) *gollem.Parameter {
	props := make(map[string]*gollem.Parameter, len(schema.Fields))
	for _, f := range schema.Fields {
		props[f.ID] = fieldParameter(f)
	}

	return &gollem.Parameter{
		Title:       "StageSuggestion",
		Description: fmt.Sprintf("Suggested values for the %s stage", schema.Name),
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"values": {
				Type:        gollem.TypeObject,
				Description: "Field values keyed by field ID",
				Properties:  props,
				Required:    true,
			},
			"rationale": {
				Type:        gollem.TypeString,
				Description: "Short explanation of where the values come from",
				Required:    true,
			},
		},
	}
}

func fieldParameter(f config.FieldDefinition) *gollem.Parameter {
	desc := f.Name
	if f.Description != "" {
		desc += ": " + f.Description
	}

	switch f.Type {
	case types.FieldTypeTextList:
		return &gollem.Parameter{
			Type:        gollem.TypeArray,
			Description: desc,
			Items:       &gollem.Parameter{Type: gollem.TypeString},
		}
	case types.FieldTypeMultiSelect:
		return &gollem.Parameter{
			Type:        gollem.TypeArray,
			Description: desc,
			Items:       &gollem.Parameter{Type: gollem.TypeString, Enum: f.OptionIDs()},
		}
	case types.FieldTypeSelect:
		return &gollem.Parameter{
			Type:        gollem.TypeString,
			Description: desc,
			Enum:        f.OptionIDs(),
		}
	case types.FieldTypeDate:
		return &gollem.Parameter{
			Type:        gollem.TypeString,
			Description: desc + " (YYYY-MM-DD)",
		}
	case types.FieldTypeURL:
		return &gollem.Parameter{
			Type:        gollem.TypeString,
			Description: desc + " (absolute http or https URL)",
		}
	default:
		return &gollem.Parameter{
			Type:        gollem.TypeString,
			Description: desc,
		}
	}
}
