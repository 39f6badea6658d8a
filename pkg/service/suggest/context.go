package suggest

import (
	"strings"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ProjectSummary is the part of a project every prompt starts with
type ProjectSummary struct {
	Name         string
	Version      string
	CustomerRef  string
	Description  string
	UseCase      string
	SystemType   string
	RiskCategory string
}

func NewProjectSummary(p *model.Project) ProjectSummary {
	return ProjectSummary{
		Name:         p.Name,
		Version:      p.Version,
		CustomerRef:  p.CustomerRef,
		Description:  p.Description,
		UseCase:      p.UseCase,
		SystemType:   p.SystemType.String(),
		RiskCategory: p.RiskCategory.String(),
	}
}

// StageNote is a filled stage form flattened for a prompt
type StageNote struct {
	Stage  types.Stage
	Name   string
	Fields []FieldNote
}

// FieldNote is one filled field. List values are joined with "; ".
type FieldNote struct {
	ID    string
	Name  string
	Value string
}

// NewStageNote flattens record using the field names and option names of schema.
// Empty fields are skipped. record may be nil.
func NewStageNote(schema *config.StageSchema, record *model.StageRecord) StageNote {
	note := StageNote{Stage: schema.Stage, Name: schema.Name}
	if record == nil {
		return note
	}

	for _, f := range schema.Fields {
		value := formatFieldValue(f, record.Values[f.ID])
		if value == "" {
			continue
		}
		note.Fields = append(note.Fields, FieldNote{ID: f.ID, Name: f.Name, Value: value})
	}
	return note
}

// Field returns the value of a field, or ""
func (n StageNote) Field(id string) string {
	for _, f := range n.Fields {
		if f.ID == id {
			return f.Value
		}
	}
	return ""
}

func formatFieldValue(f config.FieldDefinition, v any) string {
	optionName := func(id string) string {
		for _, opt := range f.Options {
			if opt.ID == id {
				return opt.Name
			}
		}
		return id
	}

	switch val := v.(type) {
	case string:
		if f.Type.HasOptions() {
			return optionName(val)
		}
		return strings.TrimSpace(val)
	case []string:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if f.Type.HasOptions() {
				item = optionName(item)
			}
			items = append(items, item)
		}
		return strings.Join(items, "; ")
	default:
		return ""
	}
}

// RiskNote is a register entry flattened for a prompt
type RiskNote struct {
	ID          string
	Title       string
	Description string
	Category    string
	Likelihood  int
	Impact      int
	Level       int
	Band        string
	Status      string
	Mitigations string
	Controls    string
}

func NewRiskNote(r *model.RiskEntry) RiskNote {
	controls := make([]string, len(r.Controls))
	for i, c := range r.Controls {
		controls[i] = c.String()
	}
	return RiskNote{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category.String(),
		Likelihood:  int(r.Likelihood),
		Impact:      int(r.Impact),
		Level:       int(r.Level()),
		Band:        r.Band().String(),
		Status:      r.Status.Normalize().String(),
		Mitigations: strings.Join(r.Mitigations, "; "),
		Controls:    strings.Join(controls, ", "),
	}
}
