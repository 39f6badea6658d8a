package suggest

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const FlowDocument = "document"

type DocumentInput struct {
	Kind     types.DocumentKind
	Title    string
	Guidance string
	Project  ProjectSummary
	Stages   []StageNote
	Risks    []RiskNote
	Controls []model.Control
}

// NewDocumentInput fills title and kind specific guidance. Controls are listed only for the statement of applicability.
func NewDocumentInput(kind types.DocumentKind, project ProjectSummary, stages []StageNote, risks []RiskNote) *DocumentInput {
	in := &DocumentInput{
		Kind:     kind,
		Title:    kind.Title(),
		Guidance: documentGuidance[kind],
		Project:  project,
		Stages:   stages,
		Risks:    risks,
	}
	if kind == types.DocumentKindStatementOfApplicability {
		in.Controls = model.ControlCatalog()
	}
	return in
}

var documentGuidance = map[types.DocumentKind]string{
	types.DocumentKindImpactAssessment: "Assess the potential consequences of the AI system for individuals, groups and society " +
		"(ISO/IEC 42001 A.5). Cover intended use, affected parties, foreseeable misuse, data, and the measures in place.",
	types.DocumentKindRiskTreatmentPlan: "Describe how each risk in the register is treated: chosen option, mitigations, " +
		"responsible controls, owner and residual risk. Order by risk level.",
	types.DocumentKindSystemCard: "Summarize the AI system for users and interested parties (ISO/IEC 42001 A.8.2): purpose, " +
		"capabilities, limitations, data, evaluation results, human oversight and contact points.",
	types.DocumentKindStatementOfApplicability: "For every Annex A control state whether it applies, the justification, " +
		"and how it is implemented for this system. Use one section per control group.",
}

// DocumentDraft is the generated document before rendering
type DocumentDraft struct {
	Title    string                  `json:"title"`
	Sections []model.DocumentSection `json:"sections"`
}

func (d *DocumentDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return goerr.Wrap(model.ErrMissingRequired, "document title is empty")
	}
	if len(d.Sections) == 0 {
		return goerr.Wrap(model.ErrMissingRequired, "document has no sections")
	}
	for i, s := range d.Sections {
		if strings.TrimSpace(s.Heading) == "" {
			return goerr.Wrap(model.ErrMissingRequired, "section heading is empty", goerr.V("index", i))
		}
	}
	return nil
}

// Markdown renders the draft
func (d *DocumentDraft) Markdown() string {
	return model.RenderMarkdown(d.Title, d.Sections)
}

func NewDocumentFlow() *Flow[*DocumentInput, *DocumentDraft] {
	return &Flow[*DocumentInput, *DocumentDraft]{
		Name:         FlowDocument,
		SystemPrompt: systemPromptBase + "\nYou write AI management system documentation for auditors.",
		Template:     lookupTemplate("document.tmpl"),
		Schema: &gollem.Parameter{
			Title:       "Document",
			Description: "Compliance document split into sections",
			Type:        gollem.TypeObject,
			Properties: map[string]*gollem.Parameter{
				"title": {
					Type:     gollem.TypeString,
					Required: true,
				},
				"sections": {
					Type:     gollem.TypeArray,
					Required: true,
					Items: &gollem.Parameter{
						Type: gollem.TypeObject,
						Properties: map[string]*gollem.Parameter{
							"heading": {Type: gollem.TypeString, Required: true},
							"body":    {Type: gollem.TypeString, Description: "Markdown body", Required: true},
						},
					},
				},
			},
		},
	}
}
