package model

import "github.com/secmon-lab/themis/pkg/domain/types"

// Control is one ISO/IEC 42001 Annex A reference control
type Control struct {
	ID    types.ControlID `json:"id"`
	Group string          `json:"group"`
	Title string          `json:"title"`
}

var controlCatalog = []Control{
	{ID: "A.2.2", Group: "Policies related to AI", Title: "AI policy"},
	{ID: "A.2.3", Group: "Policies related to AI", Title: "Alignment with other organizational policies"},
	{ID: "A.2.4", Group: "Policies related to AI", Title: "Review of the AI policy"},
	{ID: "A.3.2", Group: "Internal organization", Title: "AI roles and responsibilities"},
	{ID: "A.3.3", Group: "Internal organization", Title: "Reporting of concerns"},
	{ID: "A.4.2", Group: "Resources for AI systems", Title: "Resource documentation"},
	{ID: "A.4.3", Group: "Resources for AI systems", Title: "Data resources"},
	{ID: "A.4.4", Group: "Resources for AI systems", Title: "Tooling resources"},
	{ID: "A.4.5", Group: "Resources for AI systems", Title: "System and computing resources"},
	{ID: "A.4.6", Group: "Resources for AI systems", Title: "Human resources"},
	{ID: "A.5.2", Group: "Assessing impacts of AI systems", Title: "AI system impact assessment process"},
	{ID: "A.5.3", Group: "Assessing impacts of AI systems", Title: "Documentation of AI system impact assessments"},
	{ID: "A.5.4", Group: "Assessing impacts of AI systems", Title: "Assessing AI system impact on individuals or groups of individuals"},
	{ID: "A.5.5", Group: "Assessing impacts of AI systems", Title: "Assessing societal impacts of AI systems"},
	{ID: "A.6.1.2", Group: "AI system life cycle", Title: "Objectives for responsible development of AI system"},
	{ID: "A.6.1.3", Group: "AI system life cycle", Title: "Processes for responsible AI system design and development"},
	{ID: "A.6.2.2", Group: "AI system life cycle", Title: "AI system requirements and specification"},
	{ID: "A.6.2.3", Group: "AI system life cycle", Title: "Documentation of AI system design and development"},
	{ID: "A.6.2.4", Group: "AI system life cycle", Title: "AI system verification and validation"},
	{ID: "A.6.2.5", Group: "AI system life cycle", Title: "AI system deployment"},
	{ID: "A.6.2.6", Group: "AI system life cycle", Title: "AI system operation and monitoring"},
	{ID: "A.6.2.7", Group: "AI system life cycle", Title: "AI system technical documentation"},
	{ID: "A.6.2.8", Group: "AI system life cycle", Title: "AI system recording of event logs"},
	{ID: "A.7.2", Group: "Data for AI systems", Title: "Data for development and enhancement of AI system"},
	{ID: "A.7.3", Group: "Data for AI systems", Title: "Acquisition of data"},
	{ID: "A.7.4", Group: "Data for AI systems", Title: "Quality of data for AI systems"},
	{ID: "A.7.5", Group: "Data for AI systems", Title: "Data provenance"},
	{ID: "A.7.6", Group: "Data for AI systems", Title: "Data preparation"},
	{ID: "A.8.2", Group: "Information for interested parties", Title: "System documentation and information for users"},
	{ID: "A.8.3", Group: "Information for interested parties", Title: "External reporting"},
	{ID: "A.8.4", Group: "Information for interested parties", Title: "Communication of incidents"},
	{ID: "A.8.5", Group: "Information for interested parties", Title: "Information for interested parties"},
	{ID: "A.9.2", Group: "Use of AI systems", Title: "Processes for responsible use of AI systems"},
	{ID: "A.9.3", Group: "Use of AI systems", Title: "Objectives for responsible use of AI system"},
	{ID: "A.9.4", Group: "Use of AI systems", Title: "Intended use of the AI system"},
	{ID: "A.10.2", Group: "Third-party and customer relationships", Title: "Allocating responsibilities"},
	{ID: "A.10.3", Group: "Third-party and customer relationships", Title: "Suppliers"},
	{ID: "A.10.4", Group: "Third-party and customer relationships", Title: "Customers"},
}

var controlIndex = func() map[types.ControlID]Control {
	m := make(map[types.ControlID]Control, len(controlCatalog))
	for _, c := range controlCatalog {
		m[c.ID] = c
	}
	return m
}()

// ControlCatalog returns the Annex A controls in catalog order
func ControlCatalog() []Control {
	out := make([]Control, len(controlCatalog))
	copy(out, controlCatalog)
	return out
}

// ControlIDs returns the IDs of all controls in catalog order
func ControlIDs() []string {
	ids := make([]string, len(controlCatalog))
	for i, c := range controlCatalog {
		ids[i] = string(c.ID)
	}
	return ids
}

// LookupControl finds a control by ID
func LookupControl(id types.ControlID) (Control, bool) {
	c, ok := controlIndex[id]
	return c, ok
}
