package types

import "fmt"

// DocumentKind is the type of compliance document the generator produces
type DocumentKind string

const (
	DocumentKindImpactAssessment         DocumentKind = "impact-assessment"
	DocumentKindRiskTreatmentPlan        DocumentKind = "risk-treatment-plan"
	DocumentKindSystemCard               DocumentKind = "system-card"
	DocumentKindStatementOfApplicability DocumentKind = "statement-of-applicability"
)

// AllDocumentKinds returns all valid document kinds
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{
		DocumentKindImpactAssessment,
		DocumentKindRiskTreatmentPlan,
		DocumentKindSystemCard,
		DocumentKindStatementOfApplicability,
	}
}

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindImpactAssessment,
		DocumentKindRiskTreatmentPlan,
		DocumentKindSystemCard,
		DocumentKindStatementOfApplicability:
		return true
	default:
		return false
	}
}

// Title returns the human readable name of the document kind
func (k DocumentKind) Title() string {
	switch k {
	case DocumentKindImpactAssessment:
		return "AI System Impact Assessment"
	case DocumentKindRiskTreatmentPlan:
		return "Risk Treatment Plan"
	case DocumentKindSystemCard:
		return "AI System Card"
	case DocumentKindStatementOfApplicability:
		return "Statement of Applicability"
	default:
		return string(k)
	}
}

func (k DocumentKind) String() string {
	return string(k)
}

// ParseDocumentKind parses a string into a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid document kind: %s", s)
	}
	return k, nil
}
