package types

import "fmt"

// RiskCategory is the regulatory risk classification of an AI system as a whole
type RiskCategory string

const (
	RiskCategoryMinimal      RiskCategory = "minimal"
	RiskCategoryLimited      RiskCategory = "limited"
	RiskCategoryHigh         RiskCategory = "high"
	RiskCategoryUnacceptable RiskCategory = "unacceptable"
)

// AllRiskCategories returns all risk categories from lowest to highest
func AllRiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskCategoryMinimal,
		RiskCategoryLimited,
		RiskCategoryHigh,
		RiskCategoryUnacceptable,
	}
}

// IsValid checks if the risk category is valid
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskCategoryMinimal,
		RiskCategoryLimited,
		RiskCategoryHigh,
		RiskCategoryUnacceptable:
		return true
	default:
		return false
	}
}

func (c RiskCategory) String() string {
	return string(c)
}

// ParseRiskCategory parses a string into a RiskCategory
func ParseRiskCategory(s string) (RiskCategory, error) {
	c := RiskCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid risk category: %s", s)
	}
	return c, nil
}
