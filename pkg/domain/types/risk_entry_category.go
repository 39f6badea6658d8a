package types

import "fmt"

// RiskEntryCategory classifies a single risk register entry
type RiskEntryCategory string

const (
	RiskEntryCategoryBias           RiskEntryCategory = "bias"
	RiskEntryCategoryPrivacy        RiskEntryCategory = "privacy"
	RiskEntryCategorySecurity       RiskEntryCategory = "security"
	RiskEntryCategorySafety         RiskEntryCategory = "safety"
	RiskEntryCategoryTransparency   RiskEntryCategory = "transparency"
	RiskEntryCategoryAccountability RiskEntryCategory = "accountability"
	RiskEntryCategoryRobustness     RiskEntryCategory = "robustness"
	RiskEntryCategoryLegal          RiskEntryCategory = "legal"
	RiskEntryCategoryEnvironmental  RiskEntryCategory = "environmental"
	RiskEntryCategoryOther          RiskEntryCategory = "other"
)

// AllRiskEntryCategories returns all valid risk entry categories
func AllRiskEntryCategories() []RiskEntryCategory {
	return []RiskEntryCategory{
		RiskEntryCategoryBias,
		RiskEntryCategoryPrivacy,
		RiskEntryCategorySecurity,
		RiskEntryCategorySafety,
		RiskEntryCategoryTransparency,
		RiskEntryCategoryAccountability,
		RiskEntryCategoryRobustness,
		RiskEntryCategoryLegal,
		RiskEntryCategoryEnvironmental,
		RiskEntryCategoryOther,
	}
}

// IsValid checks if the category is valid
func (c RiskEntryCategory) IsValid() bool {
	for _, v := range AllRiskEntryCategories() {
		if c == v {
			return true
		}
	}
	return false
}

func (c RiskEntryCategory) String() string {
	return string(c)
}

// ParseRiskEntryCategory parses a string into a RiskEntryCategory
func ParseRiskEntryCategory(s string) (RiskEntryCategory, error) {
	c := RiskEntryCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid risk entry category: %s", s)
	}
	return c, nil
}
