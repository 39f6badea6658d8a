package types

// FieldType represents the input type of a stage form field
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextList    FieldType = "text-list"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multi-select"
	FieldTypeDate        FieldType = "date"
	FieldTypeURL         FieldType = "url"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextList,
		FieldTypeSelect,
		FieldTypeMultiSelect,
		FieldTypeDate,
		FieldTypeURL,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText,
		FieldTypeTextList,
		FieldTypeSelect,
		FieldTypeMultiSelect,
		FieldTypeDate,
		FieldTypeURL:
		return true
	default:
		return false
	}
}

// IsList reports whether values of this type are string arrays
func (t FieldType) IsList() bool {
	return t == FieldTypeTextList || t == FieldTypeMultiSelect
}

// HasOptions reports whether the field type requires an option list
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeMultiSelect
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}
