package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const dateLayout = "2006-01-02"

// StageValidator validates stage form values against a stage schema
type StageValidator struct {
	schema *config.StageSchema
}

// NewStageValidator creates a new StageValidator with the given schema
func NewStageValidator(schema *config.StageSchema) *StageValidator {
	return &StageValidator{
		schema: schema,
	}
}

// Validate checks submitted values and returns a normalized copy.
// []any lists are converted to []string, strings are trimmed and blank list items dropped.
// Every required field must be present and non-empty.
func (v *StageValidator) Validate(values map[string]any) (map[string]any, error) {
	return v.validate(values, true)
}

// ValidatePartial is Validate without the required field checks.
// Used for model suggestions that may leave fields open.
func (v *StageValidator) ValidatePartial(values map[string]any) (map[string]any, error) {
	return v.validate(values, false)
}

func (v *StageValidator) validate(values map[string]any, checkRequired bool) (map[string]any, error) {
	normalized := make(map[string]any, len(values))

	for fieldID, raw := range values {
		fieldDef, ok := v.schema.Field(fieldID)
		if !ok {
			return nil, goerr.Wrap(ErrUnknownField, "field is not defined for this stage",
				goerr.V(FieldIDKey, fieldID),
				goerr.V(StageKey, v.schema.Stage))
		}
		// null leaves the field unset
		if raw == nil {
			continue
		}

		value, err := v.validateFieldValue(fieldDef, raw)
		if err != nil {
			return nil, goerr.Wrap(err, "field validation failed",
				goerr.V(FieldIDKey, fieldID),
				goerr.V(StageKey, v.schema.Stage))
		}
		if isFilled(value) {
			normalized[fieldID] = value
		}
	}

	if checkRequired {
		for _, fieldDef := range v.schema.Fields {
			if fieldDef.Required && !isFilled(normalized[fieldDef.ID]) {
				return nil, goerr.Wrap(ErrMissingRequired, "required field not provided",
					goerr.V(FieldIDKey, fieldDef.ID),
					goerr.V(StageKey, v.schema.Stage))
			}
		}
	}

	return normalized, nil
}

// validateFieldValue validates a single value against its definition and returns it normalized
func (v *StageValidator) validateFieldValue(fieldDef config.FieldDefinition, raw any) (any, error) {
	switch fieldDef.Type {
	case types.FieldTypeText:
		return v.validateText(fieldDef, raw)
	case types.FieldTypeTextList:
		return v.validateTextList(fieldDef, raw)
	case types.FieldTypeSelect:
		return v.validateSelect(fieldDef, raw)
	case types.FieldTypeMultiSelect:
		return v.validateMultiSelect(fieldDef, raw)
	case types.FieldTypeDate:
		return v.validateDate(fieldDef, raw)
	case types.FieldTypeURL:
		return v.validateURL(fieldDef, raw)
	default:
		return nil, goerr.Wrap(ErrInvalidFieldType, "unsupported field type",
			goerr.V(FieldIDKey, fieldDef.ID),
			goerr.V(ExpectedTypeKey, fieldDef.Type))
	}
}

func (v *StageValidator) validateText(fieldDef config.FieldDefinition, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidFieldType, "value must be string",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	return strings.TrimSpace(s), nil
}

func (v *StageValidator) validateTextList(fieldDef config.FieldDefinition, raw any) (any, error) {
	list, err := toStrings(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "value must be array of strings",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	return compactStrings(list), nil
}

func (v *StageValidator) validateSelect(fieldDef config.FieldDefinition, raw any) (any, error) {
	optionID, ok := raw.(string)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidFieldType, "value must be string (option ID)",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	optionID = strings.TrimSpace(optionID)
	if optionID == "" {
		return "", nil
	}

	if !fieldDef.HasOption(optionID) {
		return nil, goerr.Wrap(ErrInvalidOptionID, "option ID not found in field definition",
			goerr.V(OptionIDKey, optionID),
			goerr.V(FieldIDKey, fieldDef.ID))
	}
	return optionID, nil
}

func (v *StageValidator) validateMultiSelect(fieldDef config.FieldDefinition, raw any) (any, error) {
	optionIDs, err := toStrings(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "value must be array of strings (option IDs)",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}

	optionIDs = compactStrings(optionIDs)
	for _, optionID := range optionIDs {
		if !fieldDef.HasOption(optionID) {
			return nil, goerr.Wrap(ErrInvalidOptionID, "option ID not found in field definition",
				goerr.V(OptionIDKey, optionID),
				goerr.V(FieldIDKey, fieldDef.ID))
		}
	}
	return optionIDs, nil
}

// validateDate accepts YYYY-MM-DD or RFC3339 and stores YYYY-MM-DD
func (v *StageValidator) validateDate(fieldDef config.FieldDefinition, raw any) (any, error) {
	var t time.Time
	switch val := raw.(type) {
	case time.Time:
		t = val
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return "", nil
		}
		parsed, err := time.Parse(dateLayout, val)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, val)
		}
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidFieldData, "date value must be YYYY-MM-DD or RFC3339",
				goerr.V(FieldValueKey, val))
		}
		t = parsed
	default:
		return nil, goerr.Wrap(ErrInvalidFieldType, "value must be date string",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	return t.Format(dateLayout), nil
}

func (v *StageValidator) validateURL(fieldDef config.FieldDefinition, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidFieldType, "value must be string (URL)",
			goerr.V(ExpectedTypeKey, fieldDef.Type),
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, goerr.Wrap(ErrInvalidFieldData, "value must be an absolute http(s) URL",
			goerr.V(FieldValueKey, s))
	}
	return s, nil
}

// toStrings accepts []string or []any holding only strings (as decoded from JSON or Firestore)
func toStrings(raw any) ([]string, error) {
	switch val := raw.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, goerr.Wrap(ErrInvalidFieldType, "array item must be string",
					goerr.V("index", i),
					goerr.V(ActualTypeKey, fmt.Sprintf("%T", item)))
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, ErrInvalidFieldType
	}
}

func compactStrings(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isFilled(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// NormalizeStageValues converts stored values into their canonical Go types without validating them.
// Firestore returns lists as []any.
func NormalizeStageValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if list, ok := v.([]any); ok {
			if strs, err := toStrings(list); err == nil {
				out[k] = strs
				continue
			}
		}
		out[k] = v
	}
	return out
}
