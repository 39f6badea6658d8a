package model

import "github.com/m-mizutani/goerr/v2"

// Domain errors
var (
	ErrNotFound   = goerr.New("not found")
	ErrValidation = goerr.New("validation failed")
)

// Field validation errors. All of them match ErrValidation with errors.Is.
var (
	ErrInvalidFieldType = goerr.Wrap(ErrValidation, "invalid field type")
	ErrInvalidOptionID  = goerr.Wrap(ErrValidation, "invalid option ID")
	ErrMissingRequired  = goerr.Wrap(ErrValidation, "required field is missing")
	ErrUnknownField     = goerr.Wrap(ErrValidation, "unknown field")
	ErrInvalidFieldData = goerr.Wrap(ErrValidation, "invalid field value")
)

// Context keys for error values
const (
	FieldIDKey      = "field_id"
	ExpectedTypeKey = "expected_type"
	ActualTypeKey   = "actual_type"
	OptionIDKey     = "option_id"
	FieldValueKey   = "field_value"
	StageKey        = "stage"
)
