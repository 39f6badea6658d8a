package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for stage form configuration
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrInvalidStage      = goerr.New("unknown lifecycle stage")
	ErrDuplicateStage    = goerr.New("duplicate stage")
	ErrDuplicateFieldID  = goerr.New("duplicate field ID")
	ErrDuplicateOptionID = goerr.New("duplicate option ID")
	ErrInvalidFieldID    = goerr.New("invalid field ID format")
	ErrInvalidFieldType  = goerr.New("invalid field type")
	ErrMissingOptions    = goerr.New("select/multi-select field requires at least one option")
	ErrUnexpectedOptions = goerr.New("options are only allowed on select/multi-select fields")
	ErrMissingName       = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	StageKey       = "stage"
	FieldIDKey     = "field_id"
	FieldTypeKey   = "field_type"
	OptionIDKey    = "option_id"
	FieldIndexKey  = "field_index"
	OptionIndexKey = "option_index"
)
