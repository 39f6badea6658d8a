package config

import (
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// FieldOption represents an option for select/multi-select fields
type FieldOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FieldDefinition defines one input of a stage form
type FieldDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        types.FieldType `json:"type"`
	Required    bool            `json:"required"`
	Description string          `json:"description,omitempty"`
	Options     []FieldOption   `json:"options,omitempty"` // Only used for select and multi-select types
}

// HasOption reports whether id is one of the field's option IDs
func (f FieldDefinition) HasOption(id string) bool {
	for _, opt := range f.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// OptionIDs returns the option IDs in definition order
func (f FieldDefinition) OptionIDs() []string {
	ids := make([]string, len(f.Options))
	for i, opt := range f.Options {
		ids[i] = opt.ID
	}
	return ids
}

// StageSchema holds the form definition of one lifecycle stage
type StageSchema struct {
	Stage       types.Stage       `json:"stage"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
}

// Field returns the definition with the given ID
func (s *StageSchema) Field(id string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// RequiredFieldIDs returns IDs of required fields in definition order
func (s *StageSchema) RequiredFieldIDs() []string {
	var ids []string
	for _, f := range s.Fields {
		if f.Required {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// StageSchemas is the complete set of stage forms, keyed by stage
type StageSchemas struct {
	stages map[types.Stage]*StageSchema
}

// NewStageSchemas builds the set from a list of schemas. Duplicate stages keep the last one.
func NewStageSchemas(schemas ...*StageSchema) *StageSchemas {
	s := &StageSchemas{stages: make(map[types.Stage]*StageSchema, len(schemas))}
	for _, schema := range schemas {
		s.stages[schema.Stage] = schema
	}
	return s
}

// Get returns the schema of a stage
func (s *StageSchemas) Get(stage types.Stage) (*StageSchema, bool) {
	if s == nil {
		return nil, false
	}
	schema, ok := s.stages[stage]
	return schema, ok
}

// List returns the schemas in lifecycle order
func (s *StageSchemas) List() []*StageSchema {
	if s == nil {
		return nil
	}
	var out []*StageSchema
	for _, stage := range types.AllStages() {
		if schema, ok := s.stages[stage]; ok {
			out = append(out, schema)
		}
	}
	return out
}
