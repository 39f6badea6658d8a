package model

import (
	"maps"
	"slices"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// StageRecord holds the submitted form values of one lifecycle stage of a project.
// Values are keyed by FieldDefinition.ID; a value is a string or a []string depending on the field type.
type StageRecord struct {
	ProjectID types.ProjectID
	Stage     types.Stage
	Values    map[string]any
	UpdatedBy types.UserID
	UpdatedAt time.Time
}

// IsEmpty reports whether the stage has never been saved
func (r *StageRecord) IsEmpty() bool {
	return r.UpdatedAt.IsZero()
}

// Copy returns a deep copy of the record
func (r *StageRecord) Copy() *StageRecord {
	c := *r
	c.Values = make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		if list, ok := v.([]string); ok {
			c.Values[k] = slices.Clone(list)
			continue
		}
		c.Values[k] = v
	}
	return &c
}

// String returns the value of a text-like field, or ""
func (r *StageRecord) String(fieldID string) string {
	s, _ := r.Values[fieldID].(string)
	return s
}

// Strings returns the value of a list field, or nil
func (r *StageRecord) Strings(fieldID string) []string {
	list, _ := r.Values[fieldID].([]string)
	return list
}

// FieldIDs returns the IDs of the stored values in sorted order
func (r *StageRecord) FieldIDs() []string {
	return slices.Sorted(maps.Keys(r.Values))
}

// StageCompletion is the fill status of one stage form
type StageCompletion struct {
	Stage          types.Stage
	Filled         int
	Total          int
	RequiredFilled int
	RequiredTotal  int
	UpdatedAt      time.Time
}

// Complete reports whether every required field is filled
func (c StageCompletion) Complete() bool {
	return c.RequiredFilled == c.RequiredTotal && !c.UpdatedAt.IsZero()
}

// Completion counts filled fields of record against schema. record may be nil.
func Completion(schema *config.StageSchema, record *StageRecord) StageCompletion {
	c := StageCompletion{Stage: schema.Stage, Total: len(schema.Fields)}
	if record != nil {
		c.UpdatedAt = record.UpdatedAt
	}

	for _, f := range schema.Fields {
		if f.Required {
			c.RequiredTotal++
		}
		if record == nil || !isFilled(record.Values[f.ID]) {
			continue
		}
		c.Filled++
		if f.Required {
			c.RequiredFilled++
		}
	}
	return c
}
