package model

import (
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const maxRiskTitleLength = 300

// RiskSource tells how a register entry was created
type RiskSource string

const (
	RiskSourceManual    RiskSource = "manual"
	RiskSourceSuggested RiskSource = "suggested"
)

// RiskEntry is one row of a project's risk register.
// The level is derived from likelihood and impact and is never stored.
type RiskEntry struct {
	ID          types.RiskID
	ProjectID   types.ProjectID
	Title       string
	Description string
	Category    types.RiskEntryCategory
	Likelihood  types.Score
	Impact      types.Score
	Mitigations []string
	Controls    []types.ControlID
	Status      types.RiskStatus
	Owner       string
	Source      RiskSource
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Level returns likelihood x impact
func (r *RiskEntry) Level() types.RiskLevel {
	return types.NewRiskLevel(r.Likelihood, r.Impact)
}

// Band returns the qualitative band of the level
func (r *RiskEntry) Band() types.RiskBand {
	return r.Level().Band()
}

// Validate checks the entry before it is stored
func (r *RiskEntry) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return goerr.Wrap(ErrMissingRequired, "risk title is required", goerr.V(FieldIDKey, "title"))
	}
	if len([]rune(title)) > maxRiskTitleLength {
		return goerr.Wrap(ErrInvalidFieldData, "risk title is too long",
			goerr.V(FieldIDKey, "title"),
			goerr.V("max", maxRiskTitleLength))
	}
	if !r.Category.IsValid() {
		return goerr.Wrap(ErrInvalidOptionID, "invalid risk category",
			goerr.V(FieldIDKey, "category"),
			goerr.V(OptionIDKey, r.Category))
	}
	if err := r.Likelihood.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidFieldData, "invalid likelihood",
			goerr.V(FieldIDKey, "likelihood"),
			goerr.V(FieldValueKey, int(r.Likelihood)))
	}
	if err := r.Impact.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidFieldData, "invalid impact",
			goerr.V(FieldIDKey, "impact"),
			goerr.V(FieldValueKey, int(r.Impact)))
	}
	for _, id := range r.Controls {
		if _, ok := LookupControl(id); !ok {
			return goerr.Wrap(ErrInvalidOptionID, "unknown control reference",
				goerr.V(FieldIDKey, "controls"),
				goerr.V(OptionIDKey, id))
		}
	}
	if !r.Status.Normalize().IsValid() {
		return goerr.Wrap(ErrInvalidOptionID, "invalid risk status",
			goerr.V(FieldIDKey, "status"),
			goerr.V(OptionIDKey, r.Status))
	}
	switch r.Source {
	case "", RiskSourceManual, RiskSourceSuggested:
	default:
		return goerr.Wrap(ErrInvalidOptionID, "invalid risk source",
			goerr.V(FieldIDKey, "source"),
			goerr.V(OptionIDKey, r.Source))
	}
	return nil
}

// Normalize trims text, drops blank mitigations, removes duplicate controls and fills defaults
func (r *RiskEntry) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Owner = strings.TrimSpace(r.Owner)
	r.Mitigations = compactStrings(r.Mitigations)
	r.Controls = slices.Compact(slices.Sorted(slices.Values(r.Controls)))
	r.Status = r.Status.Normalize()
	if r.Source == "" {
		r.Source = RiskSourceManual
	}
}

// Copy returns a deep copy of the entry
func (r *RiskEntry) Copy() *RiskEntry {
	c := *r
	c.Mitigations = slices.Clone(r.Mitigations)
	c.Controls = slices.Clone(r.Controls)
	return &c
}

// SortRisks orders entries by level, highest first, then by title
func SortRisks(risks []*RiskEntry) {
	slices.SortStableFunc(risks, func(a, b *RiskEntry) int {
		if a.Level() != b.Level() {
			return int(b.Level()) - int(a.Level())
		}
		return strings.Compare(a.Title, b.Title)
	})
}

// RiskSummary aggregates a risk register
type RiskSummary struct {
	Total    int
	ByBand   map[types.RiskBand]int
	ByStatus map[types.RiskStatus]int
	MaxLevel types.RiskLevel
}

// SummarizeRisks counts entries per band and status. Every band and status is present in the maps.
func SummarizeRisks(risks []*RiskEntry) *RiskSummary {
	s := &RiskSummary{
		Total:    len(risks),
		ByBand:   make(map[types.RiskBand]int),
		ByStatus: make(map[types.RiskStatus]int),
	}
	for _, b := range types.AllRiskBands() {
		s.ByBand[b] = 0
	}
	for _, st := range types.AllRiskStatuses() {
		s.ByStatus[st] = 0
	}

	for _, r := range risks {
		s.ByBand[r.Band()]++
		s.ByStatus[r.Status.Normalize()]++
		if lv := r.Level(); lv > s.MaxLevel {
			s.MaxLevel = lv
		}
	}
	return s
}
