package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// ControlID references an ISO/IEC 42001 Annex A control, e.g. "A.6.2.4"
type ControlID string

var controlIDPattern = regexp.MustCompile(`^A\.([2-9]|10)(\.[0-9]+){1,2}$`)

// Validate checks the format of the control reference.
// Membership in the catalog is checked by model.LookupControl.
func (c ControlID) Validate() error {
	if !controlIDPattern.MatchString(string(c)) {
		return goerr.New("control ID must look like A.<clause>.<control>", goerr.V("id", string(c)))
	}
	return nil
}

func (c ControlID) String() string {
	return string(c)
}
