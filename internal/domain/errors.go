package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// RecordPolicy decides what happens to a record that cannot be used.
type RecordPolicy string

const (
	PolicyFail RecordPolicy = "fail" // abort the run on the first bad record
	PolicySkip RecordPolicy = "skip" // drop the record and report it
)

// ParsePolicy maps a config value to a RecordPolicy.
func ParsePolicy(s string) (RecordPolicy, error) {
	switch RecordPolicy(s) {
	case PolicyFail, PolicySkip:
		return RecordPolicy(s), nil
	}
	return "", fmt.Errorf("unknown record policy %q (want fail|skip)", s)
}

// MissingInputError reports a required collection that is absent or empty.
type MissingInputError struct {
	What string
}

func (e *MissingInputError) Error() string {
	return "missing input: " + e.What
}

// MalformedRecordError reports a record that breaks an input invariant.
type MalformedRecordError struct {
	VenueID string
	Index   int // position in the input sequence, -1 when not applicable
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed record #%d (venue %q): %s", e.Index, e.VenueID, e.Reason)
	}
	return fmt.Sprintf("malformed record (venue %q): %s", e.VenueID, e.Reason)
}

// ReviewError isolates a failure to normalize or score one review.
type ReviewError struct {
	Index   int
	VenueID string
	Err     error
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("review #%d (venue %q): %v", e.Index, e.VenueID, e.Err)
}

func (e *ReviewError) Unwrap() error { return e.Err }

// DegenerateInputWarning is emitted when every venue ties on a persona total.
// The normalized value of that persona is 0.0 for all venues.
type DegenerateInputWarning struct {
	Persona Persona
	Value   int
}

func (w DegenerateInputWarning) String() string {
	return fmt.Sprintf("all venues tied on %s total (%d); normalized to 0", w.Persona, w.Value)
}
