// Package valid decides whether a class-list entry may be baked into a
// shared archive.
package valid

import (
	"fmt"

	"github.com/mabhi256/jsadump/internal/classlist"
)

// Verdict is the tri-state outcome of a single validator.
type Verdict int

const (
	// Valid means the validator has no objection to the entry.
	Valid Verdict = iota
	// Invalid means the entry must not be archived.
	Invalid
	// Indeterminate means the check could not complete; the entry is
	// rejected as if it were invalid.
	Indeterminate
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Validator inspects one entry.
type Validator interface {
	// Name identifies the validator in rejection reasons.
	Name() string

	// Check returns the verdict for entry. It never panics on I/O problems;
	// those are reported as Indeterminate.
	Check(entry classlist.Entry) Verdict
}

// Chain evaluates validators in registration order and stops at the first
// one that does not return Valid.
type Chain struct {
	validators []Validator
}

// NewChain returns a chain over validators. The order is fixed.
func NewChain(validators ...Validator) *Chain {
	return &Chain{validators: append([]Validator(nil), validators...)}
}

// Validators returns the registered validators in order.
func (c *Chain) Validators() []Validator {
	return append([]Validator(nil), c.validators...)
}

// Evaluate returns the rejection reason and true when entry must be dropped,
// or "" and false when every validator accepts it.
func (c *Chain) Evaluate(entry classlist.Entry) (string, bool) {
	for _, v := range c.validators {
		switch v.Check(entry) {
		case Valid:
			continue
		case Indeterminate:
			return fmt.Sprintf("rejected by %s: unknown reason", v.Name()), true
		default:
			return fmt.Sprintf("rejected by %s", v.Name()), true
		}
	}
	return "", false
}

// Classify is Evaluate for callers that want the verdict itself, together
// with the name of the deciding validator. It returns Valid and "" when every
// validator accepts the entry.
func (c *Chain) Classify(entry classlist.Entry) (Verdict, string) {
	for _, v := range c.validators {
		if verdict := v.Check(entry); verdict != Valid {
			return verdict, v.Name()
		}
	}
	return Valid, ""
}
