package eligibility

import (
	"errors"
	"fmt"

	"github.com/edupath-lk/pathfinder/internal/normalize"
)

// Predicate decides whether the signals satisfy a rule
type Predicate func(normalize.Signals) (bool, error)

// Threshold is the hard bound of a numeric rule. The distance from the bound
// decides between Conditional and Blocked when the rule is not met.
type Threshold struct {
	Signal string
	Min    *float64
	Max    *float64
}

// Gap returns how far value falls outside the threshold. Zero means satisfied.
func (t Threshold) Gap(value float64) float64 {
	switch {
	case t.Min != nil && value < *t.Min:
		return *t.Min - value
	case t.Max != nil && value > *t.Max:
		return value - *t.Max
	default:
		return 0
	}
}

// Satisfied reads the threshold signal and checks it against the bounds
func (t Threshold) Satisfied(s normalize.Signals) (bool, error) {
	v, err := s.Value(t.Signal)
	if err != nil {
		return false, err
	}
	return t.Gap(v) == 0, nil
}

// Rule is one entry of the offering catalog
type Rule struct {
	ID       string
	Name     string
	Provider string
	Amount   string
	Deadline string

	// Predicate takes precedence over Threshold when both are set
	Predicate Predicate
	Threshold *Threshold

	Explanation        string
	MissingRequirement string
	Remediation        string
	ViolatedRule       string
	Alternative        string
	DocChecklist       []string

	TimeSensitive    bool
	ProbabilityBoost float64
}

var errNoCondition = errors.New("rule has neither predicate nor threshold")

// evaluate runs the rule predicate, turning errors and panics into RuleEvaluationError
func (r Rule) evaluate(s normalize.Signals) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			err = &RuleEvaluationError{RuleID: r.ID, Err: fmt.Errorf("predicate panicked: %v", p)}
		}
	}()

	switch {
	case r.Predicate != nil:
		ok, err = r.Predicate(s)
	case r.Threshold != nil:
		ok, err = r.Threshold.Satisfied(s)
	default:
		err = errNoCondition
	}
	if err != nil {
		return false, &RuleEvaluationError{RuleID: r.ID, Err: err}
	}
	return ok, nil
}

// gap measures the distance to the hard threshold. Rules without a threshold have no soft zone.
func (r Rule) gap(s normalize.Signals) (float64, bool, error) {
	if r.Threshold == nil {
		return 0, false, nil
	}
	v, err := s.Value(r.Threshold.Signal)
	if err != nil {
		return 0, false, &RuleEvaluationError{RuleID: r.ID, Err: err}
	}
	return r.Threshold.Gap(v), true, nil
}
