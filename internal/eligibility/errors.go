package eligibility

import (
	"errors"
	"fmt"
)

// ErrRuleEvaluation is the errors.Is target for RuleEvaluationError
var ErrRuleEvaluation = errors.New("rule evaluation failed")

// RuleEvaluationError aborts a classification. It is never retried.
type RuleEvaluationError struct {
	RuleID string
	Err    error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.RuleID, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}

func (e *RuleEvaluationError) Is(target error) bool {
	return target == ErrRuleEvaluation
}
