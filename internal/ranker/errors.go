package ranker

import (
	"errors"
	"fmt"
)

// ErrInvalidCandidatePool is the errors.Is target for InvalidCandidatePoolError
var ErrInvalidCandidatePool = errors.New("invalid candidate pool")

// InvalidCandidatePoolError is a precondition violation of a ranking call
type InvalidCandidatePoolError struct {
	Reason      string
	DuplicateID string
}

func (e *InvalidCandidatePoolError) Error() string {
	if e.DuplicateID != "" {
		return fmt.Sprintf("invalid candidate pool: duplicate candidate id %q", e.DuplicateID)
	}
	return "invalid candidate pool: " + e.Reason
}

func (e *InvalidCandidatePoolError) Is(target error) bool {
	return target == ErrInvalidCandidatePool
}

// validatePool rejects empty and duplicate ids
func validatePool(candidates []Candidate) error {
	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return &InvalidCandidatePoolError{Reason: fmt.Sprintf("candidate %d has no id", i)}
		}
		if seen[c.ID] {
			return &InvalidCandidatePoolError{DuplicateID: c.ID}
		}
		seen[c.ID] = true
	}
	return nil
}
