package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteProfile is the errors.Is target for IncompleteProfileError
var ErrIncompleteProfile = errors.New("incomplete profile")

// IncompleteProfileError reports that a profile has neither an academic index nor a
// complete set of grades. It is deterministic and must not be retried.
type IncompleteProfileError struct {
	Missing []int  // 1-based subject positions without a valid grade
	Reason  string // set when the academic index itself is unusable
}

func (e *IncompleteProfileError) Error() string {
	if e.Reason != "" {
		return "incomplete profile: " + e.Reason
	}
	if len(e.Missing) == 0 {
		return "incomplete profile: academic index or grades required"
	}
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return fmt.Sprintf("incomplete profile: no grade for subject(s) %s and no academic index", strings.Join(parts, ", "))
}

func (e *IncompleteProfileError) Is(target error) bool {
	return target == ErrIncompleteProfile
}
