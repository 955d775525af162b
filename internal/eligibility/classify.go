// Package eligibility partitions a rule catalog into eligible, conditional and
// blocked offerings for one set of normalized signals.
//
// Classify is a pure function of its inputs and is safe for concurrent use.
package eligibility

import (
	"fmt"
	"math"

	"github.com/edupath-lk/pathfinder/internal/normalize"
)

// DefaultSoftMargin is how close to a hard threshold a profile must be to be Conditional
const DefaultSoftMargin = 0.15

// Options tune one classification call
type Options struct {
	SoftMargin float64
	// ClosedWindows holds the ids of time-sensitive rules whose application window is closed
	ClosedWindows map[string]bool
}

// DefaultOptions returns the default soft margin with every window open
func DefaultOptions() Options {
	return Options{SoftMargin: DefaultSoftMargin}
}

// Evidence supports the bucket an entry was placed in
type Evidence struct {
	ProbabilityScore   string   `json:"probability_score,omitempty"`
	DocChecklist       []string `json:"doc_checklist,omitempty"`
	MissingRequirement string   `json:"missing_requirement,omitempty"`
	RemediationSteps   string   `json:"remediation_steps,omitempty"`
	Gap                float64  `json:"gap,omitempty"`
	ViolatedRule       string   `json:"violated_rule,omitempty"`
	Alternative        string   `json:"alternative,omitempty"`
}

// Entry is one classified rule
type Entry struct {
	RuleID      string   `json:"rule_id"`
	Name        string   `json:"name"`
	Provider    string   `json:"provider,omitempty"`
	Amount      string   `json:"amount,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Evidence    Evidence `json:"evidence"`
}

// Result holds the three buckets. Each rule lands in exactly one.
type Result struct {
	Eligible    []Entry `json:"eligible"`
	Conditional []Entry `json:"conditional"`
	Blocked     []Entry `json:"blocked"`
	Summary     Summary `json:"summary"`
}

// Total returns the number of classified rules
func (r Result) Total() int {
	return len(r.Eligible) + len(r.Conditional) + len(r.Blocked)
}

// Classify places every rule into one bucket, in catalog order.
// A failing or panicking predicate aborts the whole call.
func Classify(rules []Rule, s normalize.Signals, opts Options) (Result, error) {
	if opts.SoftMargin < 0 || math.IsNaN(opts.SoftMargin) {
		return Result{}, fmt.Errorf("soft margin must be non-negative, got %v", opts.SoftMargin)
	}

	res := Result{
		Eligible:    []Entry{},
		Conditional: []Entry{},
		Blocked:     []Entry{},
	}

	for _, rule := range rules {
		entry := Entry{
			RuleID:      rule.ID,
			Name:        rule.Name,
			Provider:    rule.Provider,
			Amount:      rule.Amount,
			Deadline:    rule.Deadline,
			Explanation: rule.Explanation,
		}

		if rule.TimeSensitive && opts.ClosedWindows[rule.ID] {
			entry.Evidence = blockedEvidence(rule)
			res.Blocked = append(res.Blocked, entry)
			continue
		}

		ok, err := rule.evaluate(s)
		if err != nil {
			return Result{}, err
		}
		if ok {
			entry.Evidence = Evidence{
				ProbabilityScore: probability(s.Composite, rule.ProbabilityBoost),
				DocChecklist:     rule.DocChecklist,
			}
			res.Eligible = append(res.Eligible, entry)
			continue
		}

		gap, measured, err := rule.gap(s)
		if err != nil {
			return Result{}, err
		}
		if measured && gap > 0 && gap <= opts.SoftMargin+1e-9 {
			entry.Evidence = Evidence{
				MissingRequirement: rule.MissingRequirement,
				RemediationSteps:   rule.Remediation,
				Gap:                math.Round(gap*1000) / 1000,
			}
			res.Conditional = append(res.Conditional, entry)
			continue
		}

		entry.Evidence = blockedEvidence(rule)
		res.Blocked = append(res.Blocked, entry)
	}

	res.Summary = summarize(res, s)
	return res, nil
}

func blockedEvidence(rule Rule) Evidence {
	return Evidence{ViolatedRule: rule.ViolatedRule, Alternative: rule.Alternative}
}

// probability renders the composite score plus the rule boost as a percentage
func probability(composite, boost float64) string {
	p := normalize.Clamp(composite+boost, 0, 1)
	return fmt.Sprintf("%d%%", int(math.Round(p*100)))
}
