package eligibility

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/profile"
)

func bound(v float64) *float64 { return &v }

func meritRule() Rule {
	return Rule{
		ID:                 "merit",
		Name:               "Merit Scholarship",
		Threshold:          &Threshold{Signal: normalize.SignalComposite, Min: bound(0.6)},
		Explanation:        "strong academic record",
		MissingRequirement: "higher composite score",
		Remediation:        "retake one subject",
		ViolatedRule:       "composite below merit cutoff",
		Alternative:        "need-based assistance",
		DocChecklist:       []string{"A/L results sheet"},
	}
}

func exampleSignals(t *testing.T) normalize.Signals {
	t.Helper()
	s, err := normalize.New(normalize.DefaultConfig()).Signals(profile.Profile{
		Grades:        []profile.Grade{profile.GradeA, profile.GradeA, profile.GradeB},
		Stream:        "physical",
		MonthlyIncome: profile.Float(45000),
	})
	require.NoError(t, err)
	return s
}

func TestClassify_ExampleScenarioIsEligible(t *testing.T) {
	res, err := Classify([]Rule{meritRule()}, exampleSignals(t), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Eligible, 1)
	assert.Empty(t, res.Conditional)
	assert.Empty(t, res.Blocked)

	e := res.Eligible[0]
	assert.Equal(t, "merit", e.RuleID)
	assert.Equal(t, "79%", e.Evidence.ProbabilityScore)
	assert.Equal(t, []string{"A/L results sheet"}, e.Evidence.DocChecklist)
	assert.Equal(t, "strong academic record", e.Explanation)
}

func TestClassify_SoftMargin(t *testing.T) {
	tests := []struct {
		name      string
		composite float64
		margin    float64
		want      string
		wantGap   float64
	}{
		{"at threshold", 0.6, 0.15, "eligible", 0},
		{"just below", 0.55, 0.15, "conditional", 0.05},
		{"on the margin edge", 0.45, 0.15, "conditional", 0.15},
		{"outside margin", 0.40, 0.15, "blocked", 0},
		{"zero margin", 0.59, 0, "blocked", 0},
		{"wide margin", 0.2, 0.5, "conditional", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Classify([]Rule{meritRule()}, normalize.Signals{Composite: tt.composite}, Options{SoftMargin: tt.margin})
			require.NoError(t, err)
			require.Equal(t, 1, res.Total())

			switch tt.want {
			case "eligible":
				require.Len(t, res.Eligible, 1)
			case "conditional":
				require.Len(t, res.Conditional, 1)
				ev := res.Conditional[0].Evidence
				assert.Equal(t, "higher composite score", ev.MissingRequirement)
				assert.Equal(t, "retake one subject", ev.RemediationSteps)
				assert.InDelta(t, tt.wantGap, ev.Gap, 1e-6)
			case "blocked":
				require.Len(t, res.Blocked, 1)
				ev := res.Blocked[0].Evidence
				assert.Equal(t, "composite below merit cutoff", ev.ViolatedRule)
				assert.Equal(t, "need-based assistance", ev.Alternative)
			}
		})
	}
}

func TestClassify_MaxThreshold(t *testing.T) {
	rule := Rule{
		ID:        "low-income",
		Threshold: &Threshold{Signal: normalize.SignalCategoryBoost, Max: bound(0.1)},
	}

	res, err := Classify([]Rule{rule}, normalize.Signals{CategoryBoost: 0.2}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Conditional, 1)
	assert.InDelta(t, 0.1, res.Conditional[0].Evidence.Gap, 1e-6)
}

func TestClassify_ClosedWindowBlocksEvenWhenMet(t *testing.T) {
	rule := meritRule()
	rule.TimeSensitive = true

	opts := DefaultOptions()
	opts.ClosedWindows = map[string]bool{"merit": true}

	res, err := Classify([]Rule{rule}, normalize.Signals{Composite: 0.95}, opts)
	require.NoError(t, err)
	require.Len(t, res.Blocked, 1)
	assert.Equal(t, "composite below merit cutoff", res.Blocked[0].Evidence.ViolatedRule)

	// the window only matters for time-sensitive rules
	rule.TimeSensitive = false
	res, err = Classify([]Rule{rule}, normalize.Signals{Composite: 0.95}, opts)
	require.NoError(t, err)
	assert.Len(t, res.Eligible, 1)
}

func TestClassify_ProbabilityBoostIsClamped(t *testing.T) {
	rule := meritRule()
	rule.ProbabilityBoost = 0.3

	res, err := Classify([]Rule{rule}, normalize.Signals{Composite: 0.9}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Eligible, 1)
	assert.Equal(t, "100%", res.Eligible[0].Evidence.ProbabilityScore)
}

func TestClassify_FlagRuleWithoutThresholdIsBlocked(t *testing.T) {
	rule := Rule{
		ID:           "orphan",
		Predicate:    flagPredicate([]string{"orphan"}, false),
		ViolatedRule: "orphans only",
	}

	res, err := Classify([]Rule{rule}, normalize.Signals{}, Options{SoftMargin: 1})
	require.NoError(t, err)
	require.Len(t, res.Blocked, 1)
	assert.Equal(t, "orphans only", res.Blocked[0].Evidence.ViolatedRule)
}

func TestClassify_EmptyCatalog(t *testing.T) {
	res, err := Classify(nil, normalize.Signals{}, DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, res.Eligible)
	assert.NotNil(t, res.Conditional)
	assert.NotNil(t, res.Blocked)
	assert.Equal(t, 0, res.Total())
	assert.Equal(t, "Low", res.Summary.SuccessLikelihood)
}

func TestClassify_PredicateErrorAborts(t *testing.T) {
	boom := errors.New("registry unavailable")
	rules := []Rule{
		meritRule(),
		{ID: "broken", Predicate: func(normalize.Signals) (bool, error) { return false, boom }},
	}

	_, err := Classify(rules, normalize.Signals{Composite: 0.9}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleEvaluation))
	assert.True(t, errors.Is(err, boom))

	var evalErr *RuleEvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "broken", evalErr.RuleID)
}

func TestClassify_PredicatePanicAborts(t *testing.T) {
	rules := []Rule{
		{ID: "panics", Predicate: func(normalize.Signals) (bool, error) { panic("nil table") }},
	}

	_, err := Classify(rules, normalize.Signals{}, DefaultOptions())
	var evalErr *RuleEvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "panics", evalErr.RuleID)
	assert.Contains(t, err.Error(), "nil table")
}

func TestClassify_UnknownSignalAborts(t *testing.T) {
	rules := []Rule{{ID: "typo", Threshold: &Threshold{Signal: "zscore", Min: bound(1)}}}

	_, err := Classify(rules, normalize.Signals{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrRuleEvaluation)
}

func TestClassify_RuleWithoutCondition(t *testing.T) {
	_, err := Classify([]Rule{{ID: "empty"}}, normalize.Signals{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrRuleEvaluation)
}

func TestClassify_NegativeMargin(t *testing.T) {
	_, err := Classify([]Rule{meritRule()}, normalize.Signals{}, Options{SoftMargin: -0.1})
	assert.Error(t, err)
}

func TestClassify_DefaultCatalogIsExhaustive(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	n := normalize.New(normalize.DefaultConfig())
	profiles := []profile.Profile{
		{Grades: []profile.Grade{profile.GradeA, profile.GradeA, profile.GradeB}, MonthlyIncome: profile.Float(45000)},
		{Grades: []profile.Grade{profile.GradeF, profile.GradeS, profile.GradeS}, MonthlyIncome: profile.Float(300000)},
		{AcademicIndex: profile.Float(1.2), Special: profile.SpecialCategories{Orphan: true, Rural: true}},
		{AcademicIndex: profile.Float(2.9), MonthlyIncome: profile.Float(0), Special: profile.SpecialCategories{FirstGeneration: true, Disability: true}},
	}

	opts := DefaultOptions()
	opts.ClosedWindows = map[string]bool{"time-limited-intake": true}

	for _, p := range profiles {
		s, err := n.Signals(p)
		require.NoError(t, err)

		res, err := Classify(rules, s, opts)
		require.NoError(t, err)
		assert.Equal(t, len(rules), res.Total())

		seen := map[string]int{}
		for _, bucket := range [][]Entry{res.Eligible, res.Conditional, res.Blocked} {
			for _, e := range bucket {
				seen[e.RuleID]++
			}
		}
		for _, r := range rules {
			assert.Equal(t, 1, seen[r.ID], "rule %s", r.ID)
		}
	}
}

func TestClassify_DefaultCatalogExample(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	res, err := Classify(rules, exampleSignals(t), DefaultOptions())
	require.NoError(t, err)

	var ids []string
	for _, e := range res.Eligible {
		ids = append(ids, e.RuleID)
	}
	assert.Equal(t, []string{"merit", "need-based", "time-limited-intake"}, ids)
	assert.Equal(t, "79%", res.Eligible[0].Evidence.ProbabilityScore)
	assert.Equal(t, "94%", res.Eligible[1].Evidence.ProbabilityScore)
	assert.Equal(t, "High", res.Summary.SuccessLikelihood)
	assert.Equal(t, "Standard", res.Summary.RuralBenefit)
}

func TestClassify_UnknownIncomeIsConditionalForNeed(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	s, err := normalize.New(normalize.DefaultConfig()).Signals(profile.Profile{AcademicIndex: profile.Float(1.5)})
	require.NoError(t, err)

	res, err := Classify(rules, s, DefaultOptions())
	require.NoError(t, err)

	var ids []string
	for _, e := range res.Conditional {
		ids = append(ids, e.RuleID)
	}
	assert.Contains(t, ids, "need-based")
	assert.Contains(t, ids, "merit")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name        string
		eligible    int
		conditional int
		rural       bool
		want        Summary
	}{
		{"two eligible", 2, 0, false, Summary{"High", "Medium to High (estimate)", "LKR 10,000 - 50,000 (estimate)", "Standard"}},
		{"one eligible", 1, 3, true, Summary{"Medium", "Medium (estimate)", "Varies", "Higher"}},
		{"conditional only", 0, 1, false, Summary{"Medium", "Low to Medium (estimate)", "Varies", "Standard"}},
		{"nothing", 0, 0, false, Summary{"Low", "Low to Medium (estimate)", "Varies", "Standard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result{
				Eligible:    make([]Entry, tt.eligible),
				Conditional: make([]Entry, tt.conditional),
			}
			got := summarize(r, normalize.Signals{Special: profile.SpecialCategories{Rural: tt.rural}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_ConcurrentCalls(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	s := exampleSignals(t)

	want, err := Classify(rules, s, DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Classify(rules, s, DefaultOptions())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
