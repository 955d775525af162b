package matcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/edupath-lk/pathfinder/internal/catalog"
	"github.com/edupath-lk/pathfinder/internal/config"
	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/profile"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

func setup(t *testing.T) (*Matcher, *database.DB) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "matcher.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	seed, err := catalog.Seed()
	require.NoError(t, err)
	_, err = db.UpsertCandidates(context.Background(), seed.Candidates())
	require.NoError(t, err)

	cfg := config.Default()
	rules, err := LoadRules(cfg)
	require.NoError(t, err)

	return New(db, cfg, rules, zaptest.NewLogger(t)), db
}

func strongProfile() profile.Profile {
	return profile.Profile{
		Grades:        []profile.Grade{profile.GradeA, profile.GradeA, profile.GradeB},
		Stream:        "physical",
		MonthlyIncome: profile.Float(45000),
		Interest:      "technology",
	}
}

func TestClassify(t *testing.T) {
	m, _ := setup(t)

	c, err := m.Classify(strongProfile(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(m.Rules()), c.Result.Total())
	assert.InDelta(t, 0.79, c.Signals.Composite, 0.005)

	// time-limited-intake is closed by default
	var blocked []string
	for _, e := range c.Result.Blocked {
		blocked = append(blocked, e.RuleID)
	}
	assert.Contains(t, blocked, "time-limited-intake")
}

func TestClassify_ClosedWindowMustBeTimeSensitive(t *testing.T) {
	m, _ := setup(t)

	for _, id := range []string{"merit", "no-such-rule"} {
		_, err := m.Classify(strongProfile(), []string{id})
		assert.ErrorIs(t, err, ErrClosedWindow, id)
	}

	c, err := m.Classify(strongProfile(), []string{" time-limited-intake "})
	require.NoError(t, err)
	require.NotEmpty(t, c.Result.Eligible)
	assert.Equal(t, "merit", c.Result.Eligible[0].RuleID)
}

func TestClassify_IncompleteProfile(t *testing.T) {
	m, _ := setup(t)

	_, err := m.Classify(profile.Profile{Grades: []profile.Grade{profile.GradeA}}, nil)
	assert.ErrorIs(t, err, normalize.ErrIncompleteProfile)
}

func TestRank(t *testing.T) {
	m, _ := setup(t)

	results, err := m.Rank(context.Background(), RankRequest{
		Kind:     ranker.KindProgram,
		Keywords: []string{"IT"},
		TopN:     5,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, ranker.PassKeyword, r.Pass)
	}
}

func TestRank_AdmissionFallback(t *testing.T) {
	m, _ := setup(t)

	weak := profile.Profile{AcademicIndex: profile.Float(1.0)}
	results, err := m.Rank(context.Background(), RankRequest{
		Kind:              ranker.KindProgram,
		Keywords:          []string{"astronomy"},
		Profile:           weak,
		TopN:              10,
		AdmissionFallback: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// the lowest tier only opens private and vocational institutions
	for _, r := range results {
		assert.Equal(t, ranker.PassFallback, r.Pass)
		assert.NotContains(t, []string{"uni-colombo", "uni-moratuwa", "uni-peradeniya"}, r.CandidateID)
	}
}

func TestMatch_RecordsRun(t *testing.T) {
	m, db := setup(t)
	ctx := context.Background()

	report, err := m.Match(ctx, strongProfile(), MatchOptions{Record: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"IT"}, report.Keywords)
	assert.Equal(t, 1.9, report.Tier)
	assert.NotEmpty(t, report.Programs)
	assert.NotEmpty(t, report.Institutions)
	assert.NotEmpty(t, report.RunID)

	run, err := db.GetMatchRun(ctx, report.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, database.CommandMatch, run.Command)

	var stored Report
	require.NoError(t, json.Unmarshal(run.Results, &stored))
	assert.Equal(t, len(report.Programs), len(stored.Programs))
}

func TestMatch_StreamKeywords(t *testing.T) {
	m, _ := setup(t)

	p := strongProfile()
	p.Interest = ""
	p.Stream = "bio"

	report, err := m.Match(context.Background(), p, MatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Medicine", "Science", "Agriculture"}, report.Keywords)
	assert.Empty(t, report.RunID)
}

func TestLoadRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - id: only\n    name: Only\n    any_flags: [rural]\n"), 0644))

	cfg := config.Default()
	cfg.Classifier.CatalogPath = path

	rules, err := LoadRules(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "only", rules[0].ID)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"Medicine"}, Keywords(profile.Profile{Interest: "health"}))
	assert.Equal(t, []string{"Robotics"}, Keywords(profile.Profile{Interest: "Robotics"}))
	assert.Equal(t, []string{"Business", "Management"}, Keywords(profile.Profile{Stream: "Commerce"}))
	assert.Nil(t, Keywords(profile.Profile{}))
}
