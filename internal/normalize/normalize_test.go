package normalize

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupath-lk/pathfinder/internal/profile"
)

func grades(gs ...profile.Grade) []profile.Grade {
	return gs
}

func TestAcademicIndex_FromGrades(t *testing.T) {
	n := New(DefaultConfig())

	got, err := n.AcademicIndex(profile.Profile{
		Grades: grades(profile.GradeA, profile.GradeA, profile.GradeB),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.944, got, 0.001)
}

func TestAcademicIndex_PrefersGivenIndex(t *testing.T) {
	n := New(DefaultConfig())

	tests := []struct {
		name  string
		index float64
		want  float64
	}{
		{"mid range", 1.5, 0.5},
		{"above scale", 3.6, 1.0},
		{"negative", -0.8, 0.0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.AcademicIndex(profile.Profile{
				Grades:        grades(profile.GradeF),
				AcademicIndex: profile.Float(tt.index),
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAcademicIndex_IncompleteProfile(t *testing.T) {
	n := New(DefaultConfig())

	tests := []struct {
		name        string
		profile     profile.Profile
		wantMissing []int
	}{
		{
			name:        "one grade missing",
			profile:     profile.Profile{Grades: grades(profile.GradeA, profile.GradeB, profile.GradeNone)},
			wantMissing: []int{3},
		},
		{
			name:        "no grades at all",
			profile:     profile.Profile{},
			wantMissing: []int{1, 2, 3},
		},
		{
			name:        "not-a-number index",
			profile:     profile.Profile{AcademicIndex: profile.Float(math.NaN())},
			wantMissing: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.AcademicIndex(tt.profile)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncompleteProfile))

			var incomplete *IncompleteProfileError
			require.True(t, errors.As(err, &incomplete))
			assert.Equal(t, tt.wantMissing, incomplete.Missing)

			_, err = n.Composite(tt.profile)
			assert.ErrorIs(t, err, ErrIncompleteProfile)
		})
	}
}

func TestIncome(t *testing.T) {
	n := New(DefaultConfig())

	tests := []struct {
		name   string
		income *float64
		want   float64
	}{
		{"unknown", nil, 0.5},
		{"negative is unknown", profile.Float(-10), 0.5},
		{"zero income", profile.Float(0), 1.0},
		{"example household", profile.Float(45000), 0.775},
		{"at ceiling", profile.Float(200000), 0},
		{"above ceiling", profile.Float(950000), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, n.Income(tt.income), 1e-9)
		})
	}
}

func TestCategoryBoost(t *testing.T) {
	n := New(DefaultConfig())

	tests := []struct {
		name string
		cats profile.SpecialCategories
		want float64
	}{
		{"none", profile.SpecialCategories{}, 0},
		{"rural", profile.SpecialCategories{Rural: true}, 0.08},
		{"orphan and first gen", profile.SpecialCategories{Orphan: true, FirstGeneration: true}, 0.10},
		{"all four", profile.SpecialCategories{Rural: true, Disability: true, Orphan: true, FirstGeneration: true}, 0.26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, n.CategoryBoost(tt.cats), 1e-9)
		})
	}
}

func TestCategoryBoost_Capped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Boosts.Rural = 0.2
	cfg.Boosts.Disability = 0.2
	n := New(cfg)

	got := n.CategoryBoost(profile.SpecialCategories{Rural: true, Disability: true})
	assert.InDelta(t, 0.30, got, 1e-9)
}

func TestComposite_ExampleScenario(t *testing.T) {
	n := New(DefaultConfig())

	s, err := n.Signals(profile.Profile{
		Grades:        grades(profile.GradeA, profile.GradeA, profile.GradeB),
		Stream:        "physical",
		MonthlyIncome: profile.Float(45000),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.944, s.AcademicIndex, 0.001)
	assert.InDelta(t, 0.775, s.Income, 1e-9)
	assert.InDelta(t, 0.0, s.CategoryBoost, 1e-9)
	assert.InDelta(t, 0.79, s.Composite, 0.005)
	assert.InDelta(t, 2.8333, s.RawIndex, 0.001)
	assert.Equal(t, "physical", s.Stream)
}

func TestComposite_Bounds(t *testing.T) {
	n := New(DefaultConfig())
	all := profile.SpecialCategories{Rural: true, Disability: true, Orphan: true, FirstGeneration: true}

	profiles := []profile.Profile{
		{AcademicIndex: profile.Float(3.0), MonthlyIncome: profile.Float(0), Special: all},
		{AcademicIndex: profile.Float(-5), MonthlyIncome: profile.Float(1e9)},
		{Grades: grades(profile.GradeF, profile.GradeF, profile.GradeF)},
		{Grades: grades(profile.GradeA, profile.GradeA, profile.GradeA), Special: all},
	}

	for _, p := range profiles {
		c, err := n.Composite(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 1.0)
	}
}

func TestComposite_MonotoneInGrades(t *testing.T) {
	n := New(DefaultConfig())
	ladder := []profile.Grade{profile.GradeF, profile.GradeS, profile.GradeC, profile.GradeB, profile.GradeA}
	base := profile.Profile{
		Grades:        grades(profile.GradeC, profile.GradeS, profile.GradeB),
		MonthlyIncome: profile.Float(80000),
	}

	for subject := 0; subject < 3; subject++ {
		prev := -1.0
		for _, g := range ladder {
			c, err := n.Composite(base.WithGrade(subject, g))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, c, prev, "subject %d grade %s", subject+1, g)
			prev = c
		}
	}
}

func TestSignalsLookup(t *testing.T) {
	s := Signals{
		AcademicIndex: 0.7,
		Income:        0.4,
		Composite:     0.61,
		Special:       profile.SpecialCategories{Orphan: true},
	}

	v, err := s.Value("composite")
	require.NoError(t, err)
	assert.Equal(t, 0.61, v)

	v, err = s.Value(" Academic_Index ")
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	_, err = s.Value("zscore")
	assert.Error(t, err)

	f, err := s.Flag("orphan")
	require.NoError(t, err)
	assert.True(t, f)

	f, err = s.Flag("first_gen")
	require.NoError(t, err)
	assert.False(t, f)

	_, err = s.Flag("veteran")
	assert.Error(t, err)
}
