package eligibility

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupath-lk/pathfinder/internal/normalize"
)

const yamlCatalog = `
version: "test"
rules:
  - id: bursary
    name: Mahapola Bursary
    signal: income
    min: 0.7
    missing_requirement: Lower household income
    remediation: Submit an updated income certificate
    violated_rule: Income above bursary ceiling
    alternative: Apply for merit awards
    doc_checklist: [Income certificate]
  - id: rural-only
    name: Rural Grant
    all_flags: [rural, first_gen]
    violated_rule: Rural first-generation students only
`

func TestParseCatalog_YAML(t *testing.T) {
	c, err := ParseCatalog([]byte(yamlCatalog), "yaml")
	require.NoError(t, err)
	assert.Equal(t, "test", c.Version)
	require.Len(t, c.Rules, 2)
	require.NotNil(t, c.Rules[0].Min)
	assert.Equal(t, 0.7, *c.Rules[0].Min)

	rules, err := c.Compile()
	require.NoError(t, err)

	s := normalize.Signals{Income: 0.6}
	s.Special.Rural = true
	s.Special.FirstGeneration = true

	res, err := Classify(rules, s, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Conditional, 1)
	assert.Equal(t, "bursary", res.Conditional[0].RuleID)
	require.Len(t, res.Eligible, 1)
	assert.Equal(t, "rural-only", res.Eligible[0].RuleID)
}

func TestParseCatalog_TOML(t *testing.T) {
	data := []byte(`
version = "1"

[[rules]]
id = "capped"
name = "Capped"
signal = "raw_index"
min = 1.0
max = 2.5
`)
	c, err := ParseCatalog(data, "toml")
	require.NoError(t, err)

	rules, err := c.Compile()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NotNil(t, rules[0].Threshold)
	assert.Equal(t, "raw_index", rules[0].Threshold.Signal)

	res, err := Classify(rules, normalize.Signals{RawIndex: 2.6}, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Conditional, 1)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing id",
			data:    "[[rules]]\nname = \"x\"\nsignal = \"income\"\nmin = 0.5\n",
			wantErr: "id is required",
		},
		{
			name:    "duplicate id",
			data:    "[[rules]]\nid = \"a\"\nany_flags = [\"rural\"]\n[[rules]]\nid = \"a\"\nany_flags = [\"orphan\"]\n",
			wantErr: "duplicate id",
		},
		{
			name:    "two conditions",
			data:    "[[rules]]\nid = \"a\"\nsignal = \"income\"\nmin = 0.1\nany_flags = [\"rural\"]\n",
			wantErr: "exactly one of",
		},
		{
			name:    "signal without bounds",
			data:    "[[rules]]\nid = \"a\"\nsignal = \"income\"\n",
			wantErr: "requires min or max",
		},
		{
			name:    "inverted bounds",
			data:    "[[rules]]\nid = \"a\"\nsignal = \"income\"\nmin = 0.9\nmax = 0.1\n",
			wantErr: "greater than max",
		},
		{
			name:    "not toml",
			data:    "[[rules",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data), "toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCatalog_JoinsAllErrors(t *testing.T) {
	data := "[[rules]]\nname = \"first\"\n[[rules]]\nid = \"b\"\nsignal = \"income\"\n"

	_, err := ParseCatalog([]byte(data), "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "requires min or max")
}

func TestParseCatalog_UnsupportedFormat(t *testing.T) {
	_, err := ParseCatalog([]byte("{}"), "ini")
	assert.ErrorContains(t, err, "unsupported catalog format")
}

func TestLoadCatalog_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Rules, 2)

	_, err = LoadCatalog(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "failed to read catalog")
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	var ids []string
	for _, r := range c.Rules {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"merit", "need-based", "special-category",
		"rural-development", "first-generation", "time-limited-intake",
	}, ids)

	rules, err := c.Compile()
	require.NoError(t, err)
	assert.True(t, rules[len(rules)-1].TimeSensitive)
}

func TestFlagPredicate_UnknownFlag(t *testing.T) {
	rule, err := RuleSpec{ID: "x", AnyFlags: []string{"veteran"}}.Compile()
	require.NoError(t, err)

	_, err = Classify([]Rule{rule}, normalize.Signals{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrRuleEvaluation)
}
