package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tiers := DefaultAdmissionTiers()

	tests := []struct {
		name     string
		index    float64
		wantMin  float64
		wantCats int
	}{
		{"top tier", 2.4, 1.9, 0},
		{"boundary is inclusive", 1.9, 1.9, 0},
		{"middle tier", 1.5, 1.3, 3},
		{"bottom tier", 0.4, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := TierFor(tiers, tt.index)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMin, tier.MinIndex)
			assert.Len(t, tier.Categories, tt.wantCats)
		})
	}

	_, ok := TierFor(tiers, -1)
	assert.False(t, ok)
}

func TestTierFor_UnsortedInput(t *testing.T) {
	tiers := []AdmissionTier{
		{MinIndex: 0, Categories: []string{"Vocational"}},
		{MinIndex: 2, Categories: []string{"Government"}},
	}

	tier, ok := TierFor(tiers, 2.5)
	assert.True(t, ok)
	assert.Equal(t, []string{"Government"}, tier.Categories)
	assert.Equal(t, 0.0, tiers[0].MinIndex, "input must not be reordered")
}

func TestTierPool(t *testing.T) {
	pool := samplePool()

	top := TierPool(pool, DefaultAdmissionTiers(), 2.8)
	assert.Len(t, top, len(pool))

	low := TierPool(pool, DefaultAdmissionTiers(), 1.0)
	var ids []string
	for _, c := range low {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"sliit", "vtc-it"}, ids)

	assert.Empty(t, TierPool(pool, nil, 2.0))
}

func TestAdmissionTier_Admits(t *testing.T) {
	open := AdmissionTier{MinIndex: 1.9}
	assert.True(t, open.Admits("International"))

	mid := AdmissionTier{MinIndex: 1.3, Categories: []string{"Government", "Private"}}
	assert.True(t, mid.Admits("government"))
	assert.False(t, mid.Admits("Vocational"))
}
