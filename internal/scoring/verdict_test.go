package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/amt-results-api/internal/models"
)

func TestPassingThresholdValue(t *testing.T) {
	assert.Equal(t, 114.0, PassingThreshold)
}

func TestComputeVerdictThresholdBoundary(t *testing.T) {
	cases := []struct {
		name        string
		common      float64
		specialized float64
		wantPass    bool
	}{
		{"exactly at threshold passes", 104, 10, true},
		{"just below threshold fails", 103.9, 10, false},
		{"well above threshold passes", 160, 10, true},
		{"zero specialized can still pass", 114, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := models.ScoreRecord{
				ClinicalMedicineDetail: fp(tc.common),
				AcupunctureTheory:      fp(tc.specialized),
				MoxibustionTheory:      fp(tc.specialized),
			}
			v := ComputeVerdict(rec)
			assert.Equal(t, tc.wantPass, v.Acupuncturist)
			assert.Equal(t, tc.wantPass, v.Moxibustionist)
			assert.Equal(t, tc.wantPass, v.Both)
		})
	}
}

func TestComputeVerdictBothRequiresBothTracks(t *testing.T) {
	rec := models.ScoreRecord{
		ClinicalMedicineDetail: fp(110),
		AcupunctureTheory:      fp(10),
		MoxibustionTheory:      fp(2),
	}

	v := ComputeVerdict(rec)

	assert.True(t, v.Acupuncturist)
	assert.False(t, v.Moxibustionist)
	assert.False(t, v.Both)
	assert.Equal(t, 110.0, v.CommonScore)
	assert.Equal(t, 120.0, v.AcupuncturistScore)
	assert.Equal(t, 112.0, v.MoxibustionistScore)
}

func TestComputeVerdictAllZeroRecord(t *testing.T) {
	v := ComputeVerdict(models.ScoreRecord{})

	assert.False(t, v.Acupuncturist)
	assert.False(t, v.Moxibustionist)
	assert.False(t, v.Both)
	assert.Equal(t, 0.0, v.CommonScore)
}

func TestIsFlatPassingIndependentOfTrackRule(t *testing.T) {
	// 150 passes the 114 track rule but fails the flat 180 rule.
	assert.False(t, IsFlatPassing(150))
	assert.True(t, IsFlatPassing(180))
	assert.True(t, IsFlatPassing(190))
	assert.False(t, IsFlatPassing(179.9))
}
