package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/amt-results-api/internal/models"
)

func fp(v float64) *float64 { return &v }

func testDate(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func record(studentID, testName string, day int) models.ScoreRecord {
	return models.ScoreRecord{StudentID: studentID, TestName: testName, TestDate: testDate(day)}
}

func TestComputeTotalsSumInvariant(t *testing.T) {
	rec := models.ScoreRecord{
		MedicalOverview:                 fp(2),
		PublicHealth:                    fp(8.5),
		RelatedLaws:                     fp(3),
		Anatomy:                         fp(12),
		Physiology:                      fp(11),
		Pathology:                       fp(5),
		ClinicalMedicineOverview:        fp(15),
		ClinicalMedicineDetail:          fp(22),
		Rehabilitation:                  fp(6),
		OrientalMedicineOverview:        fp(14),
		MeridianPoints:                  fp(16),
		OrientalMedicineClinical:        fp(13),
		OrientalMedicineClinicalGeneral: fp(7),
		AcupunctureTheory:               fp(8),
		MoxibustionTheory:               fp(7),
	}

	totals := ComputeTotals(rec)

	assert.InDelta(t, totals.BasicMedicine+totals.ClinicalMedicine+totals.OrientalMedicine+totals.Specialized, totals.Total, 0.05)
	assert.Equal(t, 41.5, totals.BasicMedicine)
	assert.Equal(t, 43.0, totals.ClinicalMedicine)
	assert.Equal(t, 50.0, totals.OrientalMedicine)
	assert.Equal(t, 15.0, totals.Specialized)
	assert.Equal(t, 149.5, totals.Total)
}

func TestComputeTotalsNilSubjectsContributeZero(t *testing.T) {
	totals := ComputeTotals(models.ScoreRecord{Anatomy: fp(15), Physiology: fp(15)})

	assert.Equal(t, 30.0, totals.BasicMedicine)
	assert.Equal(t, 0.0, totals.ClinicalMedicine)
	assert.Equal(t, 0.0, totals.OrientalMedicine)
	assert.Equal(t, 0.0, totals.Specialized)
	assert.Equal(t, 30.0, totals.Total)
}

func TestComputeTotalsIgnoresStoredTotal(t *testing.T) {
	totals := ComputeTotals(models.ScoreRecord{Anatomy: fp(10), StoredTotal: fp(250)})

	assert.Equal(t, 10.0, totals.Total)
}

func TestRound1HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.25, 1.3},
		{1.24, 1.2},
		{-1.25, -1.3},
		{0.05, 0.1},
		{2.0, 2.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, round1(tc.in), "round1(%v)", tc.in)
	}
}
