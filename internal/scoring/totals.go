package scoring

import (
	"math"

	"github.com/noah-isme/amt-results-api/internal/models"
)

// Totals holds the four category subtotals and the grand total for one
// record, each rounded to one decimal place.
type Totals struct {
	BasicMedicine    float64 `json:"basic_medicine_score"`
	ClinicalMedicine float64 `json:"clinical_medicine_score"`
	OrientalMedicine float64 `json:"oriental_medicine_score"`
	Specialized      float64 `json:"specialized_score"`
	Total            float64 `json:"total_score"`
}

// ComputeTotals derives the category subtotals and total from the raw
// subject fields. Missing subjects contribute 0. The stored total_score
// column is never consulted.
func ComputeTotals(rec models.ScoreRecord) Totals {
	basic := value(rec.MedicalOverview) + value(rec.PublicHealth) + value(rec.RelatedLaws) +
		value(rec.Anatomy) + value(rec.Physiology) + value(rec.Pathology)
	clinical := value(rec.ClinicalMedicineOverview) + value(rec.ClinicalMedicineDetail) +
		value(rec.Rehabilitation)
	oriental := value(rec.OrientalMedicineOverview) + value(rec.MeridianPoints) +
		value(rec.OrientalMedicineClinical) + value(rec.OrientalMedicineClinicalGeneral)
	specialized := value(rec.AcupunctureTheory) + value(rec.MoxibustionTheory)

	return Totals{
		BasicMedicine:    round1(basic),
		ClinicalMedicine: round1(clinical),
		OrientalMedicine: round1(oriental),
		Specialized:      round1(specialized),
		Total:            round1(basic + clinical + oriental + specialized),
	}
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
