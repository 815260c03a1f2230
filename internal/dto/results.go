package dto

import (
	"time"

	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/scoring"
)

// ResultView pairs one score record with every derived aggregate: totals,
// the per-track verdict, and the independent flat pass flag.
type ResultView struct {
	Record   models.ScoreRecord `json:"record"`
	Totals   scoring.Totals     `json:"totals"`
	Verdict  scoring.Verdict    `json:"verdict"`
	FlatPass bool               `json:"flat_pass"`
}

// ImportScoreRow is one submitted score row in a batch import.
type ImportScoreRow struct {
	StudentID string   `json:"student_id"`
	TestName  string   `json:"test_name"`
	TestDate  string   `json:"test_date"`
	Subjects  Subjects `json:"subjects"`
}

// Subjects mirrors the fifteen optional subject fields of a score record.
type Subjects struct {
	MedicalOverview                 *float64 `json:"medical_overview,omitempty"`
	PublicHealth                    *float64 `json:"public_health,omitempty"`
	RelatedLaws                     *float64 `json:"related_laws,omitempty"`
	Anatomy                         *float64 `json:"anatomy,omitempty"`
	Physiology                      *float64 `json:"physiology,omitempty"`
	Pathology                       *float64 `json:"pathology,omitempty"`
	ClinicalMedicineOverview        *float64 `json:"clinical_medicine_overview,omitempty"`
	ClinicalMedicineDetail          *float64 `json:"clinical_medicine_detail,omitempty"`
	Rehabilitation                  *float64 `json:"rehabilitation,omitempty"`
	OrientalMedicineOverview        *float64 `json:"oriental_medicine_overview,omitempty"`
	MeridianPoints                  *float64 `json:"meridian_points,omitempty"`
	OrientalMedicineClinical        *float64 `json:"oriental_medicine_clinical,omitempty"`
	OrientalMedicineClinicalGeneral *float64 `json:"oriental_medicine_clinical_general,omitempty"`
	AcupunctureTheory               *float64 `json:"acupuncture_theory,omitempty"`
	MoxibustionTheory               *float64 `json:"moxibustion_theory,omitempty"`
}

// ImportScoresRequest is the batch score import payload.
type ImportScoresRequest struct {
	Rows []ImportScoreRow `json:"rows" validate:"required,min=1,dive"`
}

// RejectedRow reports one row excluded from an import, with its findings.
type RejectedRow struct {
	Index  int             `json:"index"`
	Issues []scoring.Issue `json:"issues"`
}

// FlaggedRow reports one imported row carrying non-fatal findings.
type FlaggedRow struct {
	Index  int             `json:"index"`
	Issues []scoring.Issue `json:"issues"`
}

// ImportReport summarises a batch import: accepted rows are inserted,
// rejected rows are excluded and reported, flagged rows are inserted but
// carry out-of-range findings.
type ImportReport struct {
	Submitted int           `json:"submitted"`
	Inserted  int           `json:"inserted"`
	Rejected  []RejectedRow `json:"rejected,omitempty"`
	Flagged   []FlaggedRow  `json:"flagged,omitempty"`
}

// ToRecord converts an import row to a score record. Date parsing errors
// surface as a zero TestDate which validation rejects.
func (r ImportScoreRow) ToRecord() models.ScoreRecord {
	var testDate time.Time
	if parsed, err := time.Parse("2006-01-02", r.TestDate); err == nil {
		testDate = parsed
	}
	return models.ScoreRecord{
		StudentID:                       scoring.NormalizeStudentID(r.StudentID),
		TestName:                        r.TestName,
		TestDate:                        testDate,
		MedicalOverview:                 r.Subjects.MedicalOverview,
		PublicHealth:                    r.Subjects.PublicHealth,
		RelatedLaws:                     r.Subjects.RelatedLaws,
		Anatomy:                         r.Subjects.Anatomy,
		Physiology:                      r.Subjects.Physiology,
		Pathology:                       r.Subjects.Pathology,
		ClinicalMedicineOverview:        r.Subjects.ClinicalMedicineOverview,
		ClinicalMedicineDetail:          r.Subjects.ClinicalMedicineDetail,
		Rehabilitation:                  r.Subjects.Rehabilitation,
		OrientalMedicineOverview:        r.Subjects.OrientalMedicineOverview,
		MeridianPoints:                  r.Subjects.MeridianPoints,
		OrientalMedicineClinical:        r.Subjects.OrientalMedicineClinical,
		OrientalMedicineClinicalGeneral: r.Subjects.OrientalMedicineClinicalGeneral,
		AcupunctureTheory:               r.Subjects.AcupunctureTheory,
		MoxibustionTheory:               r.Subjects.MoxibustionTheory,
	}
}
