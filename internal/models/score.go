package models

import "time"

// ScoreRecord is one student's raw per-subject scores for one mock exam.
// Subject fields are optional: nil means the subject was not administered
// and contributes 0 to every total. StoredTotal mirrors the total_score
// column but is never trusted; totals are always recomputed from the
// subject fields.
type ScoreRecord struct {
	ID        int64     `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	TestName  string    `db:"test_name" json:"test_name"`
	TestDate  time.Time `db:"test_date" json:"test_date"`

	MedicalOverview                 *float64 `db:"medical_overview" json:"medical_overview,omitempty"`
	PublicHealth                    *float64 `db:"public_health" json:"public_health,omitempty"`
	RelatedLaws                     *float64 `db:"related_laws" json:"related_laws,omitempty"`
	Anatomy                         *float64 `db:"anatomy" json:"anatomy,omitempty"`
	Physiology                      *float64 `db:"physiology" json:"physiology,omitempty"`
	Pathology                       *float64 `db:"pathology" json:"pathology,omitempty"`
	ClinicalMedicineOverview        *float64 `db:"clinical_medicine_overview" json:"clinical_medicine_overview,omitempty"`
	ClinicalMedicineDetail          *float64 `db:"clinical_medicine_detail" json:"clinical_medicine_detail,omitempty"`
	Rehabilitation                  *float64 `db:"rehabilitation" json:"rehabilitation,omitempty"`
	OrientalMedicineOverview        *float64 `db:"oriental_medicine_overview" json:"oriental_medicine_overview,omitempty"`
	MeridianPoints                  *float64 `db:"meridian_points" json:"meridian_points,omitempty"`
	OrientalMedicineClinical        *float64 `db:"oriental_medicine_clinical" json:"oriental_medicine_clinical,omitempty"`
	OrientalMedicineClinicalGeneral *float64 `db:"oriental_medicine_clinical_general" json:"oriental_medicine_clinical_general,omitempty"`
	AcupunctureTheory               *float64 `db:"acupuncture_theory" json:"acupuncture_theory,omitempty"`
	MoxibustionTheory               *float64 `db:"moxibustion_theory" json:"moxibustion_theory,omitempty"`

	StoredTotal *float64  `db:"total_score" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ScoreFilter narrows score record listings.
type ScoreFilter struct {
	StudentID string
	TestName  string
	TestDate  *time.Time
	Page      int
	PageSize  int
}
