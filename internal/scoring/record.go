// Package scoring implements the exam-score aggregation rules for the AMT
// mock exams: totals, license-track verdicts, rankings, gamification level
// and badges. Every function is pure and operates on records already
// fetched; callers must never re-derive any of these sums themselves.
package scoring

import (
	"fmt"
	"strings"

	"github.com/noah-isme/amt-results-api/internal/models"
)

// Per-subject maxima. The thirteen common subjects sum to 180; each
// specialized subject adds 10.
var subjectMaxima = map[string]float64{
	"medical_overview":                   2,
	"public_health":                      10,
	"related_laws":                       4,
	"anatomy":                            15,
	"physiology":                         15,
	"pathology":                          6,
	"clinical_medicine_overview":         20,
	"clinical_medicine_detail":           30,
	"rehabilitation":                     8,
	"oriental_medicine_overview":         20,
	"meridian_points":                    20,
	"oriental_medicine_clinical":         20,
	"oriental_medicine_clinical_general": 10,
	"acupuncture_theory":                 10,
	"moxibustion_theory":                 10,
}

// NormalizeStudentID returns the canonical form of a student ID: the
// trimmed string. IDs that look numeric are still handled as text.
func NormalizeStudentID(v string) string {
	return strings.TrimSpace(v)
}

// Dedupe removes duplicate records sharing (student_id, test_name,
// test_date), keeping the first occurrence in slice order. Callers pass
// records in primary-key order, so "first" is deterministic.
func Dedupe(records []models.ScoreRecord) []models.ScoreRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.ScoreRecord, 0, len(records))
	for _, rec := range records {
		key := fmt.Sprintf("%s|%s|%s",
			NormalizeStudentID(rec.StudentID),
			rec.TestName,
			rec.TestDate.Format("2006-01-02"),
		)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// Issue describes a validation finding on a single record. Reject marks
// findings that exclude the record from aggregation entirely; non-reject
// findings (out-of-range subject values) are reported but the record is
// kept, never clamped.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Reject  bool   `json:"reject"`
}

// Validate checks a record against the identity and range invariants.
func Validate(rec models.ScoreRecord) []Issue {
	var issues []Issue

	if NormalizeStudentID(rec.StudentID) == "" {
		issues = append(issues, Issue{Field: "student_id", Message: "missing student_id", Reject: true})
	}
	if strings.TrimSpace(rec.TestName) == "" {
		issues = append(issues, Issue{Field: "test_name", Message: "missing test_name", Reject: true})
	}
	if rec.TestDate.IsZero() {
		issues = append(issues, Issue{Field: "test_date", Message: "missing test_date", Reject: true})
	}

	for field, value := range subjectValues(rec) {
		if value == nil {
			continue
		}
		max := subjectMaxima[field]
		if *value < 0 || *value > max {
			issues = append(issues, Issue{
				Field:   field,
				Message: fmt.Sprintf("value %g outside [0, %g]", *value, max),
			})
		}
	}

	return issues
}

// Rejected reports whether any issue excludes the record from aggregation.
func Rejected(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Reject {
			return true
		}
	}
	return false
}

func subjectValues(rec models.ScoreRecord) map[string]*float64 {
	return map[string]*float64{
		"medical_overview":                   rec.MedicalOverview,
		"public_health":                      rec.PublicHealth,
		"related_laws":                       rec.RelatedLaws,
		"anatomy":                            rec.Anatomy,
		"physiology":                         rec.Physiology,
		"pathology":                          rec.Pathology,
		"clinical_medicine_overview":         rec.ClinicalMedicineOverview,
		"clinical_medicine_detail":           rec.ClinicalMedicineDetail,
		"rehabilitation":                     rec.Rehabilitation,
		"oriental_medicine_overview":         rec.OrientalMedicineOverview,
		"meridian_points":                    rec.MeridianPoints,
		"oriental_medicine_clinical":         rec.OrientalMedicineClinical,
		"oriental_medicine_clinical_general": rec.OrientalMedicineClinicalGeneral,
		"acupuncture_theory":                 rec.AcupunctureTheory,
		"moxibustion_theory":                 rec.MoxibustionTheory,
	}
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
