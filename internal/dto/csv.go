package dto

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseScoresCSV reads a header-led CSV stream into an import request.
// Empty cells become nil subjects; unknown columns are ignored so exports
// from the old spreadsheet can be fed back in unchanged.
func ParseScoresCSV(r io.Reader) (ImportScoresRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportScoresRequest{}, fmt.Errorf("read csv header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var req ImportScoresRequest
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportScoresRequest{}, fmt.Errorf("read csv row: %w", err)
		}
		line++

		var row ImportScoreRow
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			switch header[i] {
			case "student_id":
				row.StudentID = cell
			case "test_name":
				row.TestName = cell
			case "test_date":
				row.TestDate = cell
			default:
				target := subjectField(&row.Subjects, header[i])
				if target == nil || cell == "" {
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return ImportScoresRequest{}, fmt.Errorf("line %d: column %s: %w", line, header[i], err)
				}
				*target = &v
			}
		}
		req.Rows = append(req.Rows, row)
	}

	return req, nil
}

func subjectField(s *Subjects, name string) **float64 {
	switch name {
	case "medical_overview":
		return &s.MedicalOverview
	case "public_health":
		return &s.PublicHealth
	case "related_laws":
		return &s.RelatedLaws
	case "anatomy":
		return &s.Anatomy
	case "physiology":
		return &s.Physiology
	case "pathology":
		return &s.Pathology
	case "clinical_medicine_overview":
		return &s.ClinicalMedicineOverview
	case "clinical_medicine_detail":
		return &s.ClinicalMedicineDetail
	case "rehabilitation":
		return &s.Rehabilitation
	case "oriental_medicine_overview":
		return &s.OrientalMedicineOverview
	case "meridian_points":
		return &s.MeridianPoints
	case "oriental_medicine_clinical":
		return &s.OrientalMedicineClinical
	case "oriental_medicine_clinical_general":
		return &s.OrientalMedicineClinicalGeneral
	case "acupuncture_theory":
		return &s.AcupunctureTheory
	case "moxibustion_theory":
		return &s.MoxibustionTheory
	default:
		return nil
	}
}
