package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/amt-results-api/pkg/export"
)

// ExportService renders ranking and report-card downloads from the same
// aggregates the JSON API serves.
type ExportService struct {
	rankings *RankingService
	results  *ResultService
	levels   *GamificationService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(rankings *RankingService, results *ResultService, levels *GamificationService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		rankings: rankings,
		results:  results,
		levels:   levels,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// RankingsCSV renders the full ranking of one test as CSV.
func (s *ExportService) RankingsCSV(ctx context.Context, testName string, testDate *time.Time) ([]byte, error) {
	ranking, err := s.rankings.TestRanking(ctx, testName, testDate)
	if err != nil {
		return nil, err
	}

	headers := []string{"rank", "student_id", "basic_medicine", "clinical_medicine", "oriental_medicine", "specialized", "total", "flat_pass", "both_passed"}
	rows := make([]map[string]string, len(ranking.Entries))
	for i, entry := range ranking.Entries {
		rows[i] = map[string]string{
			"rank":              strconv.Itoa(entry.Rank),
			"student_id":        entry.StudentID,
			"basic_medicine":    formatScore(entry.Totals.BasicMedicine),
			"clinical_medicine": formatScore(entry.Totals.ClinicalMedicine),
			"oriental_medicine": formatScore(entry.Totals.OrientalMedicine),
			"specialized":       formatScore(entry.Totals.Specialized),
			"total":             formatScore(entry.Totals.Total),
			"flat_pass":         strconv.FormatBool(entry.FlatPass),
			"both_passed":       strconv.FormatBool(entry.BothPassed),
		}
	}

	return s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
}

// StudentReportPDF renders one student's report card: stats and level
// summary followed by per-test rows.
func (s *ExportService) StudentReportPDF(ctx context.Context, studentID string) ([]byte, error) {
	views, err := s.results.StudentResults(ctx, studentID)
	if err != nil {
		return nil, err
	}
	stats, err := s.results.StudentStats(ctx, studentID)
	if err != nil {
		return nil, err
	}
	level, err := s.levels.Level(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary := [][2]string{
		{"Student ID", studentID},
		{"Tests taken", strconv.Itoa(stats.TestCount)},
		{"Average score", formatScore(stats.AverageScore)},
		{"Highest score", formatScore(stats.HighestScore)},
		{"Passing rate", fmt.Sprintf("%s%%", formatScore(stats.PassingRate))},
		{"Level", fmt.Sprintf("%d (%d exp)", level.Level, level.Experience)},
	}

	headers := []string{"test", "date", "total", "acupuncturist", "moxibustionist"}
	rows := make([]map[string]string, len(views))
	for i, view := range views {
		rows[i] = map[string]string{
			"test":           view.Record.TestName,
			"date":           view.Record.TestDate.Format("2006-01-02"),
			"total":          formatScore(view.Totals.Total),
			"acupuncturist":  passLabel(view.Verdict.Acupuncturist),
			"moxibustionist": passLabel(view.Verdict.Moxibustionist),
		}
	}

	title := fmt.Sprintf("Mock Exam Report - %s", studentID)
	return s.pdf.RenderReport(title, summary, export.Dataset{Headers: headers, Rows: rows})
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
