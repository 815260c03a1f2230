package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/service"
)

func newExportHandler(repo *stubScoreRepo) *ExportHandler {
	rankings := service.NewRankingService(repo, nil, 0, nil)
	results := service.NewResultService(repo, nil, nil, nil, 0)
	levels := service.NewGamificationService(repo, nil)
	return NewExportHandler(service.NewExportService(rankings, results, levels, nil))
}

func TestExportHandlerRankingsCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubScoreRepo{records: []models.ScoreRecord{
		scoredRecord(1, "100", "midterm-1", 20),
		scoredRecord(2, "200", "midterm-1", 10),
	}}
	handler := newExportHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/rankings/midterm-1.csv", nil)
	c.Params = gin.Params{{Key: "testName", Value: "midterm-1.csv"}}

	handler.RankingsCSV(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="ranking-midterm-1.csv"`)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "rank,student_id,basic_medicine,clinical_medicine,oriental_medicine,specialized,total,flat_pass,both_passed", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,100,"))
}

func TestExportHandlerRankingsCSVInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newExportHandler(&stubScoreRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/rankings/midterm-1.csv?date=03-01-2026", nil)
	c.Params = gin.Params{{Key: "testName", Value: "midterm-1.csv"}}

	handler.RankingsCSV(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerStudentReportPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubScoreRepo{records: []models.ScoreRecord{
		scoredRecord(1, "100", "midterm-1", 20),
	}}
	handler := newExportHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/students/100/report.pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "100"}}

	handler.StudentReportPDF(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}
