package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/service"
)

type stubScoreRepo struct {
	records  []models.ScoreRecord
	err      error
	inserted [][]models.ScoreRecord
}

func (s *stubScoreRepo) ListAll(context.Context) ([]models.ScoreRecord, error) {
	return s.records, s.err
}

func (s *stubScoreRepo) ListByStudent(_ context.Context, studentID string) ([]models.ScoreRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ScoreRecord
	for _, r := range s.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubScoreRepo) ListByTest(_ context.Context, testName string, _ *time.Time) ([]models.ScoreRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ScoreRecord
	for _, r := range s.records {
		if r.TestName == testName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubScoreRepo) InsertBatch(_ context.Context, records []models.ScoreRecord) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, records)
	return nil
}

func fp(v float64) *float64 { return &v }

func scoredRecord(id int64, studentID, testName string, total float64) models.ScoreRecord {
	return models.ScoreRecord{
		ID:                     id,
		StudentID:              studentID,
		TestName:               testName,
		TestDate:               time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ClinicalMedicineDetail: fp(total),
	}
}

func TestResultHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubScoreRepo{records: []models.ScoreRecord{
		scoredRecord(1, "100", "midterm-1", 20),
		scoredRecord(2, "200", "midterm-1", 10),
	}}
	handler := NewResultHandler(service.NewResultService(repo, nil, nil, nil, 0))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/results", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []dto.ResultView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, 20.0, envelope.Data[0].Totals.Total)
}

func TestResultHandlerStudentResultsMissingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewResultHandler(service.NewResultService(&stubScoreRepo{}, nil, nil, nil, 0))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students//results", nil)
	c.Params = gin.Params{{Key: "id", Value: "  "}}

	handler.StudentResults(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerImportInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewResultHandler(service.NewResultService(&stubScoreRepo{}, nil, nil, nil, 0))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/results/import", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerImportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubScoreRepo{}
	handler := NewResultHandler(service.NewResultService(repo, nil, nil, nil, 0))

	payload := "student_id,test_name,test_date,anatomy\n100,midterm-1,2026-03-01,10\n"
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/results/import", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "text/csv")

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.inserted, 1)
	require.Len(t, repo.inserted[0], 1)
	assert.Equal(t, "100", repo.inserted[0][0].StudentID)
}

func TestResultHandlerImportSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubScoreRepo{}
	handler := NewResultHandler(service.NewResultService(repo, nil, nil, nil, 0))

	payload := `{"rows":[{"student_id":"100","test_name":"midterm-1","test_date":"2026-03-01","subjects":{"anatomy":10}}]}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/results/import", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data dto.ImportReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Submitted)
	assert.Equal(t, 1, envelope.Data.Inserted)
	require.Len(t, repo.inserted, 1)
}
