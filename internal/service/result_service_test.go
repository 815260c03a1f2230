package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/models"
)

type stubScoreRepo struct {
	all       []models.ScoreRecord
	byStudent map[string][]models.ScoreRecord
	byTest    []models.ScoreRecord
	inserted  [][]models.ScoreRecord
	err       error
}

func (s *stubScoreRepo) ListAll(ctx context.Context) ([]models.ScoreRecord, error) {
	return s.all, s.err
}

func (s *stubScoreRepo) ListByStudent(ctx context.Context, studentID string) ([]models.ScoreRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byStudent[studentID], nil
}

func (s *stubScoreRepo) ListByTest(ctx context.Context, testName string, testDate *time.Time) ([]models.ScoreRecord, error) {
	return s.byTest, s.err
}

func (s *stubScoreRepo) InsertBatch(ctx context.Context, records []models.ScoreRecord) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, records)
	return nil
}

func fp(v float64) *float64 { return &v }

func testRecord(studentID, testName string, day int, total float64) models.ScoreRecord {
	return models.ScoreRecord{
		StudentID:              studentID,
		TestName:               testName,
		TestDate:               time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC),
		ClinicalMedicineDetail: fp(total),
	}
}

func TestResultServiceListResultsDeduplicates(t *testing.T) {
	repo := &stubScoreRepo{all: []models.ScoreRecord{
		testRecord("1", "mock-1", 1, 100),
		testRecord("1", "mock-1", 1, 200), // duplicate key, first wins
		testRecord("2", "mock-1", 1, 120),
	}}
	svc := NewResultService(repo, nil, nil, nil, 0)

	views, err := svc.ListResults(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 100.0, views[0].Totals.Total)
}

func TestResultServiceStudentResultsDerivesVerdicts(t *testing.T) {
	repo := &stubScoreRepo{byStudent: map[string][]models.ScoreRecord{
		"1": {testRecord("1", "mock-1", 1, 180)},
	}}
	svc := NewResultService(repo, nil, nil, nil, 0)

	views, err := svc.StudentResults(context.Background(), " 1 ")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Verdict.Acupuncturist)
	assert.True(t, views[0].FlatPass)
}

func TestResultServiceStudentResultsEmptyIsNotError(t *testing.T) {
	svc := NewResultService(&stubScoreRepo{}, nil, nil, nil, 0)

	views, err := svc.StudentResults(context.Background(), "404")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestResultServiceImportScoresSkipsBadRows(t *testing.T) {
	repo := &stubScoreRepo{}
	svc := NewResultService(repo, nil, nil, nil, 0)

	req := dto.ImportScoresRequest{Rows: []dto.ImportScoreRow{
		{StudentID: "1", TestName: "mock-1", TestDate: "2025-03-01", Subjects: dto.Subjects{Anatomy: fp(15)}},
		{StudentID: "", TestName: "mock-1", TestDate: "2025-03-01"},                                           // rejected: no id
		{StudentID: "2", TestName: "mock-1", TestDate: "not-a-date"},                                          // rejected: bad date
		{StudentID: "3", TestName: "mock-1", TestDate: "2025-03-01", Subjects: dto.Subjects{Anatomy: fp(99)}}, // flagged
	}}

	report, err := svc.ImportScores(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Submitted)
	assert.Equal(t, 2, report.Inserted)
	require.Len(t, report.Rejected, 2)
	assert.Equal(t, 1, report.Rejected[0].Index)
	assert.Equal(t, 2, report.Rejected[1].Index)
	require.Len(t, report.Flagged, 1)
	assert.Equal(t, 3, report.Flagged[0].Index)

	require.Len(t, repo.inserted, 1)
	require.Len(t, repo.inserted[0], 2)
	// stored total is recomputed from subject fields
	require.NotNil(t, repo.inserted[0][0].StoredTotal)
	assert.Equal(t, 15.0, *repo.inserted[0][0].StoredTotal)
}

func TestResultServiceImportScoresRowLimit(t *testing.T) {
	svc := NewResultService(&stubScoreRepo{}, nil, nil, nil, 1)

	req := dto.ImportScoresRequest{Rows: []dto.ImportScoreRow{
		{StudentID: "1", TestName: "mock-1", TestDate: "2025-03-01"},
		{StudentID: "2", TestName: "mock-1", TestDate: "2025-03-01"},
	}}

	_, err := svc.ImportScores(context.Background(), req)
	require.Error(t, err)
}

func TestResultServiceStudentStats(t *testing.T) {
	repo := &stubScoreRepo{byStudent: map[string][]models.ScoreRecord{
		"1": {
			testRecord("1", "mock-1", 1, 100),
			testRecord("1", "mock-2", 10, 130),
		},
	}}
	svc := NewResultService(repo, nil, nil, nil, 0)

	stats, err := svc.StudentStats(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TestCount)
	assert.Equal(t, 115.0, stats.AverageScore)
	assert.Equal(t, 1, stats.PassingCount)
}

func TestResultServiceListResultsRepositoryError(t *testing.T) {
	svc := NewResultService(&stubScoreRepo{err: errors.New("boom")}, nil, nil, nil, 0)

	_, err := svc.ListResults(context.Background())
	require.Error(t, err)
}
