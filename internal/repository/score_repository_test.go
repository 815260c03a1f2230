package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/amt-results-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var scoreColumnNames = []string{
	"id", "student_id", "test_name", "test_date",
	"medical_overview", "public_health", "related_laws", "anatomy", "physiology", "pathology",
	"clinical_medicine_overview", "clinical_medicine_detail", "rehabilitation",
	"oriental_medicine_overview", "meridian_points", "oriental_medicine_clinical", "oriental_medicine_clinical_general",
	"acupuncture_theory", "moxibustion_theory", "total_score", "created_at",
}

func scoreRow(rows *sqlmock.Rows, id int64, studentID, testName string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, studentID, testName, now,
		2.0, 8.0, 3.0, 12.0, 11.0, 5.0,
		15.0, 20.0, 6.0,
		14.0, 16.0, 13.0, 7.0,
		8.0, 7.0, nil, now)
}

func TestScoreRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	rows := sqlmock.NewRows(scoreColumnNames)
	scoreRow(rows, 1, "2301", "mock-1")
	scoreRow(rows, 2, "2302", "mock-1")
	mock.ExpectQuery("FROM test_scores ORDER BY id").WillReturnRows(rows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2301", records[0].StudentID)
	require.NotNil(t, records[0].Anatomy)
	assert.Equal(t, 12.0, *records[0].Anatomy)
	assert.Nil(t, records[0].StoredTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	rows := sqlmock.NewRows(scoreColumnNames)
	scoreRow(rows, 1, "2301", "mock-1")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 ORDER BY id")).
		WithArgs("2301").
		WillReturnRows(rows)

	records, err := repo.ListByStudent(context.Background(), "2301")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryListByTestWithDate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	date := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(scoreColumnNames)
	scoreRow(rows, 1, "2301", "mock-1")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE test_name = $1 AND test_date = $2 ORDER BY id")).
		WithArgs("mock-1", date).
		WillReturnRows(rows)

	records, err := repo.ListByTest(context.Background(), "mock-1", &date)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO test_scores").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO test_scores").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	records := []models.ScoreRecord{
		{StudentID: "2301", TestName: "mock-1", TestDate: time.Now()},
		{StudentID: "2302", TestName: "mock-1", TestDate: time.Now()},
	}
	err := repo.InsertBatch(context.Background(), records)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryInsertBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	require.NoError(t, repo.InsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM test_scores")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT test_name) FROM test_scores")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	scores, err := repo.CountScores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, scores)

	tests, err := repo.CountDistinctTests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, tests)
	assert.NoError(t, mock.ExpectationsWereMet())
}
