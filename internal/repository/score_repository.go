package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/amt-results-api/internal/models"
)

const scoreColumns = `id, student_id, test_name, test_date,
        medical_overview, public_health, related_laws, anatomy, physiology, pathology,
        clinical_medicine_overview, clinical_medicine_detail, rehabilitation,
        oriental_medicine_overview, meridian_points, oriental_medicine_clinical, oriental_medicine_clinical_general,
        acupuncture_theory, moxibustion_theory, total_score, created_at`

// ScoreRepository manages persistence for raw score records. Rows are
// always returned in primary-key order so that downstream deduplication
// is deterministic.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository constructs a ScoreRepository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ListAll returns every score record.
func (r *ScoreRepository) ListAll(ctx context.Context) ([]models.ScoreRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM test_scores ORDER BY id", scoreColumns)
	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

// ListByStudent returns one student's score records.
func (r *ScoreRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ScoreRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM test_scores WHERE student_id = $1 ORDER BY id", scoreColumns)
	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list scores for student %s: %w", studentID, err)
	}
	return records, nil
}

// ListByTest returns all records of one test, optionally scoped to a date.
func (r *ScoreRepository) ListByTest(ctx context.Context, testName string, testDate *time.Time) ([]models.ScoreRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM test_scores WHERE test_name = $1", scoreColumns)
	args := []interface{}{testName}
	if testDate != nil {
		query += " AND test_date = $2"
		args = append(args, *testDate)
	}
	query += " ORDER BY id"

	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list scores for test %s: %w", testName, err)
	}
	return records, nil
}

// InsertBatch stores new score records in a single transaction.
func (r *ScoreRepository) InsertBatch(ctx context.Context, records []models.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin score insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO test_scores (student_id, test_name, test_date,
        medical_overview, public_health, related_laws, anatomy, physiology, pathology,
        clinical_medicine_overview, clinical_medicine_detail, rehabilitation,
        oriental_medicine_overview, meridian_points, oriental_medicine_clinical, oriental_medicine_clinical_general,
        acupuncture_theory, moxibustion_theory, total_score, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	now := time.Now().UTC()
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query,
			rec.StudentID, rec.TestName, rec.TestDate,
			rec.MedicalOverview, rec.PublicHealth, rec.RelatedLaws, rec.Anatomy, rec.Physiology, rec.Pathology,
			rec.ClinicalMedicineOverview, rec.ClinicalMedicineDetail, rec.Rehabilitation,
			rec.OrientalMedicineOverview, rec.MeridianPoints, rec.OrientalMedicineClinical, rec.OrientalMedicineClinicalGeneral,
			rec.AcupunctureTheory, rec.MoxibustionTheory, rec.StoredTotal, now,
		); err != nil {
			return fmt.Errorf("insert score for %s/%s: %w", rec.StudentID, rec.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score insert: %w", err)
	}
	return nil
}

// CountScores returns the number of score rows.
func (r *ScoreRepository) CountScores(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM test_scores"); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

// CountDistinctTests returns the number of distinct tests administered.
func (r *ScoreRepository) CountDistinctTests(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(DISTINCT test_name) FROM test_scores"); err != nil {
		return 0, fmt.Errorf("count tests: %w", err)
	}
	return count, nil
}

// ListRecent returns the most recently created score rows.
func (r *ScoreRepository) ListRecent(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT %s FROM test_scores ORDER BY created_at DESC, id DESC LIMIT %d", scoreColumns, limit)
	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list recent scores: %w", err)
	}
	return records, nil
}
