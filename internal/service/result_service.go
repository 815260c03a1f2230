package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/scoring"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
)

type scoreRepository interface {
	ListAll(ctx context.Context) ([]models.ScoreRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ScoreRecord, error)
	ListByTest(ctx context.Context, testName string, testDate *time.Time) ([]models.ScoreRecord, error)
	InsertBatch(ctx context.Context, records []models.ScoreRecord) error
}

// ResultService exposes score records with their derived aggregates and
// handles batch imports. All totals and verdicts flow through the scoring
// package; stored total_score values are recomputed, never trusted.
type ResultService struct {
	scores    scoreRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	maxRows   int
}

// NewResultService constructs a ResultService.
func NewResultService(scores scoreRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, maxRows int) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if maxRows <= 0 {
		maxRows = 2000
	}
	return &ResultService{scores: scores, cache: cache, validator: validate, logger: logger, maxRows: maxRows}
}

// ListResults returns every score record, deduplicated, with derived
// totals and verdicts.
func (s *ResultService) ListResults(ctx context.Context) ([]dto.ResultView, error) {
	records, err := s.scores.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	return buildViews(scoring.Dedupe(records)), nil
}

// StudentResults returns one student's deduplicated records with derived
// aggregates. An empty history yields an empty list, not an error.
func (s *ResultService) StudentResults(ctx context.Context, studentID string) ([]dto.ResultView, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	records, err := s.scores.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student results")
	}
	return buildViews(scoring.Dedupe(records)), nil
}

// StudentStats aggregates one student's exam history.
func (s *ResultService) StudentStats(ctx context.Context, studentID string) (*scoring.Stats, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	records, err := s.scores.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student scores")
	}
	stats := scoring.ComputeStats(scoring.Dedupe(records))
	return &stats, nil
}

// ImportScores validates and stores a batch of score rows. Rejected rows
// are excluded and reported; flagged rows (out-of-range values) are stored
// unclamped and reported. The batch never aborts on a bad row.
func (s *ResultService) ImportScores(ctx context.Context, req dto.ImportScoresRequest) (*dto.ImportReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	if len(req.Rows) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("import exceeds %d rows", s.maxRows))
	}

	report := &dto.ImportReport{Submitted: len(req.Rows)}
	accepted := make([]models.ScoreRecord, 0, len(req.Rows))

	for i, row := range req.Rows {
		rec := row.ToRecord()
		issues := scoring.Validate(rec)
		if scoring.Rejected(issues) {
			report.Rejected = append(report.Rejected, dto.RejectedRow{Index: i, Issues: issues})
			continue
		}
		if len(issues) > 0 {
			report.Flagged = append(report.Flagged, dto.FlaggedRow{Index: i, Issues: issues})
		}

		total := scoring.ComputeTotals(rec).Total
		rec.StoredTotal = &total
		accepted = append(accepted, rec)
	}

	if err := s.scores.InsertBatch(ctx, accepted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store score records")
	}
	report.Inserted = len(accepted)

	if s.cache != nil && len(accepted) > 0 {
		if err := s.cache.Invalidate(ctx, "rankings:*"); err != nil {
			s.logger.Warn("failed to invalidate ranking cache", zap.Error(err))
		}
		if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	s.logger.Info("score import completed",
		zap.Int("submitted", report.Submitted),
		zap.Int("inserted", report.Inserted),
		zap.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}

func buildViews(records []models.ScoreRecord) []dto.ResultView {
	views := make([]dto.ResultView, len(records))
	for i, rec := range records {
		totals := scoring.ComputeTotals(rec)
		views[i] = dto.ResultView{
			Record:   rec,
			Totals:   totals,
			Verdict:  scoring.ComputeVerdict(rec),
			FlatPass: scoring.IsFlatPassing(totals.Total),
		}
	}
	return views
}
