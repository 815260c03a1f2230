package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/scoring"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
)

// GamificationService derives level, experience and badges from a
// student's exam history. Everything is recomputed from the full record
// set on each call; there is no incremental state.
type GamificationService struct {
	scores scoreRepository
	logger *zap.Logger
}

// NewGamificationService constructs a GamificationService.
func NewGamificationService(scores scoreRepository, logger *zap.Logger) *GamificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GamificationService{scores: scores, logger: logger}
}

// Level computes the student's level and experience. A student with no
// records is level 1 with zero experience, not an error.
func (s *GamificationService) Level(ctx context.Context, studentID string) (*scoring.Level, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	records, err := s.scores.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student scores")
	}
	level := scoring.ComputeLevel(scoring.Dedupe(records))
	return &level, nil
}

// Badges evaluates the fixed badge set for the student. The top_rank badge
// needs the whole cohort of the student's most recent test, so the full
// record set is fetched.
func (s *GamificationService) Badges(ctx context.Context, studentID string) ([]scoring.Badge, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	all, err := s.scores.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scores")
	}
	deduped := scoring.Dedupe(all)

	var own []models.ScoreRecord
	for _, rec := range deduped {
		if scoring.NormalizeStudentID(rec.StudentID) == id {
			own = append(own, rec)
		}
	}

	latestRank := scoring.LatestTestRank(deduped, id)
	return scoring.EvaluateBadges(own, latestRank), nil
}
