package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/scoring"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
)

// RankingService computes per-test and overall rankings, caching the
// per-test payloads since they are recomputed over the whole cohort.
type RankingService struct {
	scores   scoreRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRankingService constructs a RankingService.
func NewRankingService(scores scoreRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{scores: scores, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// TestRanking ranks all students within one test, optionally scoped to a
// date. Ties keep insertion (primary key) order.
func (s *RankingService) TestRanking(ctx context.Context, testName string, testDate *time.Time) (*dto.TestRankingResponse, error) {
	if testName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "test name is required")
	}

	key := fmt.Sprintf("rankings:test:%s", testName)
	if testDate != nil {
		key = fmt.Sprintf("%s:%s", key, testDate.Format("2006-01-02"))
	}

	var cached dto.TestRankingResponse
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	records, err := s.scores.ListByTest(ctx, testName, testDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test scores")
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no score records for test %s", testName))
	}

	ranked := scoring.RankTest(scoring.Dedupe(records))
	entries := make([]dto.RankingEntry, len(ranked))
	for i, rr := range ranked {
		verdict := scoring.ComputeVerdict(rr.Record)
		entries[i] = dto.RankingEntry{
			Rank:       rr.Rank,
			StudentID:  scoring.NormalizeStudentID(rr.Record.StudentID),
			Totals:     rr.Totals,
			FlatPass:   scoring.IsFlatPassing(rr.Totals.Total),
			BothPassed: verdict.Both,
		}
	}

	resp := &dto.TestRankingResponse{TestName: testName, Entries: entries}
	if testDate != nil {
		resp.TestDate = testDate.Format("2006-01-02")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache test ranking", zap.String("test", testName), zap.Error(err))
		}
	}
	return resp, nil
}

// OverallRanking locates one student in the cross-test ranking by average
// total score. A student with no records yields NotFound, never rank 0.
func (s *RankingService) OverallRanking(ctx context.Context, studentID string) (*scoring.OverallRanking, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	all, err := s.scores.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scores")
	}

	ranking, err := scoring.ComputeOverallRanking(scoring.Dedupe(all), id)
	if err != nil {
		if errors.Is(err, scoring.ErrNoRecords) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no score records")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute ranking")
	}
	return ranking, nil
}
