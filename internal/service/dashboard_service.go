package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/models"
)

type dashboardScoreRepository interface {
	CountScores(ctx context.Context) (int, error)
	CountDistinctTests(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]models.ScoreRecord, error)
}

type dashboardStudentRepository interface {
	CountStudents(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL     time.Duration
	RecentScores int
}

// DashboardService composes the landing page payload. The three counts
// and the recent-score list are independent, so they are fetched
// concurrently and joined; a failed sub-fetch is logged and degrades to
// zero/empty instead of failing the dashboard.
type DashboardService struct {
	scores   dashboardScoreRepository
	students dashboardStudentRepository
	cache    *CacheService
	logger   *zap.Logger
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(scores dashboardScoreRepository, students dashboardStudentRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentScores <= 0 {
		cfg.RecentScores = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{scores: scores, students: students, cache: cache, logger: logger, cfg: cfg}
}

// Summary returns the dashboard payload and whether it was served from
// cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	const key = "dashboard:summary"

	var cached dto.DashboardResponse
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	resp := &dto.DashboardResponse{RecentScores: []models.ScoreRecord{}}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		count, err := s.students.CountStudents(ctx)
		if err != nil {
			s.logger.Warn("dashboard student count failed", zap.Error(err))
			return
		}
		resp.StudentCount = count
	}()

	go func() {
		defer wg.Done()
		count, err := s.scores.CountDistinctTests(ctx)
		if err != nil {
			s.logger.Warn("dashboard test count failed", zap.Error(err))
			return
		}
		resp.TestCount = count
	}()

	go func() {
		defer wg.Done()
		count, err := s.scores.CountScores(ctx)
		if err != nil {
			s.logger.Warn("dashboard score count failed", zap.Error(err))
			return
		}
		resp.ScoreCount = count
	}()

	go func() {
		defer wg.Done()
		recent, err := s.scores.ListRecent(ctx, s.cfg.RecentScores)
		if err != nil {
			s.logger.Warn("dashboard recent scores failed", zap.Error(err))
			return
		}
		if recent != nil {
			resp.RecentScores = recent
		}
	}()

	wg.Wait()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return resp, false, nil
}
