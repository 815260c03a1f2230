package dto

import "github.com/noah-isme/amt-results-api/internal/models"

// DashboardResponse aggregates the landing page counts and recent scores.
// Counts are fetched concurrently; a failed sub-fetch degrades to zero
// rather than failing the whole dashboard.
type DashboardResponse struct {
	StudentCount int                  `json:"student_count"`
	TestCount    int                  `json:"test_count"`
	ScoreCount   int                  `json:"score_count"`
	RecentScores []models.ScoreRecord `json:"recent_scores"`
}
