package dto

import "github.com/noah-isme/amt-results-api/internal/scoring"

// RankingEntry is one row of a per-test ranking.
type RankingEntry struct {
	Rank       int            `json:"rank"`
	StudentID  string         `json:"student_id"`
	Totals     scoring.Totals `json:"totals"`
	FlatPass   bool           `json:"flat_pass"`
	BothPassed bool           `json:"both_passed"`
}

// TestRankingResponse carries the full ranking of one test.
type TestRankingResponse struct {
	TestName string         `json:"test_name"`
	TestDate string         `json:"test_date,omitempty"`
	Entries  []RankingEntry `json:"entries"`
}
