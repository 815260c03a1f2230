package scoring

import "github.com/noah-isme/amt-results-api/internal/models"

// Stats summarises a student's full exam history. An empty record set is
// an expected steady state and yields the zero-valued summary, never an
// error or NaN.
type Stats struct {
	TestCount    int     `json:"test_count"`
	UniqueTests  int     `json:"unique_tests"`
	AverageScore float64 `json:"average_score"`
	HighestScore float64 `json:"highest_score"`
	LowestScore  float64 `json:"lowest_score"`
	PassingCount int     `json:"passing_count"`
	PassingRate  float64 `json:"passing_rate"`
}

// ComputeStats aggregates totals across one student's records.
func ComputeStats(records []models.ScoreRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	stats := Stats{TestCount: len(records)}
	tests := make(map[string]struct{})

	var sum float64
	for i, rec := range records {
		total := ComputeTotals(rec).Total
		sum += total
		if i == 0 || total > stats.HighestScore {
			stats.HighestScore = total
		}
		if i == 0 || total < stats.LowestScore {
			stats.LowestScore = total
		}
		if total >= PassingThreshold {
			stats.PassingCount++
		}
		tests[rec.TestName] = struct{}{}
	}

	stats.UniqueTests = len(tests)
	stats.AverageScore = round1(sum / float64(len(records)))
	stats.PassingRate = round1(float64(stats.PassingCount) / float64(len(records)) * 100)
	return stats
}
