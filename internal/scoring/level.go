package scoring

import "github.com/noah-isme/amt-results-api/internal/models"

// Level is the gamification state derived from a student's full record
// collection. Always recomputed from scratch; there is no incremental
// update model.
type Level struct {
	Level               int `json:"level"`
	Experience          int `json:"experience"`
	NextLevelExperience int `json:"next_level_experience"`
	ProgressPercent     int `json:"progress_percent"`
	RemainingExperience int `json:"remaining_experience"`
}

// ComputeLevel derives level and experience: 10 points per test taken,
// 20 per test at or above the 114 pass threshold, a further 30 per test
// at or above the 152 high-score tier. A record above 152 earns both
// bonuses. Experience only accumulates, so level never decreases as
// records are added.
func ComputeLevel(records []models.ScoreRecord) Level {
	exp := 0
	for _, rec := range records {
		total := ComputeTotals(rec).Total
		exp += 10
		if total >= PassingThreshold {
			exp += 20
		}
		if total >= HighScoreThreshold {
			exp += 30
		}
	}

	level := exp/100 + 1
	return Level{
		Level:               level,
		Experience:          exp,
		NextLevelExperience: level * 100,
		ProgressPercent:     exp % 100,
		RemainingExperience: level*100 - exp,
	}
}
