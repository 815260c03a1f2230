package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/amt-results-api/internal/models"
)

func TestComputeStatsEmptyIsZeroNotError(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, Stats{}, stats)
	assert.NotPanics(t, func() { ComputeStats([]models.ScoreRecord{}) })
}

func TestComputeStats(t *testing.T) {
	records := []models.ScoreRecord{
		scoredRecord("1", "mock-1", 1, 100),
		scoredRecord("1", "mock-1", 2, 130),
		scoredRecord("1", "mock-2", 10, 70),
	}

	stats := ComputeStats(records)

	assert.Equal(t, 3, stats.TestCount)
	assert.Equal(t, 2, stats.UniqueTests)
	assert.Equal(t, 100.0, stats.AverageScore)
	assert.Equal(t, 130.0, stats.HighestScore)
	assert.Equal(t, 70.0, stats.LowestScore)
	assert.Equal(t, 1, stats.PassingCount)
	assert.Equal(t, 33.3, stats.PassingRate)
}
