package scoring

import "github.com/noah-isme/amt-results-api/internal/models"

// Badge identifiers. The set is fixed; evaluation always returns every
// badge annotated with earned, never a filtered subset.
const (
	BadgeFirstTest      = "first_test"
	BadgePassingScore   = "passing_score"
	BadgeTopRank        = "top_rank"
	BadgePerfectAnatomy = "perfect_anatomy"
	BadgeOrientalExpert = "oriental_expert"
	BadgeClinicalExpert = "clinical_expert"
)

// Badge is one badge definition with its evaluation outcome.
type Badge struct {
	ID     string `json:"id"`
	Earned bool   `json:"earned"`
}

// EvaluateBadges checks every badge against the student's records.
// latestTestRank is the student's rank in their most recent test (see
// LatestTestRank); 0 means no rank is available. Each check is independent
// and order-insensitive.
func EvaluateBadges(records []models.ScoreRecord, latestTestRank int) []Badge {
	var anyPassing, anyAnatomy, anyOriental, anyClinical bool
	for _, rec := range records {
		totals := ComputeTotals(rec)
		if totals.Total >= PassingThreshold {
			anyPassing = true
		}
		if value(rec.Anatomy) >= 12 {
			anyAnatomy = true
		}
		if totals.OrientalMedicine >= 50 {
			anyOriental = true
		}
		if totals.ClinicalMedicine >= 40 {
			anyClinical = true
		}
	}

	return []Badge{
		{ID: BadgeFirstTest, Earned: len(records) >= 1},
		{ID: BadgePassingScore, Earned: anyPassing},
		{ID: BadgeTopRank, Earned: latestTestRank >= 1 && latestTestRank <= 3},
		{ID: BadgePerfectAnatomy, Earned: anyAnatomy},
		{ID: BadgeOrientalExpert, Earned: anyOriental},
		{ID: BadgeClinicalExpert, Earned: anyClinical},
	}
}
