package scoring

import "github.com/noah-isme/amt-results-api/internal/models"

// Threshold constants for the two pass rules. The track threshold is
// (common max 180 + specialized max 10) × 0.6 = 114 and applies with >=
// semantics. FlatPassingScore is the separate flat total_score rule; the
// two are independent verdicts and are never merged.
const (
	CommonMaxScore      = 180.0
	SpecializedMaxScore = 10.0
	PassingThreshold    = (CommonMaxScore + SpecializedMaxScore) * 0.6
	FlatPassingScore    = 180.0
	HighScoreThreshold  = 152.0
)

// Verdict carries the per-track pass/fail outcome for one record.
type Verdict struct {
	CommonScore         float64 `json:"common_score"`
	AcupuncturistScore  float64 `json:"acupuncturist_score"`
	MoxibustionistScore float64 `json:"moxibustionist_score"`
	Acupuncturist       bool    `json:"acupuncturist"`
	Moxibustionist      bool    `json:"moxibustionist"`
	Both                bool    `json:"both"`
}

// ComputeVerdict determines pass/fail for each license track. Each track
// score is the shared common score plus that track's specialized subject.
// An all-zero record yields false for both tracks, never an error.
func ComputeVerdict(rec models.ScoreRecord) Verdict {
	totals := ComputeTotals(rec)
	common := round1(totals.BasicMedicine + totals.ClinicalMedicine + totals.OrientalMedicine)

	acu := round1(common + value(rec.AcupunctureTheory))
	moxa := round1(common + value(rec.MoxibustionTheory))

	v := Verdict{
		CommonScore:         common,
		AcupuncturistScore:  acu,
		MoxibustionistScore: moxa,
		Acupuncturist:       acu >= PassingThreshold,
		Moxibustionist:      moxa >= PassingThreshold,
	}
	v.Both = v.Acupuncturist && v.Moxibustionist
	return v
}

// IsFlatPassing applies the flat total_score >= 180 rule.
func IsFlatPassing(totalScore float64) bool {
	return totalScore >= FlatPassingScore
}
