package scoring

import (
	"errors"
	"sort"

	"github.com/noah-isme/amt-results-api/internal/models"
)

// ErrNoRecords signals that the target student has no score records, so no
// ranking exists. Rank 0 is never returned as a substitute.
var ErrNoRecords = errors.New("no score records for student")

// RankedRecord pairs a record with its computed totals and 1-based rank
// within one test.
type RankedRecord struct {
	Record models.ScoreRecord `json:"record"`
	Totals Totals             `json:"totals"`
	Rank   int                `json:"rank"`
}

// RankTest ranks all records of one test by total score descending. The
// sort is stable: ties keep their insertion order, no tie-break rule is
// applied.
func RankTest(records []models.ScoreRecord) []RankedRecord {
	ranked := make([]RankedRecord, len(records))
	for i, rec := range records {
		ranked[i] = RankedRecord{Record: rec, Totals: ComputeTotals(rec)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Totals.Total > ranked[j].Totals.Total
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// OverallRanking summarises one student's position across all tests.
type OverallRanking struct {
	StudentID     string  `json:"student_id"`
	Rank          int     `json:"rank"`
	TotalStudents int     `json:"total_students"`
	AverageScore  float64 `json:"average_score"`
}

// ComputeOverallRanking ranks every student by their average total score
// across all their records, then locates the target student. Students are
// ordered by first appearance before the stable sort, so equal averages
// rank deterministically.
func ComputeOverallRanking(all []models.ScoreRecord, studentID string) (*OverallRanking, error) {
	target := NormalizeStudentID(studentID)

	type aggregate struct {
		id    string
		sum   float64
		count int
	}

	order := make([]string, 0)
	byStudent := make(map[string]*aggregate)
	for _, rec := range all {
		id := NormalizeStudentID(rec.StudentID)
		agg, ok := byStudent[id]
		if !ok {
			agg = &aggregate{id: id}
			byStudent[id] = agg
			order = append(order, id)
		}
		agg.sum += ComputeTotals(rec).Total
		agg.count++
	}

	if _, ok := byStudent[target]; !ok {
		return nil, ErrNoRecords
	}

	averages := make([]aggregate, 0, len(order))
	for _, id := range order {
		averages = append(averages, *byStudent[id])
	}
	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].sum/float64(averages[i].count) > averages[j].sum/float64(averages[j].count)
	})

	for i, agg := range averages {
		if agg.id == target {
			return &OverallRanking{
				StudentID:     target,
				Rank:          i + 1,
				TotalStudents: len(averages),
				AverageScore:  round1(agg.sum / float64(agg.count)),
			}, nil
		}
	}

	return nil, ErrNoRecords
}

// LatestTestRank returns the student's 1-based rank within their most
// recent test, or 0 when the student has no records. Used by the top_rank
// badge.
func LatestTestRank(all []models.ScoreRecord, studentID string) int {
	target := NormalizeStudentID(studentID)

	var latest *models.ScoreRecord
	for i := range all {
		if NormalizeStudentID(all[i].StudentID) != target {
			continue
		}
		if latest == nil || all[i].TestDate.After(latest.TestDate) {
			latest = &all[i]
		}
	}
	if latest == nil {
		return 0
	}

	var cohort []models.ScoreRecord
	for _, rec := range all {
		if rec.TestName == latest.TestName && rec.TestDate.Equal(latest.TestDate) {
			cohort = append(cohort, rec)
		}
	}

	for _, ranked := range RankTest(cohort) {
		if NormalizeStudentID(ranked.Record.StudentID) == target {
			return ranked.Rank
		}
	}
	return 0
}
