package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/amt-results-api/internal/models"
)

func TestNormalizeStudentID(t *testing.T) {
	assert.Equal(t, "2301", NormalizeStudentID("  2301 "))
	assert.Equal(t, "", NormalizeStudentID("   "))
	assert.Equal(t, "abc-1", NormalizeStudentID("abc-1"))
}

func TestDedupeFirstWins(t *testing.T) {
	first := scoredRecord("1", "mock-1", 1, 100)
	duplicate := scoredRecord("1", "mock-1", 1, 999)
	other := scoredRecord("1", "mock-2", 2, 50)

	out := Dedupe([]models.ScoreRecord{first, duplicate, other})

	require.Len(t, out, 2)
	assert.Equal(t, 100.0, ComputeTotals(out[0]).Total, "first occurrence wins")
	assert.Equal(t, "mock-2", out[1].TestName)
}

func TestDedupeTreatsWhitespaceIDsAsEqual(t *testing.T) {
	a := scoredRecord("7", "mock-1", 1, 10)
	b := scoredRecord(" 7 ", "mock-1", 1, 20)

	out := Dedupe([]models.ScoreRecord{a, b})

	require.Len(t, out, 1)
}

func TestValidateRejectsMissingIdentity(t *testing.T) {
	cases := []struct {
		name  string
		rec   models.ScoreRecord
		field string
	}{
		{"missing student_id", record("", "mock-1", 1), "student_id"},
		{"whitespace student_id", record("   ", "mock-1", 1), "student_id"},
		{"missing test_name", record("1", "", 1), "test_name"},
		{"missing test_date", models.ScoreRecord{StudentID: "1", TestName: "mock-1"}, "test_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := Validate(tc.rec)
			require.NotEmpty(t, issues)
			assert.True(t, Rejected(issues))
			assert.Equal(t, tc.field, issues[0].Field)
		})
	}
}

func TestValidateFlagsOutOfRangeWithoutRejecting(t *testing.T) {
	rec := record("1", "mock-1", 1)
	rec.MedicalOverview = fp(3) // max is 2
	rec.Anatomy = fp(-1)

	issues := Validate(rec)

	require.Len(t, issues, 2)
	assert.False(t, Rejected(issues), "out-of-range values flag the record but keep it")
	for _, issue := range issues {
		assert.False(t, issue.Reject)
	}
}

func TestValidateCleanRecord(t *testing.T) {
	rec := record("1", "mock-1", 1)
	rec.Anatomy = fp(15)

	assert.Empty(t, Validate(rec))
}
