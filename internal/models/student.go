package models

import "time"

// Student represents a learner registered for the mock exams. StudentID is
// the canonical identity: a trimmed string, even when it looks numeric.
type Student struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Department labels derived from the third digit of a student ID.
const (
	DepartmentDay     = "day"
	DepartmentNight   = "night"
	DepartmentUnknown = "unknown"
)

// StudentProfile augments a student with attributes derived from the ID:
// the first two digits carry the enrollment year and the third digit the
// department ("2" day, "3" night).
type StudentProfile struct {
	Student
	Department     string `json:"department"`
	EnrollmentYear int    `json:"enrollment_year,omitempty"`
}
