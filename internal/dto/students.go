package dto

// CreateStudentRequest registers one student account.
type CreateStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Password  string `json:"password" validate:"required,min=4"`
}

// UpdateStudentRequest modifies a student's name and optionally password.
type UpdateStudentRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password,omitempty" validate:"omitempty,min=4"`
}

// ImportStudentRow is one submitted student in a bulk import.
type ImportStudentRow struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Password  string `json:"password"`
}

// ImportStudentsRequest is the bulk student import payload.
type ImportStudentsRequest struct {
	Rows []ImportStudentRow `json:"rows" validate:"required,min=1"`
}

// StudentImportError reports one row that could not be imported.
type StudentImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// StudentImportReport summarises a bulk student import.
type StudentImportReport struct {
	Submitted int                  `json:"submitted"`
	Created   int                  `json:"created"`
	Errors    []StudentImportError `json:"errors,omitempty"`
}
