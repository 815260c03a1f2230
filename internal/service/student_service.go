package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/scoring"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// StudentService manages student accounts. Passwords are bcrypt-hashed at
// this boundary; plaintext never reaches the repository.
type StudentService struct {
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, validator: validate, logger: logger}
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student with their ID-derived profile attributes.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	id := scoring.NormalizeStudentID(studentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	student, err := s.students.FindByStudentID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	profile := deriveProfile(*student)
	return &profile, nil
}

// Create registers a new student account.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	id := scoring.NormalizeStudentID(req.StudentID)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	exists, err := s.students.ExistsByStudentID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %s already registered", id))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{StudentID: id, Name: req.Name, PasswordHash: string(hash)}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies a student's name and, when provided, password.
func (s *StudentService) Update(ctx context.Context, studentID string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	id := scoring.NormalizeStudentID(studentID)
	student, err := s.students.FindByStudentID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	student.Name = req.Name
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		student.PasswordHash = string(hash)
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Import registers students in bulk with per-row error collection. A bad
// row is reported and skipped, never aborting the batch.
func (s *StudentService) Import(ctx context.Context, req dto.ImportStudentsRequest) (*dto.StudentImportReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	report := &dto.StudentImportReport{Submitted: len(req.Rows)}
	for i, row := range req.Rows {
		if err := s.importRow(ctx, row); err != nil {
			report.Errors = append(report.Errors, dto.StudentImportError{Index: i, Message: err.Error()})
			continue
		}
		report.Created++
	}

	s.logger.Info("student import completed",
		zap.Int("submitted", report.Submitted),
		zap.Int("created", report.Created),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (s *StudentService) importRow(ctx context.Context, row dto.ImportStudentRow) error {
	id := scoring.NormalizeStudentID(row.StudentID)
	if id == "" {
		return errors.New("missing student_id")
	}
	if row.Name == "" {
		return errors.New("missing name")
	}
	if row.Password == "" {
		return errors.New("missing password")
	}

	exists, err := s.students.ExistsByStudentID(ctx, id)
	if err != nil {
		return fmt.Errorf("check student id: %w", err)
	}
	if exists {
		return fmt.Errorf("student %s already registered", id)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.students.Create(ctx, &models.Student{StudentID: id, Name: row.Name, PasswordHash: string(hash)})
}

// deriveProfile reads department and enrollment year out of the student
// ID: first two digits are the enrollment year, the third digit selects
// the department ("2" day, "3" night).
func deriveProfile(student models.Student) models.StudentProfile {
	profile := models.StudentProfile{Student: student, Department: models.DepartmentUnknown}

	id := student.StudentID
	if len(id) >= 3 {
		switch id[2] {
		case '2':
			profile.Department = models.DepartmentDay
		case '3':
			profile.Department = models.DepartmentNight
		}
	}
	if len(id) >= 2 {
		if year, err := strconv.Atoi(id[:2]); err == nil {
			profile.EnrollmentYear = 2000 + year
		}
	}
	return profile
}
