package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

const (
	msgAssignmentExists    = "This student-teacher-subject assignment already exists for the given academic period"
	msgAssignmentNotFound  = "Student-teacher-subject assignment not found for the given key"
	msgAssignmentCollision = "Cannot update: this would create a duplicate assignment"
	msgAssignmentDangling  = "Assignment references a record that no longer exists"
	msgAssignmentInUse     = "Cannot delete: the assignment is still referenced by other records"
)

type assignmentStore interface {
	Get(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error)
	List(ctx context.Context, filter models.AssignmentFilter, order models.AssignmentOrder) ([]models.StudentTeacherSubject, error)
	Create(ctx context.Context, values repository.Values) error
	Update(ctx context.Context, key models.AssignmentKey, values repository.Values) error
	Delete(ctx context.Context, key models.AssignmentKey) error
}

// StudentTeacherSubjectService manages assignments identified by student,
// teacher, subject and academic period.
type StudentTeacherSubjectService struct {
	store      assignmentStore
	validator  *validator.Validate
	logger     *zap.Logger
	references []reference
	student    reference
	teacher    reference
	subject    reference
	grade      reference
	now        func() time.Time
}

// NewStudentTeacherSubjectService creates the service. Missing parents are
// reported in the order student, teacher, subject, grade.
func NewStudentTeacherSubjectService(store assignmentStore, students, teachers, subjects, grades existenceChecker, validate *validator.Validate, logger *zap.Logger) *StudentTeacherSubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	s := &StudentTeacherSubjectService{
		store:     store,
		validator: validate,
		logger:    logger,
		student:   ref("student_id", "Student", students),
		teacher:   ref("teacher_id", "Teacher", teachers),
		subject:   ref("subject_id", "Subject", subjects),
		grade:     ref("grade_id", "Grade", grades),
		now:       time.Now,
	}
	s.references = []reference{s.student, s.teacher, s.subject, s.grade}
	return s
}

// Create stores a new assignment. The assignment date defaults to today and
// the assignment starts active.
func (s *StudentTeacherSubjectService) Create(ctx context.Context, req dto.CreateStudentTeacherSubjectRequest) (*models.StudentTeacherSubject, error) {
	if err := validation.Struct(s.validator, req, "invalid student-teacher-subject payload"); err != nil {
		return nil, err
	}
	values, err := req.Changes()
	if err != nil {
		return nil, err
	}
	if _, ok := values["assignment_date"]; !ok {
		values["assignment_date"] = s.today()
	}
	if _, ok := values["is_active"]; !ok {
		values["is_active"] = true
	}

	key := req.Key()
	if err := validation.Struct(s.validator, key, "invalid student-teacher-subject payload"); err != nil {
		return nil, err
	}
	if err := ensureReferences(ctx, s.references, values); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, values); err != nil {
		return nil, s.writeError(err, "create", key, msgAssignmentExists, msgAssignmentDangling)
	}
	return s.FindOne(ctx, key)
}

// FindAll lists every assignment.
func (s *StudentTeacherSubjectService) FindAll(ctx context.Context) ([]models.StudentTeacherSubject, error) {
	return s.list(ctx, models.AssignmentFilter{}, models.OrderAssignmentsDefault)
}

// FindOne returns the assignment stored under key.
func (s *StudentTeacherSubjectService) FindOne(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error) {
	if err := validation.Struct(s.validator, key, "invalid assignment key"); err != nil {
		return nil, err
	}
	assignment, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgAssignmentNotFound)
		}
		return nil, appErrors.Internal(err, "failed to load assignment %s", key)
	}
	return assignment, nil
}

// FindByStudent lists a student's assignments by subject and period.
func (s *StudentTeacherSubjectService) FindByStudent(ctx context.Context, studentID int64) ([]models.StudentTeacherSubject, error) {
	if err := ensureExists(ctx, s.student, studentID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.AssignmentFilter{StudentID: &studentID}, models.OrderAssignmentsByStudent)
}

// FindByTeacher lists a teacher's assignments by grade, student and subject.
func (s *StudentTeacherSubjectService) FindByTeacher(ctx context.Context, teacherID int64) ([]models.StudentTeacherSubject, error) {
	if err := ensureExists(ctx, s.teacher, teacherID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.AssignmentFilter{TeacherID: &teacherID}, models.OrderAssignmentsByTeacher)
}

// FindBySubject lists a subject's assignments by grade, student and teacher.
func (s *StudentTeacherSubjectService) FindBySubject(ctx context.Context, subjectID int64) ([]models.StudentTeacherSubject, error) {
	if err := ensureExists(ctx, s.subject, subjectID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.AssignmentFilter{SubjectID: &subjectID}, models.OrderAssignmentsBySubject)
}

// FindByGrade lists a grade's assignments by student, subject and period.
func (s *StudentTeacherSubjectService) FindByGrade(ctx context.Context, gradeID int64) ([]models.StudentTeacherSubject, error) {
	if err := ensureExists(ctx, s.grade, gradeID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.AssignmentFilter{GradeID: &gradeID}, models.OrderAssignmentsByGrade)
}

// FindByAcademicPeriod lists the assignments of one period.
func (s *StudentTeacherSubjectService) FindByAcademicPeriod(ctx context.Context, period string) ([]models.StudentTeacherSubject, error) {
	return s.list(ctx, models.AssignmentFilter{AcademicPeriod: &period}, models.OrderAssignmentsDefault)
}

// FindActiveAssignments lists assignments whose active flag is set.
func (s *StudentTeacherSubjectService) FindActiveAssignments(ctx context.Context) ([]models.StudentTeacherSubject, error) {
	active := true
	return s.list(ctx, models.AssignmentFilter{IsActive: &active}, models.OrderAssignmentsDefault)
}

// Update rewrites the assignment under key and returns it under its
// possibly changed key.
func (s *StudentTeacherSubjectService) Update(ctx context.Context, key models.AssignmentKey, req dto.UpdateStudentTeacherSubjectRequest) (*models.StudentTeacherSubject, error) {
	if _, err := s.FindOne(ctx, key); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validator, req, "invalid student-teacher-subject payload"); err != nil {
		return nil, err
	}
	values, err := req.Changes()
	if err != nil {
		return nil, err
	}
	next := req.ApplyTo(key)
	if err := validation.Struct(s.validator, next, "invalid student-teacher-subject payload"); err != nil {
		return nil, err
	}
	if err := ensureReferences(ctx, s.references, values); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, key, values); err != nil {
		return nil, s.writeError(err, "update", key, msgAssignmentCollision, msgAssignmentDangling)
	}
	return s.FindOne(ctx, next)
}

// Remove deletes the assignment and returns its last representation.
func (s *StudentTeacherSubjectService) Remove(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error) {
	current, err := s.FindOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return nil, s.writeError(err, "delete", key, "", msgAssignmentInUse)
	}
	return current, nil
}

// ToggleActive flips the active flag of the assignment.
func (s *StudentTeacherSubjectService) ToggleActive(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error) {
	current, err := s.FindOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, key, repository.Values{"is_active": !current.IsActive}); err != nil {
		return nil, s.writeError(err, "toggle", key, "", "")
	}
	return s.FindOne(ctx, key)
}

func (s *StudentTeacherSubjectService) list(ctx context.Context, filter models.AssignmentFilter, order models.AssignmentOrder) ([]models.StudentTeacherSubject, error) {
	items, err := s.store.List(ctx, filter, order)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignments")
	}
	return items, nil
}

// writeError maps constraint violations to conflicts using the messages of
// the operation. An empty message leaves that violation as an internal error.
func (s *StudentTeacherSubjectService) writeError(err error, op string, key models.AssignmentKey, duplicate, foreignKey string) error {
	if _, ok := repository.AsUniqueViolation(err); ok && duplicate != "" {
		return appErrors.Conflict(duplicate, err)
	}
	if errors.Is(err, repository.ErrForeignKeyViolation) && foreignKey != "" {
		return appErrors.Conflict(foreignKey, err)
	}
	s.logger.Error("assignment write failed", zap.String("operation", op), zap.Stringer("key", key), zap.Error(err))
	return appErrors.Internal(err, "failed to %s assignment %s", op, key)
}

func (s *StudentTeacherSubjectService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
