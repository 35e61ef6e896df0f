package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

// mockAssignmentRepo stores assignments by composite key.
type mockAssignmentRepo struct {
	rows     map[models.AssignmentKey]models.StudentTeacherSubject
	writes   int
	writeErr error
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{rows: map[models.AssignmentKey]models.StudentTeacherSubject{}}
}

func (m *mockAssignmentRepo) Get(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error) {
	row, ok := m.rows[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter, order models.AssignmentOrder) ([]models.StudentTeacherSubject, error) {
	var out []models.StudentTeacherSubject
	for _, row := range m.rows {
		if filter.StudentID != nil && row.StudentID != *filter.StudentID {
			continue
		}
		if filter.TeacherID != nil && row.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.SubjectID != nil && row.SubjectID != *filter.SubjectID {
			continue
		}
		if filter.GradeID != nil && row.GradeID != *filter.GradeID {
			continue
		}
		if filter.AcademicPeriod != nil && row.AcademicPeriod != *filter.AcademicPeriod {
			continue
		}
		if filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func applyAssignmentValues(row *models.StudentTeacherSubject, values repository.Values) {
	for column, v := range values {
		switch column {
		case "student_id":
			row.StudentID = v.(int64)
		case "teacher_id":
			row.TeacherID = v.(int64)
		case "subject_id":
			row.SubjectID = v.(int64)
		case "grade_id":
			row.GradeID = v.(int64)
		case "academic_period":
			row.AcademicPeriod = v.(string)
		case "assignment_date":
			row.AssignmentDate = v.(time.Time)
		case "is_active":
			row.IsActive = v.(bool)
		}
	}
}

func duplicateAssignment() error {
	return &repository.UniqueViolationError{
		Constraint: "student_teacher_subjects_pkey",
		Fields:     []string{"student_id", "teacher_id", "subject_id", "academic_period"},
	}
}

func (m *mockAssignmentRepo) Create(ctx context.Context, values repository.Values) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	var row models.StudentTeacherSubject
	applyAssignmentValues(&row, values)
	if _, ok := m.rows[row.Key()]; ok {
		return duplicateAssignment()
	}
	m.rows[row.Key()] = row
	m.writes++
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, key models.AssignmentKey, values repository.Values) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	row := m.rows[key]
	applyAssignmentValues(&row, values)
	if row.Key() != key {
		if _, ok := m.rows[row.Key()]; ok {
			return duplicateAssignment()
		}
		delete(m.rows, key)
	}
	m.rows[row.Key()] = row
	m.writes++
	return nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, key models.AssignmentKey) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.rows, key)
	m.writes++
	return nil
}

var fixedToday = time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)

func newTestAssignmentService(repo *mockAssignmentRepo) *StudentTeacherSubjectService {
	svc := NewStudentTeacherSubjectService(repo,
		existing(1, 2), existing(10), existing(20, 21), existing(5, 6),
		validation.New(), zap.NewNop())
	svc.now = func() time.Time { return fixedToday }
	return svc
}

func assignmentRequest() dto.CreateStudentTeacherSubjectRequest {
	return dto.CreateStudentTeacherSubjectRequest{
		StudentID: 1, TeacherID: 10, SubjectID: 20, GradeID: 5, AcademicPeriod: "2024-1",
	}
}

func TestAssignmentCreateAppliesDefaults(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), created.AssignmentDate)
	assert.Equal(t, models.AssignmentKey{StudentID: 1, TeacherID: 10, SubjectID: 20, AcademicPeriod: "2024-1"}, created.Key())
}

func TestAssignmentCreateKeepsExplicitValues(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())
	req := assignmentRequest()
	req.IsActive = boolPtr(false)
	req.AssignmentDate = strPtr("2024-02-01")

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created.IsActive)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), created.AssignmentDate)
}

func TestAssignmentCreateMissingStudent(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	req := assignmentRequest()
	req.StudentID = 9999

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Equal(t, "Student with ID 9999 not found", appErrors.FromError(err).Message)
	assert.Zero(t, repo.writes)
}

func TestAssignmentCreateReportsFirstMissingParent(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())
	req := assignmentRequest()
	req.SubjectID = 99
	req.GradeID = 98

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Subject with ID 99 not found", appErrors.FromError(err).Message)

	req = assignmentRequest()
	req.GradeID = 98
	_, err = svc.Create(context.Background(), req)
	assert.Equal(t, "Grade with ID 98 not found", appErrors.FromError(err).Message)
}

func TestAssignmentCreateDuplicateIsConflict(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	_, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)

	again := assignmentRequest()
	again.GradeID = 6
	again.IsActive = boolPtr(false)
	again.AssignmentDate = strPtr("2023-12-01")
	_, err = svc.Create(context.Background(), again)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, msgAssignmentExists, appErrors.FromError(err).Message)

	require.Len(t, repo.rows, 1)
	stored, err := svc.FindOne(context.Background(), assignmentRequest().Key())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.GradeID)
	assert.True(t, stored.IsActive)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), stored.AssignmentDate)
}

func TestAssignmentCreateRejectsBlankPeriod(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	req := assignmentRequest()
	req.AcademicPeriod = "   "

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "academicPeriod must not be blank", appErr.Details["academicPeriod"])
	assert.Zero(t, repo.writes)
	assert.Empty(t, repo.rows)
}

func TestAssignmentUpdateRejectsBlankPeriod(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)
	writes := repo.writes

	_, err = svc.Update(context.Background(), created.Key(), dto.UpdateStudentTeacherSubjectRequest{AcademicPeriod: strPtr(" \t ")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Equal(t, writes, repo.writes)
	assert.Contains(t, repo.rows, created.Key())
}

// barrier releases its waiters once n of them have arrived.
type barrier struct {
	arrived  sync.WaitGroup
	released chan struct{}
}

func newBarrier(n int) *barrier {
	b := &barrier{released: make(chan struct{})}
	b.arrived.Add(n)
	go func() {
		b.arrived.Wait()
		close(b.released)
	}()
	return b
}

// barrierChecker reports every ID as present, but only after all checkers
// sharing the barrier are in flight at the same time.
type barrierChecker struct {
	b    *barrier
	name string
}

func (c barrierChecker) Exists(ctx context.Context, id int64) (bool, error) {
	c.b.arrived.Done()
	select {
	case <-c.b.released:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(2 * time.Second):
		return false, fmt.Errorf("%s check %d ran alone", c.name, id)
	}
}

func TestAssignmentCreateChecksParentsConcurrently(t *testing.T) {
	b := newBarrier(4)
	repo := newMockAssignmentRepo()
	svc := NewStudentTeacherSubjectService(repo,
		barrierChecker{b, "student"}, barrierChecker{b, "teacher"}, barrierChecker{b, "subject"}, barrierChecker{b, "grade"},
		validation.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)
	assert.Equal(t, assignmentRequest().Key(), created.Key())
	assert.Equal(t, 1, repo.writes)
}

func TestAssignmentCreateValidation(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())

	_, err := svc.Create(context.Background(), dto.CreateStudentTeacherSubjectRequest{StudentID: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Details, "academicPeriod")
}

func TestAssignmentFindOneNotFound(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())

	_, err := svc.FindOne(context.Background(), models.AssignmentKey{StudentID: 1, TeacherID: 10, SubjectID: 20, AcademicPeriod: "2030-1"})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Equal(t, msgAssignmentNotFound, appErrors.FromError(err).Message)
}

func TestAssignmentFindOneRejectsIncompleteKey(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())

	_, err := svc.FindOne(context.Background(), models.AssignmentKey{StudentID: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestAssignmentFindByParentChecksParent(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())
	_, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)

	items, err := svc.FindByStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = svc.FindByStudent(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.FindByTeacher(context.Background(), 11)
	assert.Equal(t, "Teacher with ID 11 not found", appErrors.FromError(err).Message)
	_, err = svc.FindBySubject(context.Background(), 30)
	assert.Equal(t, "Subject with ID 30 not found", appErrors.FromError(err).Message)
	_, err = svc.FindByGrade(context.Background(), 7)
	assert.Equal(t, "Grade with ID 7 not found", appErrors.FromError(err).Message)
}

func TestAssignmentFindByPeriodAndActive(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo())
	_, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)
	req := assignmentRequest()
	req.StudentID = 2
	req.AcademicPeriod = "2024-2"
	req.IsActive = boolPtr(false)
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)

	items, err := svc.FindByAcademicPeriod(context.Background(), "2024-2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].StudentID)

	active, err := svc.FindActiveAssignments(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].StudentID)

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAssignmentUpdateMovesKey(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.Key(), dto.UpdateStudentTeacherSubjectRequest{SubjectID: int64Ptr(21)})
	require.NoError(t, err)
	assert.Equal(t, int64(21), updated.SubjectID)
	assert.Len(t, repo.rows, 1)
}

func TestAssignmentUpdateCollisionIsConflict(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	first, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)
	req := assignmentRequest()
	req.SubjectID = 21
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), first.Key(), dto.UpdateStudentTeacherSubjectRequest{SubjectID: int64Ptr(21)})
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, msgAssignmentCollision, appErrors.FromError(err).Message)
	assert.Len(t, repo.rows, 2)
}

func TestAssignmentUpdateMissingWritesNothing(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)

	key := models.AssignmentKey{StudentID: 1, TeacherID: 10, SubjectID: 20, AcademicPeriod: "2024-1"}
	_, err := svc.Update(context.Background(), key, dto.UpdateStudentTeacherSubjectRequest{IsActive: boolPtr(false)})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Zero(t, repo.writes)
}

func TestAssignmentRemoveAndToggle(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)

	toggled, err := svc.ToggleActive(context.Background(), created.Key())
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	toggled, err = svc.ToggleActive(context.Background(), created.Key())
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	removed, err := svc.Remove(context.Background(), created.Key())
	require.NoError(t, err)
	assert.Equal(t, created.Key(), removed.Key())
	assert.Empty(t, repo.rows)

	_, err = svc.Remove(context.Background(), created.Key())
	assert.True(t, appErrors.IsNotFound(err))
}

func TestAssignmentWriteErrorsUseOperationMessages(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo)
	created, err := svc.Create(context.Background(), assignmentRequest())
	require.NoError(t, err)

	repo.writeErr = fmt.Errorf("delete assignment: %w", repository.ErrForeignKeyViolation)
	_, err = svc.Remove(context.Background(), created.Key())
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, msgAssignmentInUse, appErrors.FromError(err).Message)

	repo.writeErr = fmt.Errorf("update assignment: %w", repository.ErrForeignKeyViolation)
	_, err = svc.Update(context.Background(), created.Key(), dto.UpdateStudentTeacherSubjectRequest{GradeID: int64Ptr(5)})
	require.Error(t, err)
	assert.Equal(t, msgAssignmentDangling, appErrors.FromError(err).Message)

	repo.writeErr = errors.New("connection reset")
	_, err = svc.ToggleActive(context.Background(), created.Key())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.NotEqual(t, msgAssignmentCollision, appErr.Message)
	assert.Contains(t, repo.rows, created.Key())
}
