package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

// mockStudentRepo keeps students in memory; user_id is unique.
type mockStudentRepo struct {
	students map[int64]*models.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: map[int64]*models.Student{}}
}

func (m *mockStudentRepo) Entity() string { return "Student" }

func (m *mockStudentRepo) Get(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *s
	return &copy, nil
}

func (m *mockStudentRepo) List(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		if id, ok := filter["grade_id"]; ok && id != s.GradeID {
			continue
		}
		if id, ok := filter["user_id"]; ok && id != s.UserID {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (m *mockStudentRepo) Insert(ctx context.Context, values repository.Values) (int64, error) {
	userID := values["user_id"].(int64)
	for _, s := range m.students {
		if s.UserID == userID {
			return 0, &repository.UniqueViolationError{Constraint: "students_user_id_key", Fields: []string{"user_id"}}
		}
	}
	m.nextID++
	m.students[m.nextID] = &models.Student{StudentID: m.nextID, UserID: userID, GradeID: values["grade_id"].(int64)}
	return m.nextID, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, id int64, values repository.Values) error {
	if gradeID, ok := values["grade_id"].(int64); ok {
		m.students[id].GradeID = gradeID
	}
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.students, id)
	return nil
}

func TestStudentServiceCreateChecksParents(t *testing.T) {
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, existing(100), existing(5), validation.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{UserID: 101, GradeID: 6})
	require.Error(t, err)
	assert.Equal(t, "User with ID 101 not found", appErrors.FromError(err).Message)

	student, err := svc.Create(context.Background(), dto.CreateStudentRequest{UserID: 100, GradeID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(5), student.GradeID)

	_, err = svc.Create(context.Background(), dto.CreateStudentRequest{UserID: 100, GradeID: 5})
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "Student with the same userId already exists", appErrors.FromError(err).Message)
}

func TestStudentServiceFindByGradeAndUser(t *testing.T) {
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, existing(100, 200), existing(5, 6), validation.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{UserID: 100, GradeID: 5})
	require.NoError(t, err)

	students, err := svc.FindByGrade(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	_, err = svc.FindByGrade(context.Background(), 7)
	assert.Equal(t, "Grade with ID 7 not found", appErrors.FromError(err).Message)

	student, err := svc.FindByUser(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), student.UserID)

	_, err = svc.FindByUser(context.Background(), 200)
	require.Error(t, err)
	assert.Equal(t, "Student for user ID 200 not found", appErrors.FromError(err).Message)
}

func TestStudentServiceUpdateChecksGrade(t *testing.T) {
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, existing(100), existing(5, 6), validation.New(), zap.NewNop())
	student, err := svc.Create(context.Background(), dto.CreateStudentRequest{UserID: 100, GradeID: 5})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), student.StudentID, dto.UpdateStudentRequest{GradeID: int64Ptr(9)})
	assert.Equal(t, "Grade with ID 9 not found", appErrors.FromError(err).Message)

	updated, err := svc.Update(context.Background(), student.StudentID, dto.UpdateStudentRequest{GradeID: int64Ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated.GradeID)
}
