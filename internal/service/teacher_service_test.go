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

type mockTeacherRepo struct {
	teachers map[int64]*models.Teacher
	nextID   int64
	lastPage repository.ListOptions
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: map[int64]*models.Teacher{}}
}

func (m *mockTeacherRepo) Entity() string { return "Teacher" }

func (m *mockTeacherRepo) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *t
	return &copy, nil
}

func (m *mockTeacherRepo) List(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		if id, ok := filter["user_id"]; ok && id != t.UserID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherID < out[j].TeacherID })
	return out, nil
}

func (m *mockTeacherRepo) Page(ctx context.Context, opts repository.ListOptions) ([]models.Teacher, int, error) {
	m.lastPage = opts
	out, _ := m.List(ctx, nil)
	return out, len(out), nil
}

func (m *mockTeacherRepo) Insert(ctx context.Context, values repository.Values) (int64, error) {
	license := values["license_number"].(string)
	for _, t := range m.teachers {
		if t.LicenseNumber == license {
			return 0, &repository.UniqueViolationError{Constraint: "teachers_license_number_key", Fields: []string{"license_number"}}
		}
	}
	m.nextID++
	m.teachers[m.nextID] = &models.Teacher{
		TeacherID:       m.nextID,
		UserID:          values["user_id"].(int64),
		ExperienceYears: values["experience_years"].(int),
		LicenseNumber:   license,
		WeeklyHours:     values["weekly_hours"].(int),
	}
	return m.nextID, nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, id int64, values repository.Values) error {
	t := m.teachers[id]
	if hours, ok := values["weekly_hours"].(int); ok {
		t.WeeklyHours = hours
	}
	if years, ok := values["experience_years"].(int); ok {
		t.ExperienceYears = years
	}
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	delete(m.teachers, id)
	return nil
}

func teacherRequest(userID int64, license string) dto.CreateTeacherRequest {
	return dto.CreateTeacherRequest{UserID: userID, TeacherExperienceYears: 4, TeacherLicenseNumber: license, TeacherHours: 30}
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, existing(100, 101), validation.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), teacherRequest(100, "LIC-1"))
	require.NoError(t, err)
	assert.Equal(t, 30, teacher.WeeklyHours)

	_, err = svc.Create(context.Background(), teacherRequest(101, "LIC-1"))
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "Teacher with the same licenseNumber already exists", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), teacherRequest(300, "LIC-2"))
	assert.Equal(t, "User with ID 300 not found", appErrors.FromError(err).Message)
}

func TestTeacherServiceUpdateAndFindByUser(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, existing(100, 101), validation.New(), zap.NewNop())
	teacher, err := svc.Create(context.Background(), teacherRequest(100, "LIC-1"))
	require.NoError(t, err)

	hours := 20
	updated, err := svc.Update(context.Background(), teacher.TeacherID, dto.UpdateTeacherRequest{TeacherHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.WeeklyHours)
	assert.Equal(t, 4, updated.ExperienceYears)

	found, err := svc.FindByUser(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, teacher.TeacherID, found.TeacherID)

	_, err = svc.FindByUser(context.Background(), 101)
	assert.Equal(t, "Teacher for user ID 101 not found", appErrors.FromError(err).Message)
}

func TestTeacherServiceSearch(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, existing(100), validation.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), teacherRequest(100, "LIC-1"))
	require.NoError(t, err)

	teachers, total, err := svc.Search(context.Background(), "LIC", 1, 20)
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "LIC", repo.lastPage.Search)
}
