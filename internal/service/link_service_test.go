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

// mockTeacherSubjectRepo enforces the unique (teacher_id, subject_id) pair.
type mockTeacherSubjectRepo struct {
	links      map[int64]*models.TeacherSubject
	nextID     int64
	lastFilter repository.Filter
}

func newMockTeacherSubjectRepo() *mockTeacherSubjectRepo {
	return &mockTeacherSubjectRepo{links: map[int64]*models.TeacherSubject{}}
}

func (m *mockTeacherSubjectRepo) Entity() string { return "Teacher subject" }

func (m *mockTeacherSubjectRepo) Get(ctx context.Context, id int64) (*models.TeacherSubject, error) {
	l, ok := m.links[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *l
	return &copy, nil
}

func (m *mockTeacherSubjectRepo) List(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]models.TeacherSubject, error) {
	m.lastFilter = filter
	var out []models.TeacherSubject
	for _, l := range m.links {
		if id, ok := filter["teacher_id"]; ok && id != l.TeacherID {
			continue
		}
		if id, ok := filter["subject_id"]; ok && id != l.SubjectID {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherSubjectID < out[j].TeacherSubjectID })
	return out, nil
}

func (m *mockTeacherSubjectRepo) Insert(ctx context.Context, values repository.Values) (int64, error) {
	teacherID, subjectID := values["teacher_id"].(int64), values["subject_id"].(int64)
	for _, l := range m.links {
		if l.TeacherID == teacherID && l.SubjectID == subjectID {
			return 0, &repository.UniqueViolationError{Constraint: "teacher_subjects_teacher_id_subject_id_key", Fields: []string{"teacher_id", "subject_id"}}
		}
	}
	m.nextID++
	m.links[m.nextID] = &models.TeacherSubject{TeacherSubjectID: m.nextID, TeacherID: teacherID, SubjectID: subjectID}
	return m.nextID, nil
}

func (m *mockTeacherSubjectRepo) Update(ctx context.Context, id int64, values repository.Values) error {
	if subjectID, ok := values["subject_id"].(int64); ok {
		m.links[id].SubjectID = subjectID
	}
	return nil
}

func (m *mockTeacherSubjectRepo) Delete(ctx context.Context, id int64) error {
	delete(m.links, id)
	return nil
}

func TestTeacherSubjectServiceCreateAndDuplicate(t *testing.T) {
	repo := newMockTeacherSubjectRepo()
	svc := NewTeacherSubjectService(repo, existing(10), existing(20, 21), validation.New(), zap.NewNop())

	link, err := svc.Create(context.Background(), dto.CreateTeacherSubjectRequest{TeacherID: 10, SubjectID: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.TeacherSubjectID)

	_, err = svc.Create(context.Background(), dto.CreateTeacherSubjectRequest{TeacherID: 10, SubjectID: 20})
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "Teacher subject with the same teacherId, subjectId already exists", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), dto.CreateTeacherSubjectRequest{TeacherID: 11, SubjectID: 99})
	assert.Equal(t, "Teacher with ID 11 not found", appErrors.FromError(err).Message)
}

func TestTeacherSubjectServiceFilters(t *testing.T) {
	repo := newMockTeacherSubjectRepo()
	svc := NewTeacherSubjectService(repo, existing(10), existing(20, 21), validation.New(), zap.NewNop())
	for _, subjectID := range []int64{20, 21} {
		_, err := svc.Create(context.Background(), dto.CreateTeacherSubjectRequest{TeacherID: 10, SubjectID: subjectID})
		require.NoError(t, err)
	}

	links, err := svc.FindAllFiltered(context.Background(), nil, int64Ptr(21))
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, repository.Filter{"subject_id": int64(21)}, repo.lastFilter)

	links, err = svc.FindByTeacher(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	_, err = svc.FindBySubject(context.Background(), 22)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestPairFilter(t *testing.T) {
	assert.Equal(t, repository.Filter{}, pairFilter("grade_id", nil, "subject_id", nil))
	assert.Equal(t, repository.Filter{"grade_id": int64(1), "subject_id": int64(2)},
		pairFilter("grade_id", int64Ptr(1), "subject_id", int64Ptr(2)))
}
