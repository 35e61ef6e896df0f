package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
)

var assignmentRowColumns = []string{
	"student_id", "teacher_id", "subject_id", "academic_period", "grade_id", "assignment_date", "is_active",
	"created_at", "updated_at", "student_name", "teacher_name", "subject_name", "grade_level",
}

func sampleKey() models.AssignmentKey {
	return models.AssignmentKey{StudentID: 1, TeacherID: 2, SubjectID: 3, AcademicPeriod: "2024-I"}
}

func TestAssignmentGet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	now := time.Now()
	key := sampleKey()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.student_id = $1 AND t.teacher_id = $2 AND t.subject_id = $3 AND t.academic_period = $4")).
		WithArgs(key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns).
			AddRow(1, 2, 3, "2024-I", 4, now, true, now, now, "Ana Rojas", "Luis Perez", "Math", "4th grade"))

	assignment, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, key, assignment.Key())
	assert.Equal(t, "Ana Rojas", assignment.StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentGetMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	mock.ExpectQuery("FROM student_teacher_subjects t").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), sampleKey())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAssignmentListOrders(t *testing.T) {
	cases := []struct {
		name    string
		filter  models.AssignmentFilter
		order   models.AssignmentOrder
		pattern string
		args    []driver.Value
	}{
		{
			name:    "by student",
			filter:  models.AssignmentFilter{StudentID: int64Ptr(1)},
			order:   models.OrderAssignmentsByStudent,
			pattern: "WHERE t.student_id = $1\nORDER BY sub.subject_name ASC, t.academic_period ASC, t.student_id ASC",
			args:    []driver.Value{int64(1)},
		},
		{
			name:    "by teacher",
			filter:  models.AssignmentFilter{TeacherID: int64Ptr(2)},
			order:   models.OrderAssignmentsByTeacher,
			pattern: "WHERE t.teacher_id = $1\nORDER BY t.grade_id ASC, su.first_name ASC, sub.subject_name ASC",
			args:    []driver.Value{int64(2)},
		},
		{
			name:    "active default order",
			filter:  models.AssignmentFilter{IsActive: boolPtr(true)},
			order:   models.OrderAssignmentsDefault,
			pattern: "WHERE t.is_active = $1\nORDER BY t.grade_id ASC, su.first_name ASC, tu.first_last_name ASC, sub.subject_name ASC",
			args:    []driver.Value{true},
		},
		{
			name:    "unknown order falls back",
			order:   models.AssignmentOrder("nope"),
			pattern: "JOIN grades g ON g.grade_id = t.grade_id\nORDER BY t.grade_id ASC, su.first_name ASC, tu.first_last_name ASC",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newMock(t)
			defer cleanup()
			repo := NewStudentTeacherSubjectRepository(db, nil)

			expect := mock.ExpectQuery(regexp.QuoteMeta(tc.pattern))
			if len(tc.args) > 0 {
				expect = expect.WithArgs(tc.args...)
			}
			expect.WillReturnRows(sqlmock.NewRows(assignmentRowColumns))

			items, err := repo.List(context.Background(), tc.filter, tc.order)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAssignmentCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_teacher_subjects (academic_period, student_id) VALUES ($1, $2)")).
		WithArgs("2024-I", int64(1)).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "student_teacher_subjects_pkey",
			Detail:         "Key (student_id, teacher_id, subject_id, academic_period)=(1, 2, 3, 2024-I) already exists.",
		})

	err := repo.Create(context.Background(), Values{"student_id": int64(1), "academic_period": "2024-I"})
	uv, ok := AsUniqueViolation(err)
	require.True(t, ok)
	assert.Equal(t, "student_teacher_subjects_pkey", uv.Constraint)
	assert.Len(t, uv.Fields, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentUpdateByKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	key := sampleKey()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_teacher_subjects SET is_active = $1, updated_at = NOW() WHERE student_id = $2 AND teacher_id = $3 AND subject_id = $4 AND academic_period = $5")).
		WithArgs(false, key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), key, Values{"is_active": false}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	key := sampleKey()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_teacher_subjects WHERE student_id = $1")).
		WithArgs(key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), key))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRejectsUnknownColumn(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentTeacherSubjectRepository(db, nil)

	err := repo.Update(context.Background(), sampleKey(), Values{"created_at": time.Now()})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool     { return &v }
