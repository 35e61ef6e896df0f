package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeRecordSummaryByPeriod(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRecordRepository(db, nil)

	period := "2024-I"
	mock.ExpectQuery(regexp.QuoteMeta("FROM grade_records WHERE academic_period = $1")).
		WithArgs(period).
		WillReturnRows(sqlmock.NewRows([]string{"count", "average", "minimum", "maximum"}).AddRow(3, 80.0, 70.0, 90.0))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY gr.grade_id, g.grade_level ORDER BY gr.grade_id")).
		WithArgs(period).
		WillReturnRows(sqlmock.NewRows([]string{"grade_id", "grade_level", "count", "average"}).AddRow(1, "1st grade", 3, 80.0))

	summary, err := repo.Summary(context.Background(), &period)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	require.NotNil(t, summary.Average)
	assert.InDelta(t, 80.0, *summary.Average, 0.001)

	dist, err := repo.DistributionByGrade(context.Background(), &period)
	require.NoError(t, err)
	require.Len(t, dist, 1)
	assert.Equal(t, "1st grade", dist[0].GradeLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordSummaryEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRecordRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("MAX(score)::float8 AS maximum FROM grade_records")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"count", "average", "minimum", "maximum"}).AddRow(0, nil, nil, nil))

	summary, err := repo.Summary(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Nil(t, summary.Average)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordSummaryBySubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRecordRepository(db, nil)

	period := "2024-I"
	columns := []string{"subject_id", "subject_name", "count", "average", "minimum", "maximum"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE gr.student_id = $1 AND gr.academic_period = $2 GROUP BY gr.subject_id, s.subject_name ORDER BY gr.subject_id")).
		WithArgs(int64(4), period).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "Mathematics", 2, 85.0, 80.0, 90.0).
			AddRow(3, "History", 1, 60.0, 60.0, 60.0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE gr.student_id = $1 GROUP BY gr.subject_id")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns))

	rows, err := repo.SummaryBySubject(context.Background(), 4, &period)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].SubjectID)
	assert.Equal(t, 2, rows[0].Count)
	require.NotNil(t, rows[0].Maximum)
	assert.InDelta(t, 90.0, *rows[0].Maximum, 0.001)

	rows, err = repo.SummaryBySubject(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
