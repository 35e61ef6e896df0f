package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

// GradeRecordRepository persists grade records and computes score
// aggregates.
type GradeRecordRepository struct {
	*EntityRepository[models.GradeRecord]
}

// NewGradeRecordRepository constructs the repository.
func NewGradeRecordRepository(db *sqlx.DB, observer QueryObserver) *GradeRecordRepository {
	return &GradeRecordRepository{EntityRepository: NewEntityRepository[models.GradeRecord](db, GradeRecords, observer)}
}

// Summary aggregates scores over all records, or over one academic period
// when period is set.
func (r *GradeRecordRepository) Summary(ctx context.Context, period *string) (models.GradeRecordSummary, error) {
	defer r.observe("summary", time.Now())

	query := `SELECT COUNT(*) AS count, AVG(score)::float8 AS average, MIN(score)::float8 AS minimum, MAX(score)::float8 AS maximum FROM grade_records`
	var args []interface{}
	if period != nil {
		query += ` WHERE academic_period = $1`
		args = append(args, *period)
	}

	var summary models.GradeRecordSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		return models.GradeRecordSummary{}, fmt.Errorf("summarise grade records: %w", err)
	}
	return summary, nil
}

// DistributionByGrade returns count and average per grade, ordered by grade.
func (r *GradeRecordRepository) DistributionByGrade(ctx context.Context, period *string) ([]models.GradeDistribution, error) {
	defer r.observe("distribution", time.Now())

	query := `SELECT gr.grade_id, g.grade_level, COUNT(*) AS count, AVG(gr.score)::float8 AS average
FROM grade_records gr
JOIN grades g ON g.grade_id = gr.grade_id`
	var args []interface{}
	if period != nil {
		query += ` WHERE gr.academic_period = $1`
		args = append(args, *period)
	}
	query += ` GROUP BY gr.grade_id, g.grade_level ORDER BY gr.grade_id`

	rows := make([]models.GradeDistribution, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("grade record distribution: %w", err)
	}
	return rows, nil
}

// SummaryBySubject aggregates a student's scores per subject, ordered by
// subject. period narrows the records to one academic period when set.
func (r *GradeRecordRepository) SummaryBySubject(ctx context.Context, studentID int64, period *string) ([]models.SubjectScoreSummary, error) {
	defer r.observe("summary_by_subject", time.Now())

	query := `SELECT gr.subject_id, s.subject_name, COUNT(*) AS count, AVG(gr.score)::float8 AS average, MIN(gr.score)::float8 AS minimum, MAX(gr.score)::float8 AS maximum
FROM grade_records gr
JOIN subjects s ON s.subject_id = gr.subject_id
WHERE gr.student_id = $1`
	args := []interface{}{studentID}
	if period != nil {
		query += ` AND gr.academic_period = $2`
		args = append(args, *period)
	}
	query += ` GROUP BY gr.subject_id, s.subject_name ORDER BY gr.subject_id`

	rows := make([]models.SubjectScoreSummary, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("grade record summary of student %d: %w", studentID, err)
	}
	return rows, nil
}
