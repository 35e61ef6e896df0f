package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

const assignmentSelect = `SELECT t.student_id, t.teacher_id, t.subject_id, t.academic_period, t.grade_id,
t.assignment_date, t.is_active, t.created_at, t.updated_at,
su.first_name || ' ' || su.first_last_name AS student_name,
tu.first_name || ' ' || tu.first_last_name AS teacher_name,
sub.subject_name AS subject_name,
g.grade_level AS grade_level
FROM student_teacher_subjects t
JOIN students s ON s.student_id = t.student_id
JOIN users su ON su.user_id = s.user_id
JOIN teachers te ON te.teacher_id = t.teacher_id
JOIN users tu ON tu.user_id = te.user_id
JOIN subjects sub ON sub.subject_id = t.subject_id
JOIN grades g ON g.grade_id = t.grade_id`

const assignmentKeyOrder = "t.student_id ASC, t.teacher_id ASC, t.subject_id ASC, t.academic_period ASC"

var assignmentOrders = map[models.AssignmentOrder]string{
	models.OrderAssignmentsDefault:   "t.grade_id ASC, su.first_name ASC, tu.first_last_name ASC, sub.subject_name ASC",
	models.OrderAssignmentsByStudent: "sub.subject_name ASC, t.academic_period ASC",
	models.OrderAssignmentsByTeacher: "t.grade_id ASC, su.first_name ASC, sub.subject_name ASC",
	models.OrderAssignmentsBySubject: "t.grade_id ASC, su.first_name ASC, tu.first_last_name ASC",
	models.OrderAssignmentsByGrade:   "su.first_name ASC, sub.subject_name ASC, t.academic_period ASC",
}

var assignmentColumns = map[string]struct{}{
	"student_id": {}, "teacher_id": {}, "subject_id": {}, "academic_period": {},
	"grade_id": {}, "assignment_date": {}, "is_active": {},
}

// StudentTeacherSubjectRepository persists assignments keyed by
// (student, teacher, subject, academic period).
type StudentTeacherSubjectRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewStudentTeacherSubjectRepository constructs the repository. observer may
// be nil.
func NewStudentTeacherSubjectRepository(db *sqlx.DB, observer QueryObserver) *StudentTeacherSubjectRepository {
	return &StudentTeacherSubjectRepository{db: db, observer: observer}
}

// Get returns the assignment stored under key, or sql.ErrNoRows.
func (r *StudentTeacherSubjectRepository) Get(ctx context.Context, key models.AssignmentKey) (*models.StudentTeacherSubject, error) {
	defer r.observe("get", time.Now())

	query := assignmentSelect + `
WHERE t.student_id = $1 AND t.teacher_id = $2 AND t.subject_id = $3 AND t.academic_period = $4`

	var assignment models.StudentTeacherSubject
	if err := r.db.GetContext(ctx, &assignment, query, key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get assignment %s: %w", key, err)
	}
	return &assignment, nil
}

// List returns assignments matching filter sorted by the named order.
func (r *StudentTeacherSubjectRepository) List(ctx context.Context, filter models.AssignmentFilter, order models.AssignmentOrder) ([]models.StudentTeacherSubject, error) {
	defer r.observe("list", time.Now())

	var conditions []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", column, len(args)))
	}
	if filter.StudentID != nil {
		add("student_id", *filter.StudentID)
	}
	if filter.TeacherID != nil {
		add("teacher_id", *filter.TeacherID)
	}
	if filter.SubjectID != nil {
		add("subject_id", *filter.SubjectID)
	}
	if filter.GradeID != nil {
		add("grade_id", *filter.GradeID)
	}
	if filter.AcademicPeriod != nil {
		add("academic_period", *filter.AcademicPeriod)
	}
	if filter.IsActive != nil {
		add("is_active", *filter.IsActive)
	}

	orderBy, ok := assignmentOrders[order]
	if !ok {
		orderBy = assignmentOrders[models.OrderAssignmentsDefault]
	}

	query := assignmentSelect
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY " + orderBy + ", " + assignmentKeyOrder

	assignments := make([]models.StudentTeacherSubject, 0)
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// Create inserts a new assignment. A key collision is returned as
// *UniqueViolationError.
func (r *StudentTeacherSubjectRepository) Create(ctx context.Context, values Values) error {
	defer r.observe("create", time.Now())

	keys, err := assignmentKeys(values)
	if err != nil {
		return err
	}
	placeholders := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[key]
	}

	query := fmt.Sprintf("INSERT INTO student_teacher_subjects (%s) VALUES (%s)", strings.Join(keys, ", "), strings.Join(placeholders, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create assignment: %w", translateError(err))
	}
	return nil
}

// Update rewrites the assignment stored under key. Values may change key
// columns, moving the row to a new key.
func (r *StudentTeacherSubjectRepository) Update(ctx context.Context, key models.AssignmentKey, values Values) error {
	defer r.observe("update", time.Now())

	keys, err := assignmentKeys(values)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+4)
	for _, column := range keys {
		args = append(args, values[column])
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	n := len(args)
	args = append(args, key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod)

	query := fmt.Sprintf("UPDATE student_teacher_subjects SET %s WHERE student_id = $%d AND teacher_id = $%d AND subject_id = $%d AND academic_period = $%d",
		strings.Join(sets, ", "), n+1, n+2, n+3, n+4)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update assignment %s: %w", key, translateError(err))
	}
	return nil
}

// Delete removes the assignment stored under key.
func (r *StudentTeacherSubjectRepository) Delete(ctx context.Context, key models.AssignmentKey) error {
	defer r.observe("delete", time.Now())

	const query = `DELETE FROM student_teacher_subjects WHERE student_id = $1 AND teacher_id = $2 AND subject_id = $3 AND academic_period = $4`
	if _, err := r.db.ExecContext(ctx, query, key.StudentID, key.TeacherID, key.SubjectID, key.AcademicPeriod); err != nil {
		return fmt.Errorf("delete assignment %s: %w", key, translateError(err))
	}
	return nil
}

func assignmentKeys(values Values) ([]string, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := assignmentColumns[key]; !ok {
			return nil, fmt.Errorf("%w: student_teacher_subjects.%s", ErrUnknownColumn, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *StudentTeacherSubjectRepository) observe(op string, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveDBQuery("student_teacher_subjects."+op, time.Since(start))
}
