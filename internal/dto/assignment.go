package dto

import (
	"strings"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
)

// CreateTeacherSubjectRequest is the payload for POST /teacher-subjects.
type CreateTeacherSubjectRequest struct {
	TeacherID int64 `json:"teacherId" validate:"required,gt=0"`
	SubjectID int64 `json:"subjectId" validate:"required,gt=0"`
}

// Changes maps the payload to link columns.
func (r CreateTeacherSubjectRequest) Changes() (repository.Values, error) {
	return repository.Values{"teacher_id": r.TeacherID, "subject_id": r.SubjectID}, nil
}

// UpdateTeacherSubjectRequest is the payload for PATCH /teacher-subjects/:id.
type UpdateTeacherSubjectRequest struct {
	TeacherID *int64 `json:"teacherId" validate:"omitempty,gt=0"`
	SubjectID *int64 `json:"subjectId" validate:"omitempty,gt=0"`
}

// Changes returns only the fields present in the payload.
func (r UpdateTeacherSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "teacher_id", r.TeacherID)
	setIf(values, "subject_id", r.SubjectID)
	return values, nil
}

// CreateTeacherGradeRequest is the payload for POST /teacher-grades.
type CreateTeacherGradeRequest struct {
	TeacherID int64 `json:"teacherId" validate:"required,gt=0"`
	GradeID   int64 `json:"gradeId" validate:"required,gt=0"`
}

// Changes maps the payload to link columns.
func (r CreateTeacherGradeRequest) Changes() (repository.Values, error) {
	return repository.Values{"teacher_id": r.TeacherID, "grade_id": r.GradeID}, nil
}

// UpdateTeacherGradeRequest is the payload for PATCH /teacher-grades/:id.
type UpdateTeacherGradeRequest struct {
	TeacherID *int64 `json:"teacherId" validate:"omitempty,gt=0"`
	GradeID   *int64 `json:"gradeId" validate:"omitempty,gt=0"`
}

// Changes returns only the fields present in the payload.
func (r UpdateTeacherGradeRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "teacher_id", r.TeacherID)
	setIf(values, "grade_id", r.GradeID)
	return values, nil
}

// CreateGradeSubjectRequest is the payload for POST /grade-subjects.
type CreateGradeSubjectRequest struct {
	GradeID   int64 `json:"gradeId" validate:"required,gt=0"`
	SubjectID int64 `json:"subjectId" validate:"required,gt=0"`
}

// Changes maps the payload to link columns.
func (r CreateGradeSubjectRequest) Changes() (repository.Values, error) {
	return repository.Values{"grade_id": r.GradeID, "subject_id": r.SubjectID}, nil
}

// UpdateGradeSubjectRequest is the payload for PATCH /grade-subjects/:id.
type UpdateGradeSubjectRequest struct {
	GradeID   *int64 `json:"gradeId" validate:"omitempty,gt=0"`
	SubjectID *int64 `json:"subjectId" validate:"omitempty,gt=0"`
}

// Changes returns only the fields present in the payload.
func (r UpdateGradeSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "grade_id", r.GradeID)
	setIf(values, "subject_id", r.SubjectID)
	return values, nil
}

// CreateStudentTeacherSubjectRequest is the payload for
// POST /student-teacher-subjects.
type CreateStudentTeacherSubjectRequest struct {
	StudentID      int64   `json:"studentId" validate:"required,gt=0"`
	TeacherID      int64   `json:"teacherId" validate:"required,gt=0"`
	SubjectID      int64   `json:"subjectId" validate:"required,gt=0"`
	GradeID        int64   `json:"gradeId" validate:"required,gt=0"`
	AcademicPeriod string  `json:"academicPeriod" validate:"required,notblank,max=50"`
	AssignmentDate *string `json:"assignmentDate"`
	IsActive       *bool   `json:"isActive"`
}

// Key returns the composite key the payload would be stored under.
func (r CreateStudentTeacherSubjectRequest) Key() models.AssignmentKey {
	return models.AssignmentKey{
		StudentID:      r.StudentID,
		TeacherID:      r.TeacherID,
		SubjectID:      r.SubjectID,
		AcademicPeriod: strings.TrimSpace(r.AcademicPeriod),
	}
}

// Changes maps the payload to assignment columns. Defaults for the
// assignment date and active flag are applied by the service.
func (r CreateStudentTeacherSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{
		"student_id":      r.StudentID,
		"teacher_id":      r.TeacherID,
		"subject_id":      r.SubjectID,
		"grade_id":        r.GradeID,
		"academic_period": strings.TrimSpace(r.AcademicPeriod),
	}
	setIf(values, "is_active", r.IsActive)
	if err := setDate(values, "assignment_date", "assignmentDate", r.AssignmentDate); err != nil {
		return nil, err
	}
	return values, nil
}

// UpdateStudentTeacherSubjectRequest is the payload for
// PATCH /student-teacher-subjects/update. Key fields may be changed, moving
// the assignment to a new key.
type UpdateStudentTeacherSubjectRequest struct {
	StudentID      *int64  `json:"studentId" validate:"omitempty,gt=0"`
	TeacherID      *int64  `json:"teacherId" validate:"omitempty,gt=0"`
	SubjectID      *int64  `json:"subjectId" validate:"omitempty,gt=0"`
	GradeID        *int64  `json:"gradeId" validate:"omitempty,gt=0"`
	AcademicPeriod *string `json:"academicPeriod" validate:"omitempty,notblank,max=50"`
	AssignmentDate *string `json:"assignmentDate"`
	IsActive       *bool   `json:"isActive"`
}

// Changes returns only the fields present in the payload.
func (r UpdateStudentTeacherSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "student_id", r.StudentID)
	setIf(values, "teacher_id", r.TeacherID)
	setIf(values, "subject_id", r.SubjectID)
	setIf(values, "grade_id", r.GradeID)
	setTrimmed(values, "academic_period", r.AcademicPeriod)
	setIf(values, "is_active", r.IsActive)
	if err := setDate(values, "assignment_date", "assignmentDate", r.AssignmentDate); err != nil {
		return nil, err
	}
	return values, nil
}

// ApplyTo returns the key the assignment will have after the update.
func (r UpdateStudentTeacherSubjectRequest) ApplyTo(key models.AssignmentKey) models.AssignmentKey {
	if r.StudentID != nil {
		key.StudentID = *r.StudentID
	}
	if r.TeacherID != nil {
		key.TeacherID = *r.TeacherID
	}
	if r.SubjectID != nil {
		key.SubjectID = *r.SubjectID
	}
	if r.AcademicPeriod != nil {
		key.AcademicPeriod = strings.TrimSpace(*r.AcademicPeriod)
	}
	return key
}
