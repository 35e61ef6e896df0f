package models

import (
	"fmt"
	"time"
)

// AssignmentKey identifies a student-teacher-subject assignment. All four
// parts are required; the struct is comparable and usable as a map key.
type AssignmentKey struct {
	StudentID      int64  `json:"studentId" form:"studentId" validate:"required,gt=0"`
	TeacherID      int64  `json:"teacherId" form:"teacherId" validate:"required,gt=0"`
	SubjectID      int64  `json:"subjectId" form:"subjectId" validate:"required,gt=0"`
	AcademicPeriod string `json:"academicPeriod" form:"academicPeriod" validate:"required,notblank,max=50"`
}

func (k AssignmentKey) String() string {
	return fmt.Sprintf("student=%d teacher=%d subject=%d period=%s", k.StudentID, k.TeacherID, k.SubjectID, k.AcademicPeriod)
}

// StudentTeacherSubject assigns a student to a teacher for a subject during
// an academic period.
type StudentTeacherSubject struct {
	StudentID      int64     `db:"student_id" json:"studentId"`
	TeacherID      int64     `db:"teacher_id" json:"teacherId"`
	SubjectID      int64     `db:"subject_id" json:"subjectId"`
	AcademicPeriod string    `db:"academic_period" json:"academicPeriod"`
	GradeID        int64     `db:"grade_id" json:"gradeId"`
	AssignmentDate time.Time `db:"assignment_date" json:"assignmentDate"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	StudentName string `db:"student_name" json:"studentName"`
	TeacherName string `db:"teacher_name" json:"teacherName"`
	SubjectName string `db:"subject_name" json:"subjectName"`
	GradeLevel  string `db:"grade_level" json:"gradeLevel"`
}

// Key returns the composite identity of the assignment.
func (a StudentTeacherSubject) Key() AssignmentKey {
	return AssignmentKey{
		StudentID:      a.StudentID,
		TeacherID:      a.TeacherID,
		SubjectID:      a.SubjectID,
		AcademicPeriod: a.AcademicPeriod,
	}
}

// AssignmentFilter narrows assignment listings. Nil fields are ignored.
type AssignmentFilter struct {
	StudentID      *int64
	TeacherID      *int64
	SubjectID      *int64
	GradeID        *int64
	AcademicPeriod *string
	IsActive       *bool
}

// AssignmentOrder names one of the supported listing orders.
type AssignmentOrder string

const (
	OrderAssignmentsDefault   AssignmentOrder = "default"
	OrderAssignmentsByStudent AssignmentOrder = "student"
	OrderAssignmentsByTeacher AssignmentOrder = "teacher"
	OrderAssignmentsBySubject AssignmentOrder = "subject"
	OrderAssignmentsByGrade   AssignmentOrder = "grade"
)
