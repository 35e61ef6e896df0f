package models

import "time"

// TeacherSubject records that a teacher is qualified to teach a subject.
type TeacherSubject struct {
	TeacherSubjectID int64     `db:"teacher_subject_id" json:"teacherSubjectId"`
	TeacherID        int64     `db:"teacher_id" json:"teacherId"`
	SubjectID        int64     `db:"subject_id" json:"subjectId"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`

	Teacher *Teacher `db:"teacher" json:"teacher,omitempty"`
	Subject *Subject `db:"subject" json:"subject,omitempty"`
}

// TeacherGrade records that a teacher works with a grade.
type TeacherGrade struct {
	TeacherGradeID int64     `db:"teacher_grade_id" json:"teacherGradeId"`
	TeacherID      int64     `db:"teacher_id" json:"teacherId"`
	GradeID        int64     `db:"grade_id" json:"gradeId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Teacher *Teacher `db:"teacher" json:"teacher,omitempty"`
	Grade   *Grade   `db:"grade" json:"grade,omitempty"`
}

// GradeSubject records that a subject is part of a grade's curriculum.
type GradeSubject struct {
	GradeSubjectID int64     `db:"grade_subject_id" json:"gradeSubjectId"`
	GradeID        int64     `db:"grade_id" json:"gradeId"`
	SubjectID      int64     `db:"subject_id" json:"subjectId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Grade   *Grade   `db:"grade" json:"grade,omitempty"`
	Subject *Subject `db:"subject" json:"subject,omitempty"`
}
