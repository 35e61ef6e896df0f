package models

import "time"

// Student links a user account to the grade they are enrolled in.
type Student struct {
	StudentID int64     `db:"student_id" json:"studentId"`
	UserID    int64     `db:"user_id" json:"userId"`
	GradeID   int64     `db:"grade_id" json:"gradeId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	User  *User  `db:"user" json:"user,omitempty"`
	Grade *Grade `db:"grade" json:"grade,omitempty"`
}
