package models

import "time"

// Grade is a school grade level (e.g. "5th grade").
type Grade struct {
	GradeID          int64     `db:"grade_id" json:"gradeId"`
	GradeLevel       string    `db:"grade_level" json:"gradeLevel"`
	GradeDescription *string   `db:"grade_description" json:"gradeDescription,omitempty"`
	GradeStatus      bool      `db:"grade_status" json:"gradeStatus"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive reports the grade status flag.
func (g Grade) IsActive() bool { return g.GradeStatus }
