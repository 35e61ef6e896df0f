package models

import "time"

// Subject is a course taught across grades.
type Subject struct {
	SubjectID          int64     `db:"subject_id" json:"subjectId"`
	SubjectName        string    `db:"subject_name" json:"subjectName"`
	SubjectDescription *string   `db:"subject_description" json:"subjectDescription,omitempty"`
	SubjectStatus      bool      `db:"subject_status" json:"subjectStatus"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive reports the subject status flag.
func (s Subject) IsActive() bool { return s.SubjectStatus }
