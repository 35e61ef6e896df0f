package models

import "time"

// Teacher holds the professional profile of a teaching user.
type Teacher struct {
	TeacherID       int64     `db:"teacher_id" json:"teacherId"`
	UserID          int64     `db:"user_id" json:"userId"`
	ExperienceYears int       `db:"experience_years" json:"teacherExperienceYears"`
	LicenseNumber   string    `db:"license_number" json:"teacherLicenseNumber"`
	WeeklyHours     int       `db:"weekly_hours" json:"teacherHours"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`

	User *User `db:"user" json:"user,omitempty"`
}
