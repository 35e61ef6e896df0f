package models

import "time"

// Role is an access role granted to users (e.g. Administrator, Teacher).
type Role struct {
	RoleID     int64     `db:"role_id" json:"roleId"`
	RoleName   string    `db:"role_name" json:"roleName"`
	RoleStatus bool      `db:"role_status" json:"roleStatus"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive reports the role status flag.
func (r Role) IsActive() bool { return r.RoleStatus }
