package models

import (
	"strings"
	"time"
)

// User represents an application user stored in the users table.
type User struct {
	UserID         int64     `db:"user_id" json:"userId"`
	FirstName      string    `db:"first_name" json:"userFirstName"`
	SecondName     *string   `db:"second_name" json:"userSecondName,omitempty"`
	FirstLastName  string    `db:"first_last_name" json:"userFirstLastName"`
	SecondLastName *string   `db:"second_last_name" json:"userSecondLastName,omitempty"`
	Email          string    `db:"email" json:"userEmail"`
	CI             int64     `db:"ci" json:"userCI"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	DateOfBirth    time.Time `db:"date_of_birth" json:"userDateOfBirth"`
	Address        *string   `db:"address" json:"userAddress,omitempty"`
	PhoneNumber    *string   `db:"phone_number" json:"userPhoneNumber,omitempty"`
	RoleID         int64     `db:"role_id" json:"userRoleId"`
	UserStatus     bool      `db:"user_status" json:"userStatus"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Role *Role `db:"role" json:"role,omitempty"`
}

// IsActive reports the user status flag.
func (u User) IsActive() bool { return u.UserStatus }

// FullName joins the given names and surnames that are present.
func (u User) FullName() string {
	parts := []string{u.FirstName}
	if u.SecondName != nil && *u.SecondName != "" {
		parts = append(parts, *u.SecondName)
	}
	parts = append(parts, u.FirstLastName)
	if u.SecondLastName != nil && *u.SecondLastName != "" {
		parts = append(parts, *u.SecondLastName)
	}
	return strings.Join(parts, " ")
}
