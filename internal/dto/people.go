package dto

import (
	"strings"

	"github.com/noah-isme/school-records-api/internal/repository"
)

// CreateUserRequest is the payload for POST /users. The password is hashed
// by the service and never mapped to a column directly.
type CreateUserRequest struct {
	UserFirstName      string  `json:"userFirstName" validate:"required,notblank,max=50"`
	UserSecondName     *string `json:"userSecondName" validate:"omitempty,max=50"`
	UserFirstLastName  string  `json:"userFirstLastName" validate:"required,notblank,max=50"`
	UserSecondLastName *string `json:"userSecondLastName" validate:"omitempty,max=50"`
	UserEmail          string  `json:"userEmail" validate:"required,email,max=100"`
	UserCI             int64   `json:"userCI" validate:"required,gt=0"`
	UserPassword       string  `json:"userPassword" validate:"required,min=6,max=72"`
	UserDateOfBirth    string  `json:"userDateOfBirth" validate:"required"`
	UserAddress        *string `json:"userAddress" validate:"omitempty,max=255"`
	UserPhoneNumber    *string `json:"userPhoneNumber" validate:"omitempty,max=20"`
	UserRoleID         int64   `json:"userRoleId" validate:"required,gt=0"`
	UserStatus         *bool   `json:"userStatus"`
}

// Changes maps the payload to user columns, parsing the date of birth.
func (r CreateUserRequest) Changes() (repository.Values, error) {
	values := repository.Values{
		"first_name":      strings.TrimSpace(r.UserFirstName),
		"first_last_name": strings.TrimSpace(r.UserFirstLastName),
		"email":           strings.ToLower(strings.TrimSpace(r.UserEmail)),
		"ci":              r.UserCI,
		"role_id":         r.UserRoleID,
		"user_status":     boolOr(r.UserStatus, true),
	}
	setTrimmed(values, "second_name", r.UserSecondName)
	setTrimmed(values, "second_last_name", r.UserSecondLastName)
	setIf(values, "address", r.UserAddress)
	setIf(values, "phone_number", r.UserPhoneNumber)
	if err := setDate(values, "date_of_birth", "userDateOfBirth", &r.UserDateOfBirth); err != nil {
		return nil, err
	}
	return values, nil
}

// UpdateUserRequest is the payload for PATCH /users/:id.
type UpdateUserRequest struct {
	UserFirstName      *string `json:"userFirstName" validate:"omitempty,notblank,max=50"`
	UserSecondName     *string `json:"userSecondName" validate:"omitempty,max=50"`
	UserFirstLastName  *string `json:"userFirstLastName" validate:"omitempty,notblank,max=50"`
	UserSecondLastName *string `json:"userSecondLastName" validate:"omitempty,max=50"`
	UserEmail          *string `json:"userEmail" validate:"omitempty,email,max=100"`
	UserCI             *int64  `json:"userCI" validate:"omitempty,gt=0"`
	UserPassword       *string `json:"userPassword" validate:"omitempty,min=6,max=72"`
	UserDateOfBirth    *string `json:"userDateOfBirth"`
	UserAddress        *string `json:"userAddress" validate:"omitempty,max=255"`
	UserPhoneNumber    *string `json:"userPhoneNumber" validate:"omitempty,max=20"`
	UserRoleID         *int64  `json:"userRoleId" validate:"omitempty,gt=0"`
	UserStatus         *bool   `json:"userStatus"`
}

// Changes returns only the fields present in the payload.
func (r UpdateUserRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setTrimmed(values, "first_name", r.UserFirstName)
	setTrimmed(values, "second_name", r.UserSecondName)
	setTrimmed(values, "first_last_name", r.UserFirstLastName)
	setTrimmed(values, "second_last_name", r.UserSecondLastName)
	if r.UserEmail != nil {
		values["email"] = strings.ToLower(strings.TrimSpace(*r.UserEmail))
	}
	setIf(values, "ci", r.UserCI)
	setIf(values, "address", r.UserAddress)
	setIf(values, "phone_number", r.UserPhoneNumber)
	setIf(values, "role_id", r.UserRoleID)
	setIf(values, "user_status", r.UserStatus)
	if err := setDate(values, "date_of_birth", "userDateOfBirth", r.UserDateOfBirth); err != nil {
		return nil, err
	}
	return values, nil
}

// CreateStudentRequest is the payload for POST /students.
type CreateStudentRequest struct {
	UserID  int64 `json:"userId" validate:"required,gt=0"`
	GradeID int64 `json:"gradeId" validate:"required,gt=0"`
}

// Changes maps the payload to student columns.
func (r CreateStudentRequest) Changes() (repository.Values, error) {
	return repository.Values{"user_id": r.UserID, "grade_id": r.GradeID}, nil
}

// UpdateStudentRequest is the payload for PATCH /students/:id.
type UpdateStudentRequest struct {
	UserID  *int64 `json:"userId" validate:"omitempty,gt=0"`
	GradeID *int64 `json:"gradeId" validate:"omitempty,gt=0"`
}

// Changes returns only the fields present in the payload.
func (r UpdateStudentRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "user_id", r.UserID)
	setIf(values, "grade_id", r.GradeID)
	return values, nil
}

// CreateTeacherRequest is the payload for POST /teachers.
type CreateTeacherRequest struct {
	UserID                 int64  `json:"userId" validate:"required,gt=0"`
	TeacherExperienceYears int    `json:"teacherExperienceYears" validate:"gte=0,lte=80"`
	TeacherLicenseNumber   string `json:"teacherLicenseNumber" validate:"required,notblank,max=50"`
	TeacherHours           int    `json:"teacherHours" validate:"required,gt=0,lte=80"`
}

// Changes maps the payload to teacher columns.
func (r CreateTeacherRequest) Changes() (repository.Values, error) {
	return repository.Values{
		"user_id":          r.UserID,
		"experience_years": r.TeacherExperienceYears,
		"license_number":   strings.TrimSpace(r.TeacherLicenseNumber),
		"weekly_hours":     r.TeacherHours,
	}, nil
}

// UpdateTeacherRequest is the payload for PATCH /teachers/:id. The owning
// user cannot be changed.
type UpdateTeacherRequest struct {
	TeacherExperienceYears *int    `json:"teacherExperienceYears" validate:"omitempty,gte=0,lte=80"`
	TeacherLicenseNumber   *string `json:"teacherLicenseNumber" validate:"omitempty,notblank,max=50"`
	TeacherHours           *int    `json:"teacherHours" validate:"omitempty,gt=0,lte=80"`
}

// Changes returns only the fields present in the payload.
func (r UpdateTeacherRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setIf(values, "experience_years", r.TeacherExperienceYears)
	setTrimmed(values, "license_number", r.TeacherLicenseNumber)
	setIf(values, "weekly_hours", r.TeacherHours)
	return values, nil
}
