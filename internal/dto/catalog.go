package dto

import (
	"strings"

	"github.com/noah-isme/school-records-api/internal/repository"
)

// CreateRoleRequest is the payload for POST /roles.
type CreateRoleRequest struct {
	RoleName   string `json:"roleName" validate:"required,notblank,max=50"`
	RoleStatus *bool  `json:"roleStatus"`
}

// Changes maps the payload to role columns. Status defaults to active.
func (r CreateRoleRequest) Changes() (repository.Values, error) {
	return repository.Values{
		"role_name":   strings.TrimSpace(r.RoleName),
		"role_status": boolOr(r.RoleStatus, true),
	}, nil
}

// UpdateRoleRequest is the payload for PATCH /roles/:id.
type UpdateRoleRequest struct {
	RoleName   *string `json:"roleName" validate:"omitempty,notblank,max=50"`
	RoleStatus *bool   `json:"roleStatus"`
}

// Changes returns only the fields present in the payload.
func (r UpdateRoleRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setTrimmed(values, "role_name", r.RoleName)
	setIf(values, "role_status", r.RoleStatus)
	return values, nil
}

// CreateGradeRequest is the payload for POST /grades.
type CreateGradeRequest struct {
	GradeLevel       string  `json:"gradeLevel" validate:"required,notblank,max=50"`
	GradeDescription *string `json:"gradeDescription" validate:"omitempty,max=255"`
	GradeStatus      *bool   `json:"gradeStatus"`
}

// Changes maps the payload to grade columns. Status defaults to active.
func (r CreateGradeRequest) Changes() (repository.Values, error) {
	values := repository.Values{
		"grade_level":  strings.TrimSpace(r.GradeLevel),
		"grade_status": boolOr(r.GradeStatus, true),
	}
	setIf(values, "grade_description", r.GradeDescription)
	return values, nil
}

// UpdateGradeRequest is the payload for PATCH /grades/:id.
type UpdateGradeRequest struct {
	GradeLevel       *string `json:"gradeLevel" validate:"omitempty,notblank,max=50"`
	GradeDescription *string `json:"gradeDescription" validate:"omitempty,max=255"`
	GradeStatus      *bool   `json:"gradeStatus"`
}

// Changes returns only the fields present in the payload.
func (r UpdateGradeRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setTrimmed(values, "grade_level", r.GradeLevel)
	setIf(values, "grade_description", r.GradeDescription)
	setIf(values, "grade_status", r.GradeStatus)
	return values, nil
}

// CreateSubjectRequest is the payload for POST /subjects.
type CreateSubjectRequest struct {
	SubjectName        string  `json:"subjectName" validate:"required,notblank,max=100"`
	SubjectDescription *string `json:"subjectDescription" validate:"omitempty,max=255"`
	SubjectStatus      *bool   `json:"subjectStatus"`
}

// Changes maps the payload to subject columns. Status defaults to active.
func (r CreateSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{
		"subject_name":   strings.TrimSpace(r.SubjectName),
		"subject_status": boolOr(r.SubjectStatus, true),
	}
	setIf(values, "subject_description", r.SubjectDescription)
	return values, nil
}

// UpdateSubjectRequest is the payload for PATCH /subjects/:id.
type UpdateSubjectRequest struct {
	SubjectName        *string `json:"subjectName" validate:"omitempty,notblank,max=100"`
	SubjectDescription *string `json:"subjectDescription" validate:"omitempty,max=255"`
	SubjectStatus      *bool   `json:"subjectStatus"`
}

// Changes returns only the fields present in the payload.
func (r UpdateSubjectRequest) Changes() (repository.Values, error) {
	values := repository.Values{}
	setTrimmed(values, "subject_name", r.SubjectName)
	setIf(values, "subject_description", r.SubjectDescription)
	setIf(values, "subject_status", r.SubjectStatus)
	return values, nil
}
