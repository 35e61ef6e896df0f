package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
)

// RoleService manages access roles.
type RoleService struct {
	*EntityService[models.Role, dto.CreateRoleRequest, dto.UpdateRoleRequest]
}

// NewRoleService creates a RoleService.
func NewRoleService(store entityStore[models.Role], validate *validator.Validate, logger *zap.Logger) *RoleService {
	return &RoleService{EntityService: NewEntityService[models.Role, dto.CreateRoleRequest, dto.UpdateRoleRequest](store, validate, logger)}
}

// FindAllByStatus lists roles filtered by active, inactive or all.
func (s *RoleService) FindAllByStatus(ctx context.Context, status string) ([]models.Role, error) {
	filter, err := statusFilter("role_status", status)
	if err != nil {
		return nil, err
	}
	return s.FindAll(ctx, filter)
}

// ToggleStatus flips the role status.
func (s *RoleService) ToggleStatus(ctx context.Context, id int64) (*models.Role, error) {
	return toggleStatus(ctx, s.EntityService, id, "role_status")
}

// GradeService manages grade levels.
type GradeService struct {
	*EntityService[models.Grade, dto.CreateGradeRequest, dto.UpdateGradeRequest]
}

// NewGradeService creates a GradeService.
func NewGradeService(store entityStore[models.Grade], validate *validator.Validate, logger *zap.Logger) *GradeService {
	return &GradeService{EntityService: NewEntityService[models.Grade, dto.CreateGradeRequest, dto.UpdateGradeRequest](store, validate, logger)}
}

// FindAllByStatus lists grades filtered by active, inactive or all.
func (s *GradeService) FindAllByStatus(ctx context.Context, status string) ([]models.Grade, error) {
	filter, err := statusFilter("grade_status", status)
	if err != nil {
		return nil, err
	}
	return s.FindAll(ctx, filter)
}

// ToggleStatus flips the grade status.
func (s *GradeService) ToggleStatus(ctx context.Context, id int64) (*models.Grade, error) {
	return toggleStatus(ctx, s.EntityService, id, "grade_status")
}

// SubjectService manages the subject catalog.
type SubjectService struct {
	*EntityService[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest]
}

// NewSubjectService creates a SubjectService.
func NewSubjectService(store entityStore[models.Subject], validate *validator.Validate, logger *zap.Logger) *SubjectService {
	return &SubjectService{EntityService: NewEntityService[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest](store, validate, logger)}
}

// FindAllByStatus lists subjects filtered by active, inactive or all.
func (s *SubjectService) FindAllByStatus(ctx context.Context, status string) ([]models.Subject, error) {
	filter, err := statusFilter("subject_status", status)
	if err != nil {
		return nil, err
	}
	return s.FindAll(ctx, filter)
}

// ToggleStatus flips the subject status.
func (s *SubjectService) ToggleStatus(ctx context.Context, id int64) (*models.Subject, error) {
	return toggleStatus(ctx, s.EntityService, id, "subject_status")
}
