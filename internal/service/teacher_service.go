package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

// TeacherService manages teacher profiles.
type TeacherService struct {
	*EntityService[models.Teacher, dto.CreateTeacherRequest, dto.UpdateTeacherRequest]
	teachers teacherStore
	user     reference
}

type teacherStore interface {
	entityStore[models.Teacher]
	Page(ctx context.Context, opts repository.ListOptions) ([]models.Teacher, int, error)
}

// NewTeacherService creates a TeacherService.
func NewTeacherService(teachers teacherStore, users existenceChecker, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	user := ref("user_id", "User", users)
	return &TeacherService{
		EntityService: NewEntityService[models.Teacher, dto.CreateTeacherRequest, dto.UpdateTeacherRequest](teachers, validate, logger, user),
		teachers:      teachers,
		user:          user,
	}
}

// FindByUser returns the teacher profile of a user.
func (s *TeacherService) FindByUser(ctx context.Context, userID int64) (*models.Teacher, error) {
	teachers, err := s.findByParent(ctx, s.user, userID)
	if err != nil {
		return nil, err
	}
	if len(teachers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Teacher for user ID %d not found", userID))
	}
	return &teachers[0], nil
}

// Search pages through teachers by name, email or license number.
func (s *TeacherService) Search(ctx context.Context, term string, page, pageSize int) ([]models.Teacher, int, error) {
	teachers, total, err := s.teachers.Page(ctx, repository.ListOptions{Search: term, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, appErrors.Internal(err, "failed to search teachers")
	}
	return teachers, total, nil
}
