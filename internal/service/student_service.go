package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

// StudentService manages student enrolments.
type StudentService struct {
	*EntityService[models.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest]
	user  reference
	grade reference
}

// NewStudentService creates a StudentService. Writes check the user and
// grade concurrently.
func NewStudentService(store entityStore[models.Student], users, grades existenceChecker, validate *validator.Validate, logger *zap.Logger) *StudentService {
	user := ref("user_id", "User", users)
	grade := ref("grade_id", "Grade", grades)
	return &StudentService{
		EntityService: NewEntityService[models.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest](store, validate, logger, user, grade),
		user:          user,
		grade:         grade,
	}
}

// FindByGrade lists the students enrolled in a grade.
func (s *StudentService) FindByGrade(ctx context.Context, gradeID int64) ([]models.Student, error) {
	return s.findByParent(ctx, s.grade, gradeID)
}

// FindByUser returns the student profile of a user.
func (s *StudentService) FindByUser(ctx context.Context, userID int64) (*models.Student, error) {
	students, err := s.findByParent(ctx, s.user, userID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student for user ID %d not found", userID))
	}
	return &students[0], nil
}
