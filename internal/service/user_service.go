package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type userStore interface {
	entityStore[models.User]
	Page(ctx context.Context, opts repository.ListOptions) ([]models.User, int, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserService handles user management workflows.
type UserService struct {
	*EntityService[models.User, dto.CreateUserRequest, dto.UpdateUserRequest]
	users userStore
}

// NewUserService creates an instance of UserService.
func NewUserService(users userStore, roles existenceChecker, validate *validator.Validate, logger *zap.Logger) *UserService {
	return &UserService{
		EntityService: NewEntityService[models.User, dto.CreateUserRequest, dto.UpdateUserRequest](
			users, validate, logger, ref("role_id", "Role", roles)),
		users: users,
	}
}

// Create stores a new user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	values, err := s.changes(req)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.UserPassword)
	if err != nil {
		return nil, err
	}
	values["password_hash"] = hash
	return s.insert(ctx, values)
}

// Update applies a partial update, re-hashing the password when present.
func (s *UserService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*models.User, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	values, err := s.changes(req)
	if err != nil {
		return nil, err
	}
	if req.UserPassword != nil {
		hash, err := hashPassword(*req.UserPassword)
		if err != nil {
			return nil, err
		}
		values["password_hash"] = hash
	}
	return s.apply(ctx, id, values, "update")
}

// FindAllByStatus lists users filtered by active, inactive or all.
func (s *UserService) FindAllByStatus(ctx context.Context, status string) ([]models.User, error) {
	filter, err := statusFilter("user_status", status)
	if err != nil {
		return nil, err
	}
	return s.FindAll(ctx, filter)
}

// Search pages through users whose names, email or CI match term.
func (s *UserService) Search(ctx context.Context, term string, page, pageSize int) ([]models.User, int, error) {
	users, total, err := s.users.Page(ctx, repository.ListOptions{Search: term, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, appErrors.Internal(err, "failed to search users")
	}
	return users, total, nil
}

// FindByEmail returns the user owning email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User with email "+email+" not found")
		}
		return nil, appErrors.Internal(err, "failed to load user by email")
	}
	return user, nil
}

// ToggleStatus flips the user status.
func (s *UserService) ToggleStatus(ctx context.Context, id int64) (*models.User, error) {
	return toggleStatus(ctx, s.EntityService, id, "user_status")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash password")
	}
	return string(hash), nil
}
