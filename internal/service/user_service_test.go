package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-records-api/internal/dto"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

type mockUserRepo struct {
	users    map[int64]*models.User
	nextID   int64
	lastPage repository.ListOptions
	pageErr  error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[int64]*models.User{}}
}

func (m *mockUserRepo) Entity() string { return "User" }

func (m *mockUserRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if status, ok := filter["user_status"]; ok && status != u.UserStatus {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *mockUserRepo) Page(ctx context.Context, opts repository.ListOptions) ([]models.User, int, error) {
	m.lastPage = opts
	if m.pageErr != nil {
		return nil, 0, m.pageErr
	}
	users, _ := m.List(ctx, nil)
	return users, len(users), nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func applyUserValues(u *models.User, values repository.Values) error {
	for column, v := range values {
		switch column {
		case "first_name":
			u.FirstName = v.(string)
		case "first_last_name":
			u.FirstLastName = v.(string)
		case "email":
			email := v.(string)
			if email == "taken@example.com" {
				return &repository.UniqueViolationError{Constraint: "users_email_key", Fields: []string{"email"}}
			}
			u.Email = email
		case "ci":
			u.CI = v.(int64)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "date_of_birth":
			u.DateOfBirth = v.(time.Time)
		case "role_id":
			u.RoleID = v.(int64)
		case "user_status":
			u.UserStatus = v.(bool)
		}
	}
	return nil
}

func (m *mockUserRepo) Insert(ctx context.Context, values repository.Values) (int64, error) {
	u := &models.User{}
	if err := applyUserValues(u, values); err != nil {
		return 0, err
	}
	m.nextID++
	u.UserID = m.nextID
	m.users[u.UserID] = u
	return u.UserID, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, values repository.Values) error {
	return applyUserValues(m.users[id], values)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

func newUserRequest(email string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		UserFirstName:     "Ana",
		UserFirstLastName: "Rojas",
		UserEmail:         email,
		UserCI:            1234567,
		UserPassword:      "secret123",
		UserDateOfBirth:   "2008-05-14",
		UserRoleID:        1,
	}
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, existing(1), validation.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), newUserRequest("Ana@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.UserStatus)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[user.UserID].PasswordHash), []byte("secret123")))
}

func TestUserServiceCreateMissingRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, existing(1), validation.New(), zap.NewNop())
	req := newUserRequest("ana@example.com")
	req.UserRoleID = 4

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Role with ID 4 not found", appErrors.FromError(err).Message)
	assert.Empty(t, repo.users)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), existing(1), validation.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), newUserRequest("taken@example.com"))
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "User with the same email already exists", appErrors.FromError(err).Message)
}

func TestUserServiceCreateInvalidDate(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), existing(1), validation.New(), zap.NewNop())
	req := newUserRequest("ana@example.com")
	req.UserDateOfBirth = "14/05/2008"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Details, "userDateOfBirth")
}

func TestUserServiceUpdateRehashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, existing(1), validation.New(), zap.NewNop())
	user, err := svc.Create(context.Background(), newUserRequest("ana@example.com"))
	require.NoError(t, err)
	before := repo.users[user.UserID].PasswordHash

	_, err = svc.Update(context.Background(), user.UserID, dto.UpdateUserRequest{UserPassword: strPtr("another-secret")})
	require.NoError(t, err)
	after := repo.users[user.UserID].PasswordHash
	assert.NotEqual(t, before, after)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(after), []byte("another-secret")))
}

func TestUserServiceFindByEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, existing(1), validation.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), newUserRequest("ana@example.com"))
	require.NoError(t, err)

	user, err := svc.FindByEmail(context.Background(), " ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = svc.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestUserServiceSearchAndToggle(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, existing(1), validation.New(), zap.NewNop())
	user, err := svc.Create(context.Background(), newUserRequest("ana@example.com"))
	require.NoError(t, err)

	users, total, err := svc.Search(context.Background(), "ana", 2, 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, repository.ListOptions{Search: "ana", Page: 2, PageSize: 10}, repo.lastPage)

	toggled, err := svc.ToggleStatus(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.False(t, toggled.UserStatus)

	inactive, err := svc.FindAllByStatus(context.Background(), "inactive")
	require.NoError(t, err)
	assert.Len(t, inactive, 1)

	repo.pageErr = errors.New("db down")
	_, _, err = svc.Search(context.Background(), "ana", 1, 10)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
