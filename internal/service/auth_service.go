package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

type authUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionStore interface {
	IncrementLoginAttempts(ctx context.Context, email string, window time.Duration) (int64, error)
	LoginAttempts(ctx context.Context, email string) (int64, error)
	ResetLoginAttempts(ctx context.Context, email string) error
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type loginObserver interface {
	ObserveLogin(result string)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	// MaxLoginAttempts failed logins per AttemptWindow lock the email out
	// until the window expires. Zero disables throttling.
	MaxLoginAttempts int
	AttemptWindow    time.Duration
}

// AuthService provides authentication use cases.
type AuthService struct {
	users     authUserStore
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	observer  loginObserver
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserStore, sessions sessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, validator: validate, logger: logger, config: config, now: time.Now}
}

// WithLoginObserver reports every login outcome to observer.
func (s *AuthService) WithLoginObserver(observer loginObserver) *AuthService {
	s.observer = observer
	return s
}

func (s *AuthService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveLogin(result)
	}
}

// Login authenticates a user and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validation.Struct(s.validator, req, "invalid login payload"); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if s.config.MaxLoginAttempts > 0 {
		attempts, err := s.sessions.LoginAttempts(ctx, email)
		if err != nil {
			s.logger.Warn("failed to read login attempts", zap.String("email", email), zap.Error(err))
		} else if attempts >= int64(s.config.MaxLoginAttempts) {
			s.observe("locked")
			return nil, appErrors.Clone(appErrors.ErrTooManyRequests, "too many failed login attempts, try again later")
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordFailure(ctx, email, req)
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, email, req)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	if !user.UserStatus {
		s.observe("inactive")
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	if err := s.sessions.ResetLoginAttempts(ctx, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.String("email", email), zap.Error(err))
	}

	accessToken, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}

	s.observe("success")
	s.logger.Info("user logged in", zap.Int64("user_id", user.UserID), zap.String("ip", req.IP))

	return &models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User: models.UserInfo{
			UserID:   user.UserID,
			Email:    user.Email,
			FullName: user.FullName(),
			Role:     roleName(user),
		},
	}, nil
}

// Logout revokes the token identified by claims until it would expire.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil || claims.ID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing token identifier")
	}
	ttl := s.config.AccessTokenExpiry
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.sessions.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return appErrors.Internal(err, "failed to revoke token")
	}
	s.logger.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	revoked, err := s.sessions.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has been revoked")
	}

	return claims, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string, req models.LoginRequest) {
	s.observe("invalid")
	if s.config.MaxLoginAttempts <= 0 {
		return
	}
	attempts, err := s.sessions.IncrementLoginAttempts(ctx, email, s.config.AttemptWindow)
	if err != nil {
		s.logger.Warn("failed to record login attempt", zap.String("email", email), zap.Error(err))
		return
	}
	s.logger.Warn("failed login attempt",
		zap.String("email", email),
		zap.Int64("attempts", attempts),
		zap.String("ip", req.IP),
		zap.String("user_agent", req.UserAgent),
	)
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   roleName(user),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func roleName(user *models.User) string {
	if user.Role == nil {
		return ""
	}
	return user.Role.RoleName
}
