package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
	token  string
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error) {
	s.token = token
	if s.claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func newProtectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/roles", ok)
	router.POST("/roles", ok)
	router.DELETE("/roles/:id", ok)
	return router
}

func serve(router *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearerToken(t *testing.T) {
	validator := &stubValidator{claims: &models.JWTClaims{UserID: 1, Role: "Administrator"}}
	router := newProtectedRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/roles", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/roles", "Basic abc").Code)

	rec := serve(router, http.MethodGet, "/roles", "bearer token-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "token-1", validator.token)
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	router := newProtectedRouter(JWT(&stubValidator{}))

	rec := serve(router, http.MethodGet, "/roles", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	router := newProtectedRouter(OptionalJWT(&stubValidator{}))
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/roles", "Bearer bad").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/roles", "").Code)
}

func TestRequireWriteRoles(t *testing.T) {
	teacher := &stubValidator{claims: &models.JWTClaims{UserID: 2, Role: "Teacher"}}
	router := newProtectedRouter(JWT(teacher), RequireWriteRoles("administrator"))

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/roles", "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/roles", "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/roles/1", "Bearer t").Code)

	admin := &stubValidator{claims: &models.JWTClaims{UserID: 1, Role: "Administrator"}}
	router = newProtectedRouter(JWT(admin), RequireWriteRoles("administrator"))
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, "/roles", "Bearer a").Code)
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/roles", nil)

	RBAC("Administrator")(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	c.Set(ContextUserKey, &models.JWTClaims{UserID: 9})
	claims, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, int64(9), claims.UserID)
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type recordingRequestObserver struct {
	requests []recordedRequest
}

func (r *recordingRequestObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.requests = append(r.requests, recordedRequest{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &recordingRequestObserver{}
	router := newProtectedRouter(Metrics(observer))

	serve(router, http.MethodDelete, "/roles/42", "")
	serve(router, http.MethodGet, "/missing", "")

	require.Len(t, observer.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodDelete, "/roles/:id", http.StatusNoContent}, observer.requests[0])
	assert.Equal(t, "unmatched", observer.requests[1].path)
	assert.Equal(t, http.StatusNotFound, observer.requests[1].status)
}
