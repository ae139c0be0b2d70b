package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/logger"
)

type fakeValidator struct {
	claims *models.JWTClaims
}

func (f fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return f.claims, nil
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, path: path, status: status})
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingAndBadTokens(t *testing.T) {
	validator := fakeValidator{claims: &models.JWTClaims{UserID: 7, Role: models.RoleAdmin}}
	r := newEngine(JWT(validator))
	r.GET("/users", func(c *gin.Context) {
		assert.Equal(t, "7", c.GetString(logger.UserIDKey))
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/users", "bad").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/users", "good").Code)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization header")
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	validator := fakeValidator{claims: &models.JWTClaims{UserID: 1, Role: models.RoleTeacher}}
	r := newEngine(OptionalJWT(validator))
	var seen *models.JWTClaims
	r.GET("/", func(c *gin.Context) {
		seen = Claims(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "bad").Code)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "good").Code)
	require.NotNil(t, seen)
	assert.Equal(t, models.RoleTeacher, seen.Role)
}

func TestRequireRoles(t *testing.T) {
	branch := fakeValidator{claims: &models.JWTClaims{UserID: 12, Role: models.RoleBranch}}
	r := newEngine(JWT(branch))
	r.GET("/users", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PUT("/users/:id", RBAC(string(models.RoleAdmin), SelfRole), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/users", "good").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPut, "/users/12", "good").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPut, "/users/13", "good").Code)

	bare := newEngine()
	bare.GET("/users", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, perform(bare, http.MethodGet, "/users", "").Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	r := newEngine(Metrics(observer))
	r.GET("/groups/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	perform(r, http.MethodGet, "/groups/42", "")
	perform(r, http.MethodGet, "/nowhere", "")

	require.Len(t, observer.requests, 2)
	assert.Equal(t, recordedRequest{method: http.MethodGet, path: "/groups/:id", status: http.StatusNoContent}, observer.requests[0])
	assert.Equal(t, "unmatched", observer.requests[1].path)
}

func TestRecoveryWritesErrorBody(t *testing.T) {
	r := newEngine(Recovery(nil))
	r.GET("/boom", func(*gin.Context) { panic(errors.New("boom")) })

	rec := perform(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
}
