package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"busticket/internal/domain"
)

type fakeParser struct {
	enabled bool
	role    string
}

func (f fakeParser) Enabled() bool { return f.enabled }

func (f fakeParser) ParseToken(raw string) (domain.RequestContext, error) {
	if raw != "good" {
		return domain.RequestContext{}, errors.New("bad token")
	}
	return domain.RequestContext{Subject: "admin", Role: f.role}, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedOrEchoed(t *testing.T) {
	r := newEngine()

	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = do(r, map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestAuthDisabledLeavesRouteOpen(t *testing.T) {
	r := newEngine(Authenticate(fakeParser{}), RequireRoles("admin"))
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
}

func TestAuthEnabledRequiresToken(t *testing.T) {
	r := newEngine(Authenticate(fakeParser{enabled: true, role: "admin"}), RequireRoles("admin"))

	w := do(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{"Authorization": "Bearer bad"}).Code)
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"Authorization": "Bearer good"}).Code)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	r := newEngine(Authenticate(fakeParser{enabled: true, role: "agent"}), RequireRoles("admin"))
	w := do(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
