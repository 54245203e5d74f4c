package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withIdentity(tenantID, userID string, roles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantID != "" {
			c.Set("tenant_id", tenantID)
		}
		c.Set("user_id", userID)
		if roles != nil {
			c.Set("user_roles", roles)
		}
		c.Next()
	}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tenant": c.GetString("tenant_id")})
}

func TestTenantMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/x", TenantMiddleware(), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Tenant-ID", "tenant-a")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-a")
}

func TestTenantMiddleware_FromContext(t *testing.T) {
	router := gin.New()
	router.GET("/x", withIdentity("tenant-b", "u1", nil), TenantMiddleware(), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-b")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Tenant-ID", "tenant-b")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_RejectsMismatch(t *testing.T) {
	router := gin.New()
	router.GET("/x", withIdentity("tenant-b", "u1", nil), TenantMiddleware(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Tenant-ID", "tenant-a")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_MISMATCH")
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{"admin", []string{"admin"}, http.StatusOK},
		{"super admin", []string{"super_admin"}, http.StatusOK},
		{"employee", []string{"employee"}, http.StatusForbidden},
		{"no roles", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/x", withIdentity("t", "u", tt.roles), RequireRole("admin"), okHandler)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	router := gin.New()
	router.GET("/x", withIdentity("t", "u1", nil), limiter.Middleware(), okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_SeparateBucketsPerUser(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	assert.True(t, limiter.limiter("t:u1").Allow())
	assert.True(t, limiter.limiter("t:u2").Allow())
	assert.False(t, limiter.limiter("t:u1").Allow())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(5, 5)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.limiter("old")

	now = now.Add(11 * time.Minute)
	limiter.limiter("fresh")

	assert.Equal(t, 1, limiter.Cleanup())
	assert.Len(t, limiter.visitors, 1)
}

type recordingAudit struct {
	entries []services.AuditEntry
}

func (r *recordingAudit) Record(ctx context.Context, entry services.AuditEntry) {
	r.entries = append(r.entries, entry)
}

func TestAudit(t *testing.T) {
	recorder := &recordingAudit{}
	router := gin.New()
	router.Use(withIdentity("tenant-a", "u1", nil), Audit(recorder))
	router.GET("/api/v1/products", okHandler)
	router.POST("/api/v1/products", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.DELETE("/api/v1/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/products"},
		{http.MethodPost, "/api/v1/products"},
		{http.MethodDelete, "/api/v1/products/42"},
	} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(r.method, r.path, nil))
	}

	require.Len(t, recorder.entries, 2)
	assert.Equal(t, "POST", recorder.entries[0].Method)
	assert.Equal(t, http.StatusCreated, recorder.entries[0].Status)
	assert.Equal(t, "tenant-a", recorder.entries[0].TenantID)
	assert.Equal(t, "/api/v1/products/42", recorder.entries[1].Path)
	assert.Equal(t, http.StatusNotFound, recorder.entries[1].Status)
}

func TestDevelopmentAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(DevelopmentAuthMiddleware())
	router.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user_id"), "roles": c.GetStringSlice("user_roles")})
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-User-ID", "u7")
	req.Header.Set("X-User-Roles", "sales,finance")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u7","roles":["sales","finance"]}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.JSONEq(t, `{"user":"`+devID+`","roles":["admin","employee"]}`, w.Body.String())
}
