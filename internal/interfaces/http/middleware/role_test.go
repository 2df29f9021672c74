package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func roleTestRouter(mw gin.HandlerFunc, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(JWTRoleKey, role)
		}
		c.Next()
	})
	r.Use(mw)
	r.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", "ADMIN", http.StatusOK},
		{"moderator allowed", "MODERATOR", http.StatusOK},
		{"user rejected", "USER", http.StatusForbidden},
		{"unknown role rejected", "SUPERUSER", http.StatusForbidden},
		{"missing role rejected", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roleTestRouter(RequireStaff(), tt.role)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", "ADMIN", http.StatusOK},
		{"moderator rejected", "MODERATOR", http.StatusForbidden},
		{"user rejected", "USER", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roleTestRouter(RequireAdmin(), tt.role)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
