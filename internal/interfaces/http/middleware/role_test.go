package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

func newRoleRouter(role string, approved bool, mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, role)
		c.Set(JWTApprovedKey, approved)
		c.Next()
	})
	router.Use(mw)
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin passes admin gate", "admin", []string{"admin"}, http.StatusOK},
		{"buyer blocked from admin gate", "buyer", []string{"admin"}, http.StatusForbidden},
		{"seller passes multi-role gate", "seller", []string{"seller", "admin"}, http.StatusOK},
		{"empty role blocked", "", []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRoleRouter(tt.role, true, RequireRole(tt.allowed...))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireApprovedSeller(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		approved bool
		wantCode int
		wantErr  string
	}{
		{"approved seller passes", "seller", true, http.StatusOK, ""},
		{"pending seller blocked", "seller", false, http.StatusForbidden, "SELLER_NOT_APPROVED"},
		{"buyer blocked", "buyer", true, http.StatusForbidden, dto.ErrCodeForbidden},
		{"admin passes", "admin", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRoleRouter(tt.role, tt.approved, RequireApprovedSeller())

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var resp dto.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantErr, resp.Error.Code)
			}
		})
	}
}
