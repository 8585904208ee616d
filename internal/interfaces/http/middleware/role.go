package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

// RequireRole aborts with 403 unless the authenticated user holds one
// of the given roles. Must run after the JWT middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(JWTRoleKey)
		if _, ok := allowed[role]; !ok {
			abortForbidden(c, "insufficient role for this operation")
			return
		}
		c.Next()
	}
}

// RequireApprovedSeller aborts with 403 unless the authenticated user
// is a seller whose account an admin has approved. Admins pass too so
// they can manage any seller resource.
func RequireApprovedSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(JWTRoleKey)
		if role == "admin" {
			c.Next()
			return
		}
		if role != "seller" {
			abortForbidden(c, "seller account required")
			return
		}
		if !c.GetBool(JWTApprovedKey) {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID("SELLER_NOT_APPROVED",
					"seller account is awaiting approval", requestID))
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, message, requestID))
}
