package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/infrastructure/auth"
	"github.com/driveshop/backend/internal/infrastructure/logger"
	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	JWTApprovedKey = "jwt_approved"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTConfig configures the JWT authentication middleware
type JWTConfig struct {
	TokenService *auth.JWTService
	Blacklist    auth.TokenBlacklist
	// SkipPaths lists exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWT returns a middleware that validates bearer tokens and stores the
// claims in the request context. Blacklist lookups fail open: a Redis
// outage must not lock every user out.
func JWT(cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		claims, err := cfg.TokenService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.GetGinLogger(c).Warn("token blacklist check failed",
					zap.Error(err))
			} else if revoked {
				handleAuthError(c, auth.ErrTokenBlacklisted)
				return
			}

			invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(
				c.Request.Context(), claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				logger.GetGinLogger(c).Warn("user token invalidation check failed",
					zap.Error(err))
			} else if invalidated {
				handleAuthError(c, auth.ErrTokenBlacklisted)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRoleKey, claims.Role)
		c.Set(JWTApprovedKey, claims.Approved)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.GetGinLogger(c), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// JWTOptional validates a bearer token when one is present and lets the
// request through as a guest when it is not. Cart routes use this so
// anonymous visitors and logged-in buyers share the same endpoints.
func JWTOptional(cfg JWTConfig) gin.HandlerFunc {
	required := JWT(cfg)
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) == "" {
			c.Next()
			return
		}
		required(c)
	}
}

var errMissingAuthHeader = errors.New("missing authorization header")

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", errMissingAuthHeader
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

func handleAuthError(c *gin.Context, err error) {
	var code, message string

	switch {
	case errors.Is(err, errMissingAuthHeader):
		code = dto.ErrCodeUnauthorized
		message = "authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		code = "TOKEN_EXPIRED"
		message = "token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code = "TOKEN_REVOKED"
		message = "token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code = "INVALID_TOKEN"
		message = "wrong token type for this endpoint"
	default:
		code = "INVALID_TOKEN"
		message = "invalid token"
	}

	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ClaimsFromContext returns the validated claims set by the JWT
// middleware, or nil when the request was not authenticated.
func ClaimsFromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(JWTClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
