package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for user information
const (
	UserIDKey         = "user_id"
	UserEmailKey      = "user_email"
	UserRoleKey       = "user_role"
	TokenIDKey        = "token_id"
	TokenExpiresAtKey = "token_expires_at"
)

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret   string
	revocations RevocationChecker
}

// NewAuthMiddleware validates access tokens signed with jwtSecret. revocations
// may be nil.
func NewAuthMiddleware(jwtSecret string, revocations RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:   jwtSecret,
		revocations: revocations,
	}
}

var (
	errMalformedHeader = errors.New("malformed authorization header")
	errTokenRevoked    = errors.New("token revoked")
)

// bearerToken reads the token from the Authorization header or, for
// websocket handshakes, the token query parameter.
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("token"), nil
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedHeader
	}
	return parts[1], nil
}

func (m *AuthMiddleware) claims(c *gin.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != util.TokenTypeAccess {
		return nil, util.ErrInvalidToken
	}
	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errTokenRevoked
		}
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *util.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(TokenIDKey, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
	}
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := bearerToken(c)
		if err != nil {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be 'Bearer <token>'")
			return
		}
		if token == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "Authorization header is required")
			return
		}

		claims, err := m.claims(c, token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			case errors.Is(err, errTokenRevoked):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked")
			case errors.Is(err, util.ErrInvalidToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			default:
				apperrors.InternalError(c, "Failed to verify token")
			}
			return
		}

		setClaims(c, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues without user info
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := bearerToken(c)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.claims(c, token)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "Authentication required")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		if len(roles) == 1 && roles[0] == model.RoleOwner {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the store owner can do this")
			return
		}
		apperrors.Forbidden(c, "You do not have permission to access this resource")
	}
}

// RequireOwner is RequireRole(owner).
func (m *AuthMiddleware) RequireOwner() gin.HandlerFunc {
	return m.RequireRole(model.RoleOwner)
}

// RequireStaff admits owners and editors.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return m.RequireRole(model.RoleOwner, model.RoleEditor)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetTokenID returns the jti and expiry of the access token used for the request.
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	id := c.GetString(TokenIDKey)
	if id == "" {
		return "", time.Time{}, false
	}
	return id, c.GetTime(TokenExpiresAtKey), true
}
