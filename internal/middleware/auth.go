package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/jwt"
	"github.com/faqbase/core/internal/pkg/response"
	sessionpkg "github.com/faqbase/core/internal/pkg/session"
)

const (
	// TokenCookie is the session cookie set on login.
	TokenCookie = "faq_token"

	contextKeyUser = "current_user"
	contextKeySID  = "session_id"
)

// Auth returns a middleware that requires a valid token bound to a live
// session, and loads the authenticated user into the request context.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sid, err := resolveUser(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(contextKeyUser, user)
		c.Set(contextKeySID, sid)
		sessionpkg.Touch(db, user.ID, sid)
		c.Next()
	}
}

// OptionalAuth loads the user if a valid token is present, but never blocks.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, sid, err := resolveUser(db, extractToken(c)); err == nil {
			c.Set(contextKeyUser, user)
			c.Set(contextKeySID, sid)
			sessionpkg.Touch(db, user.ID, sid)
		}
		c.Next()
	}
}

// RequireLevel returns a guard that rejects users below the given permission
// level with 403. It must run after Auth.
func RequireLevel(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c)
			return
		}
		if user.Level < level {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func resolveUser(db *gorm.DB, rawToken string) (*models.UserModel, string, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, "", errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, "", err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if !active {
		return nil, "", errors.New("session expired or revoked")
	}

	var user models.UserModel
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, "", err
	}
	return &user, claims.SessionID, nil
}

// CurrentUser extracts the authenticated user from context, or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, _ := c.Get(contextKeyUser)
	user, _ := v.(*models.UserModel)
	return user
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(contextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request carries a valid session.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

// SetCurrentUser injects a user into the context. Exposed for handler tests.
func SetCurrentUser(c *gin.Context, user *models.UserModel) {
	c.Set(contextKeyUser, user)
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie(TokenCookie); err == nil && raw != "" {
		return NormalizeToken(raw)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
