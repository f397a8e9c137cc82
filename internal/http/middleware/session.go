package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
)

const (
	// SessionUserKey is the session entry holding the logged-in user id.
	SessionUserKey = "user_id"
	userContextKey = "current_user"
)

// RequireLogin resolves the session user on every protected request.
// A missing or stale session id redirects to the login page; the
// loaded user is placed in the gin context for handlers.
func RequireLogin(users *repo.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(SessionUserKey)
		userID, ok := raw.(uint)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			session.Clear()
			_ = session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRoles allows only the listed roles through. It must run after
// RequireLogin. Failing the check is a hard Forbidden, not a redirect.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// CurrentUser returns the user loaded by RequireLogin, or nil.
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}
