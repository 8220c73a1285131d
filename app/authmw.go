package app

import (
	"net/http"

	"library_circulation/db"
	"library_circulation/models"
	"library_circulation/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie to a user and stashes the
// user id and role in the request context. The user lookup doubles as
// an existence check; a session for a deleted user is dropped.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("role", u.Role)
		c.Next()
	}
}

// ManagerOnly gates a route group to manager accounts. Must run after
// AuthRequired.
func ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleManager {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by AuthRequired.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	id, _ := v.(string)
	return id
}

// CurrentRole returns the authenticated user's role set by AuthRequired.
func CurrentRole(c *gin.Context) models.Role {
	v, _ := c.Get("role")
	r, _ := v.(models.Role)
	return r
}
