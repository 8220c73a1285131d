package controllers

import (
	"net/http"

	"library_circulation/app"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /session
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || !app.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "user": userJSON(u)})
}

// DELETE /session
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /session/current
func (ac *AuthController) Current(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": userJSON(u)})
}
