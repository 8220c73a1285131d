package controllers

import (
	"net/http"
	"strings"

	"library_circulation/app"

	"github.com/gin-gonic/gin"
)

type AccountController struct{ *Srv }

func NewAccountController(s *Srv) *AccountController { return &AccountController{Srv: s} }

// GET /api/account
func (ac *AccountController) Show(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": userJSON(u)})
}

// PUT /api/account
func (ac *AccountController) Update(c *gin.Context) {
	var in struct {
		Email     string `json:"email" binding:"required,email"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	uid := app.CurrentUserID(c)
	err := ac.Repo.UpdateUser(c.Request.Context(), uid, map[string]any{
		"email":      strings.TrimSpace(in.Email),
		"first_name": strings.TrimSpace(in.FirstName),
		"last_name":  strings.TrimSpace(in.LastName),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": userJSON(u)})
}

// PATCH /api/account/password
func (ac *AccountController) Password(c *gin.Context) {
	var in struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		Password        string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	if !app.CheckPassword(u.PasswordHash, in.CurrentPassword) {
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": "current password is incorrect"})
		return
	}

	hash, err := app.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := ac.Repo.UpdateUserPassword(c.Request.Context(), u.ID, hash); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
