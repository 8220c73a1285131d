package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"library_circulation/app"
	"library_circulation/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MemberController is the manager-only CRUD over member accounts.
type MemberController struct{ *Srv }

func NewMemberController(s *Srv) *MemberController { return &MemberController{Srv: s} }

// GET /api/members?q=&page=&size=
func (mc *MemberController) ListMembers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "25"))

	res, err := mc.Repo.ListMembers(c.Request.Context(), q, page, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]app.H, len(res.Members))
	for i := range res.Members {
		out[i] = userJSON(&res.Members[i])
	}
	c.JSON(http.StatusOK, app.H{"members": out, "total": res.Total})
}

// GET /api/members/:id
func (mc *MemberController) GetMember(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	u, err := mc.Repo.FindMemberByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"member": userJSON(u)})
}

// POST /api/members — the role is always member through this surface.
func (mc *MemberController) CreateMember(c *gin.Context) {
	var in struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	hash, err := app.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         models.RoleMember,
		PasswordHash: hash,
	}
	if err := mc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, userJSON(u))
}

// PUT /api/members/:id — role changes are not possible here.
func (mc *MemberController) UpdateMember(c *gin.Context) {
	id := c.Param("id")
	if _, err := mc.Repo.FindMemberByID(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	var in struct {
		Email     string `json:"email" binding:"required,email"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	err := mc.Repo.UpdateUser(c.Request.Context(), id, map[string]any{
		"email":      strings.TrimSpace(in.Email),
		"first_name": strings.TrimSpace(in.FirstName),
		"last_name":  strings.TrimSpace(in.LastName),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	u, err := mc.Repo.FindMemberByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

// DELETE /api/members/:id — cascades to the member's loans and revokes
// their sessions.
func (mc *MemberController) DeleteMember(c *gin.Context) {
	id := c.Param("id")
	if id == app.CurrentUserID(c) {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}
	if _, err := mc.Repo.FindMemberByID(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	if err := mc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	_ = mc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}
