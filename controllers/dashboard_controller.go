package controllers

import (
	"net/http"
	"time"

	"library_circulation/app"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// GET /api/dashboard/manager
func (dc *DashboardController) Manager(c *gin.Context) {
	d, err := dc.Repo.ManagerDashboard(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/dashboard/member
func (dc *DashboardController) Member(c *gin.Context) {
	d, err := dc.Repo.MemberDashboard(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
