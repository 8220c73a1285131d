package controllers

import (
	"net/http"
	"time"

	"library_circulation/app"
	"library_circulation/sweeper"

	"github.com/gin-gonic/gin"
)

// SweepController exposes the manual, manager-only sweep trigger. The
// scheduled run goes through sweeper.Scheduler instead.
type SweepController struct {
	sweep *sweeper.Sweeper
}

func NewSweepController(sweep *sweeper.Sweeper) *SweepController {
	return &SweepController{sweep: sweep}
}

// POST /api/admin/sweep
func (sc *SweepController) Run(c *gin.Context) {
	res, err := sc.sweep.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
