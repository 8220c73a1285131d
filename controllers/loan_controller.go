package controllers

import (
	"net/http"
	"time"

	"library_circulation/app"
	"library_circulation/models"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

// POST /api/books/:id/borrow
func (lc *LoanController) Borrow(c *gin.Context) {
	bookID := c.Param("id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing book id"})
		return
	}

	loan, err := lc.Repo.BorrowBook(c.Request.Context(), app.CurrentUserID(c), bookID, time.Now().UTC())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// POST /api/loans/:loanId/return
//
// Members may return their own loans; managers may return anyone's.
// The state machine itself (no transition out of returned) lives in the
// repo, not here.
func (lc *LoanController) Return(c *gin.Context) {
	loanID := c.Param("loanId")
	if loanID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing loan id"})
		return
	}

	loan, err := lc.Repo.FindLoanByID(c.Request.Context(), loanID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if app.CurrentRole(c) != models.RoleManager && loan.UserID != app.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	var in struct {
		Comment string `json:"comment"`
	}
	_ = c.ShouldBindJSON(&in)

	returned, err := lc.Repo.ReturnLoan(c.Request.Context(), loanID, in.Comment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, returned)
}

// GET /api/loans?status=&bookId=&userId=
//
// Managers see everything; members are pinned to their own history.
func (lc *LoanController) ListLoans(c *gin.Context) {
	userID := c.Query("userId")
	if app.CurrentRole(c) != models.RoleManager {
		userID = app.CurrentUserID(c)
	}

	ls, err := lc.Repo.ListLoans(c.Request.Context(), userID, c.Query("bookId"), c.Query("status"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": ls})
}
