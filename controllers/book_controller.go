package controllers

import (
	"net/http"
	"strconv"

	"library_circulation/app"
	"library_circulation/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

type bookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"totalCopies"`
}

// GET /api/books?q=&page=&size=
//
// Besides the book rows the response carries a can_borrow object keyed
// by book id, computed for the calling user across the whole page in
// one pass. The flag is advisory; borrowing re-checks authoritatively.
func (bc *BookController) ListBooks(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "25"))

	res, err := bc.Repo.ListBooks(c.Request.Context(), q, page, size)
	if err != nil {
		respondErr(c, err)
		return
	}

	user, err := bc.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	ids := make([]string, len(res.Books))
	for i, b := range res.Books {
		ids[i] = b.ID
	}
	canBorrow, err := bc.Repo.ComputeAvailability(c.Request.Context(), user, ids)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, app.H{
		"books":      res.Books,
		"total":      res.Total,
		"can_borrow": canBorrow,
	})
}

// GET /api/books/:id
func (bc *BookController) GetBook(c *gin.Context) {
	b, err := bc.Repo.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	available, err := bc.Repo.AvailableCopies(c.Request.Context(), b.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"book": b, "availableCopies": available})
}

// POST /api/books (manager)
func (bc *BookController) CreateBook(c *gin.Context) {
	var in bookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b := &models.Book{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		ISBN:        in.ISBN,
		TotalCopies: in.TotalCopies,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), b); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// PUT /api/books/:id (manager)
func (bc *BookController) UpdateBook(c *gin.Context) {
	b, err := bc.Repo.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	var in bookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.ISBN = in.ISBN
	b.TotalCopies = in.TotalCopies

	if err := bc.Repo.UpdateBook(c.Request.Context(), b); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/books/:id (manager) — removes the book and its loans.
func (bc *BookController) DeleteBook(c *gin.Context) {
	if err := bc.Repo.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
