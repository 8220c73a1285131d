package db

import (
	"context"
	"errors"
	"strings"

	"library_circulation/models"

	"gorm.io/gorm"
)

// Books

type ListBooksResult struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
}

func (r *Repo) ListBooks(ctx context.Context, q string, page, size int) (ListBooksResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 25
	}

	tx := r.DB.WithContext(ctx).Model(&models.Book{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(genre) LIKE ?",
			like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListBooksResult{}, err
	}

	var books []models.Book
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&books).Error; err != nil {
		return ListBooksResult{}, err
	}
	return ListBooksResult{Books: books, Total: total}, nil
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	if errs := b.Validate(); errs != nil {
		return errs
	}
	err := r.DB.WithContext(ctx).Create(b).Error
	return translateBookErr(err)
}

func (r *Repo) UpdateBook(ctx context.Context, b *models.Book) error {
	if errs := b.Validate(); errs != nil {
		return errs
	}
	err := r.DB.WithContext(ctx).Model(b).
		Select("title", "author", "genre", "isbn", "total_copies").
		Updates(b).Error
	return translateBookErr(err)
}

// DeleteBook removes the book and cascades to its loans.
func (r *Repo) DeleteBook(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
}

// translateBookErr maps a unique-index violation onto the isbn field.
func translateBookErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ValidationErrors{"isbn": "has already been taken"}
	}
	return err
}

// ActiveLoanCount counts the loans that currently occupy a copy of the
// book, overdue loans included. The count is never cached; capacity is
// always derived from the loan table itself.
func (r *Repo) ActiveLoanCount(ctx context.Context, bookID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("book_id = ? AND status IN ?", bookID, openStatuses).
		Count(&n).Error
	return n, err
}

// AvailableCopies is total copies minus open loans. The result is a
// snapshot; the authoritative check happens inside BorrowBook.
func (r *Repo) AvailableCopies(ctx context.Context, bookID string) (int, error) {
	b, err := r.FindBookByID(ctx, bookID)
	if err != nil {
		return 0, err
	}
	n, err := r.ActiveLoanCount(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return b.TotalCopies - int(n), nil
}
