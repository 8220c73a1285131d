package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"library_circulation/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openStatuses are the loan states that occupy a copy.
var openStatuses = []models.LoanStatus{models.LoanActive, models.LoanOverdue}

var (
	ErrNotEligible         = errors.New("user is not eligible to borrow")
	ErrNoCopiesAvailable   = errors.New("no copies available")
	ErrDuplicateActiveLoan = errors.New("user already has an open loan for this book")
	ErrLoanAlreadyReturned = errors.New("loan already returned")
)

// BorrowBook creates a loan for (bookID, userID) at the given time.
//
// The whole precondition set runs inside one transaction with the book
// row locked FOR UPDATE, so concurrent borrows of the same book are
// serialized: of N requests racing for the last copy exactly one commits,
// the rest fail with ErrNoCopiesAvailable.
func (r *Repo) BorrowBook(ctx context.Context, userID, bookID string, now time.Time) (*models.Loan, error) {
	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if !user.Role.CanBorrow() {
			return ErrNotEligible
		}

		// Lock the book row; every capacity-affecting write for this
		// book goes through the same lock.
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, "id = ?", bookID).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND status IN ?", bookID, openStatuses).
			Count(&open).Error; err != nil {
			return err
		}
		if open >= int64(book.TotalCopies) {
			return ErrNoCopiesAvailable
		}

		var dup int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND user_id = ? AND status IN ?", bookID, userID, openStatuses).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateActiveLoan
		}

		l := &models.Loan{
			ID:         uuid.NewString(),
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: now,
			DueDate:    models.DueDateFor(now),
			Status:     models.LoanActive,
		}
		if err := tx.Create(l).Error; err != nil {
			// partial unique index backs up the count check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateActiveLoan
			}
			return err
		}
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ReturnLoan closes an open loan. Returning an already-returned loan is
// an error, not a state change; concurrent returns of the same loan are
// serialized by the row lock so exactly one succeeds.
func (r *Repo) ReturnLoan(ctx context.Context, loanID, comment string) (*models.Loan, error) {
	var loan models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, "id = ?", loanID).Error; err != nil {
			return err
		}
		if !loan.Status.Open() {
			return ErrLoanAlreadyReturned
		}

		now := time.Now().UTC()
		loan.Status = models.LoanReturned
		loan.ReturnedAt = &now
		if c := strings.TrimSpace(comment); c != "" {
			loan.ReturnComment = &c
		}
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *Repo) FindLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLoans filters the loan history; empty filter values are skipped.
// status accepts "open" besides the three concrete states.
func (r *Repo) ListLoans(ctx context.Context, userID, bookID, status string) ([]models.Loan, error) {
	q := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Book").
		Order("borrowed_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if bookID != "" {
		q = q.Where("book_id = ?", bookID)
	}
	switch status {
	case "open":
		q = q.Where("status IN ?", openStatuses)
	case string(models.LoanActive), string(models.LoanReturned), string(models.LoanOverdue):
		q = q.Where("status = ?", status)
	}
	var ls []models.Loan
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}

// Sweep support. The sweeper selects candidates first and then advances
// them one row at a time; the status guard in the UPDATE means a return
// that slipped in between simply wins and the row is skipped.

func (r *Repo) ListOverdueCandidates(ctx context.Context, today time.Time) ([]models.Loan, error) {
	var ls []models.Loan
	err := r.DB.WithContext(ctx).
		Where("status = ? AND due_date < ?", models.LoanActive, dateOnly(today)).
		Find(&ls).Error
	return ls, err
}

func (r *Repo) MarkLoanOverdue(ctx context.Context, loanID string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status = ?", loanID, models.LoanActive).
		Update("status", models.LoanOverdue)
	return res.RowsAffected > 0, res.Error
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
