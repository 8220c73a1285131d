package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"library_circulation/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestRepo connects to the database named by TEST_DATABASE_URL and
// wipes the circulation tables. Tests that need it skip when the
// variable is unset.
func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	for _, table := range []string{models.LoanTable, models.BookTable, models.UserTable} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return NewRepo(conn)
}

func seedUser(t *testing.T, r *Repo, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedBook(t *testing.T, r *Repo, copies int) *models.Book {
	t.Helper()
	b := &models.Book{
		ID:          uuid.NewString(),
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Genre:       "Sci-Fi",
		ISBN:        fmt.Sprintf("978-%d", time.Now().UnixNano()),
		TotalCopies: copies,
	}
	require.NoError(t, r.CreateBook(context.Background(), b))
	return b
}

func TestBorrowLastCopy(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)
	b := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, loan.Status)
	assert.Nil(t, loan.ReturnedAt)
	assert.Equal(t, models.DueDateFor(loan.BorrowedAt), loan.DueDate)

	_, err = r.BorrowBook(ctx, b.ID, book.ID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)

	n, err := r.ActiveLoanCount(ctx, book.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(book.TotalCopies))
}

func TestReturnFreesCopy(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)
	b := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	returned, err := r.ReturnLoan(ctx, loan.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	assert.Nil(t, returned.ReturnComment)

	avail, err := r.ComputeAvailability(ctx, b, []string{book.ID})
	require.NoError(t, err)
	assert.True(t, avail[book.ID])
}

func TestBorrowDuplicateActiveLoan(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 3)
	a := seedUser(t, r, models.RoleMember)

	_, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	_, err = r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrDuplicateActiveLoan)
}

func TestBorrowEligibility(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	mgr := seedUser(t, r, models.RoleManager)

	_, err := r.BorrowBook(ctx, mgr.ID, book.ID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestBorrowBookNotFound(t *testing.T) {
	r := openTestRepo(t)
	a := seedUser(t, r, models.RoleMember)

	_, err := r.BorrowBook(context.Background(), a.ID, uuid.NewString(), time.Now().UTC())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReturnComment(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 2)
	a := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	returned, err := r.ReturnLoan(ctx, loan.ID, "Good condition")
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnComment)
	assert.Equal(t, "Good condition", *returned.ReturnComment)
}

func TestReturnIsTerminal(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	_, err = r.ReturnLoan(ctx, loan.ID, "")
	require.NoError(t, err)

	_, err = r.ReturnLoan(ctx, loan.ID, "again")
	assert.ErrorIs(t, err, ErrLoanAlreadyReturned)

	_, err = r.ReturnLoan(ctx, uuid.NewString(), "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReturnOverdueLoan(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	backdate(t, r, loan.ID, time.Now().UTC().AddDate(0, 0, -20))
	ok, err := r.MarkLoanOverdue(ctx, loan.ID)
	require.NoError(t, err)
	require.True(t, ok)

	returned, err := r.ReturnLoan(ctx, loan.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
}

// backdate pushes a loan's due date into the past, bypassing the repo.
func backdate(t *testing.T, r *Repo, loanID string, due time.Time) {
	t.Helper()
	require.NoError(t, r.DB.Model(&models.Loan{}).
		Where("id = ?", loanID).
		Update("due_date", dateOnly(due)).Error)
}

func TestOverdueSweepQueries(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	today := time.Now().UTC()

	book := seedBook(t, r, 2)
	a := seedUser(t, r, models.RoleMember)
	b := seedUser(t, r, models.RoleMember)

	late, err := r.BorrowBook(ctx, a.ID, book.ID, today)
	require.NoError(t, err)
	backdate(t, r, late.ID, today.AddDate(0, 0, -1))

	onTime, err := r.BorrowBook(ctx, b.ID, book.ID, today)
	require.NoError(t, err)

	candidates, err := r.ListOverdueCandidates(ctx, today)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, late.ID, candidates[0].ID)

	ok, err := r.MarkLoanOverdue(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// already overdue: excluded from selection, not re-processed
	candidates, err = r.ListOverdueCandidates(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	// overdue loans still occupy copies and block duplicates
	n, err := r.ActiveLoanCount(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = r.BorrowBook(ctx, a.ID, book.ID, today)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)

	// the loan that is not yet due is untouched
	fresh, err := r.FindLoanByID(ctx, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, fresh.Status)
}

func TestConcurrentBorrowExactlyCapacity(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	const copies = 3
	const clients = 8

	book := seedBook(t, r, copies)
	users := make([]*models.User, clients)
	for i := range users {
		users[i] = seedUser(t, r, models.RoleMember)
	}

	errs := make([]error, clients)
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.BorrowBook(ctx, users[i].ID, book.ID, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoCopiesAvailable):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, copies, succeeded)
	assert.Equal(t, clients-copies, conflicted)

	n, err := r.ActiveLoanCount(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(copies), n)
}

func TestDeleteBookCascadesToLoans(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	book := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)

	loan, err := r.BorrowBook(ctx, a.ID, book.ID, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, r.DeleteBook(ctx, book.ID))

	_, err = r.FindLoanByID(ctx, loan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	isbn := fmt.Sprintf("isbn-%d", time.Now().UnixNano())
	first := &models.Book{ID: uuid.NewString(), Title: "t", Author: "a", Genre: "g", ISBN: isbn, TotalCopies: 1}
	require.NoError(t, r.CreateBook(ctx, first))

	second := &models.Book{ID: uuid.NewString(), Title: "t2", Author: "a2", Genre: "g2", ISBN: isbn, TotalCopies: 1}
	err := r.CreateBook(ctx, second)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "isbn")
}
