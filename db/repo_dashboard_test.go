package db

import (
	"context"
	"testing"
	"time"

	"library_circulation/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDashboard(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	today := time.Now().UTC()

	b1 := seedBook(t, r, 2)
	b2 := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)
	b := seedUser(t, r, models.RoleMember)

	overdueLoan, err := r.BorrowBook(ctx, a.ID, b1.ID, today)
	require.NoError(t, err)
	backdate(t, r, overdueLoan.ID, today.AddDate(0, 0, -1))
	_, err = r.MarkLoanOverdue(ctx, overdueLoan.ID)
	require.NoError(t, err)

	dueToday, err := r.BorrowBook(ctx, b.ID, b2.ID, today)
	require.NoError(t, err)
	backdate(t, r, dueToday.ID, today)

	d, err := r.ManagerDashboard(ctx, today)
	require.NoError(t, err)

	assert.Equal(t, int64(2), d.TotalBooks)
	assert.Equal(t, int64(2), d.CurrentlyBorrowed)
	assert.Equal(t, int64(1), d.DueToday)
	assert.Equal(t, int64(1), d.MembersWithOverdue)
}

func TestMemberDashboard(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	b1 := seedBook(t, r, 1)
	b2 := seedBook(t, r, 1)
	a := seedUser(t, r, models.RoleMember)

	past, err := r.BorrowBook(ctx, a.ID, b1.ID, time.Now().UTC())
	require.NoError(t, err)
	_, err = r.ReturnLoan(ctx, past.ID, "")
	require.NoError(t, err)

	current, err := r.BorrowBook(ctx, a.ID, b2.ID, time.Now().UTC())
	require.NoError(t, err)

	d, err := r.MemberDashboard(ctx, a.ID)
	require.NoError(t, err)

	require.Len(t, d.CurrentLoans, 1)
	assert.Equal(t, current.ID, d.CurrentLoans[0].ID)
	require.NotNil(t, d.CurrentLoans[0].Book)
	assert.Len(t, d.History, 2)
}
