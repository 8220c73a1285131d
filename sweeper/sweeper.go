// Package sweeper advances active loans past their due date to overdue.
// The sweep normally runs on a daily schedule but can also be triggered
// manually by a manager.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"library_circulation/models"
)

// Store is the slice of the repository the sweep needs.
type Store interface {
	ListOverdueCandidates(ctx context.Context, today time.Time) ([]models.Loan, error)
	MarkLoanOverdue(ctx context.Context, loanID string) (bool, error)
}

// Notifier receives a best-effort notification for every loan the sweep
// transitions. A notification failure never rolls the transition back.
type Notifier interface {
	NotifyOverdue(ctx context.Context, loan models.Loan) error
}

// LogNotifier is the default Notifier; it just records the overdue loan.
type LogNotifier struct{}

func (LogNotifier) NotifyOverdue(_ context.Context, loan models.Loan) error {
	slog.Info("loan overdue",
		slog.String("loan_id", loan.ID),
		slog.String("book_id", loan.BookID),
		slog.String("user_id", loan.UserID),
		slog.Time("due_date", loan.DueDate))
	return nil
}

type Sweeper struct {
	store    Store
	notifier Notifier
}

func New(store Store, notifier Notifier) *Sweeper {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Sweeper{store: store, notifier: notifier}
}

// Result reports what a sweep run did.
type Result struct {
	Transitioned int `json:"transitionedCount"`
}

// Run selects every active loan due before today and advances it to
// overdue, one row at a time. A row that fails is logged and skipped;
// the batch never aborts. Loans already overdue are not selected, so a
// second run on the same day transitions nothing.
func (s *Sweeper) Run(ctx context.Context, today time.Time) (Result, error) {
	candidates, err := s.store.ListOverdueCandidates(ctx, today)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, loan := range candidates {
		ok, err := s.store.MarkLoanOverdue(ctx, loan.ID)
		if err != nil {
			slog.Warn("sweep: failed to mark loan overdue",
				slog.String("loan_id", loan.ID),
				slog.String("error", err.Error()))
			continue
		}
		if !ok {
			// Returned between select and update; the return wins.
			continue
		}
		res.Transitioned++

		if err := s.notifier.NotifyOverdue(ctx, loan); err != nil {
			slog.Warn("sweep: overdue notification failed",
				slog.String("loan_id", loan.ID),
				slog.String("error", err.Error()))
		}
	}

	if res.Transitioned > 0 {
		slog.Info("sweep complete", slog.Int("transitioned", res.Transitioned))
	}
	return res, nil
}
