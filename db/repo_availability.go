package db

import (
	"context"

	"library_circulation/models"
)

// ComputeAvailability answers "can this user borrow this book" for a
// batch of books in three fixed queries, however many ids are asked for.
// It takes no locks and may be stale by the time the caller acts on it;
// BorrowBook re-checks everything authoritatively.
func (r *Repo) ComputeAvailability(ctx context.Context, user *models.User, bookIDs []string) (map[string]bool, error) {
	if len(bookIDs) == 0 {
		return map[string]bool{}, nil
	}

	type copyRow struct {
		ID          string
		TotalCopies int
	}
	var copies []copyRow
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Select("id", "total_copies").
		Where("id IN ?", bookIDs).
		Find(&copies).Error; err != nil {
		return nil, err
	}
	totals := make(map[string]int, len(copies))
	for _, c := range copies {
		totals[c.ID] = c.TotalCopies
	}

	type countRow struct {
		BookID string
		N      int
	}
	var counts []countRow
	if err := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Select("book_id, COUNT(*) AS n").
		Where("book_id IN ? AND status IN ?", bookIDs, openStatuses).
		Group("book_id").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	open := make(map[string]int, len(counts))
	for _, c := range counts {
		open[c.BookID] = c.N
	}

	var ownIDs []string
	if err := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("user_id = ? AND book_id IN ? AND status IN ?", user.ID, bookIDs, openStatuses).
		Distinct().
		Pluck("book_id", &ownIDs).Error; err != nil {
		return nil, err
	}
	own := make(map[string]bool, len(ownIDs))
	for _, id := range ownIDs {
		own[id] = true
	}

	return combineAvailability(user.Role, bookIDs, totals, open, own), nil
}

// combineAvailability applies the borrow rule to pre-aggregated state:
// the user must be a member, the book must have a free copy, and the
// user must not already hold an open loan on it. Unknown book ids map
// to false.
func combineAvailability(role models.Role, bookIDs []string, totals, open map[string]int, own map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bookIDs))
	for _, id := range bookIDs {
		total, known := totals[id]
		out[id] = known &&
			role.CanBorrow() &&
			open[id] < total &&
			!own[id]
	}
	return out
}
