package db

import (
	"context"
	"time"

	"library_circulation/models"
)

// ManagerDashboard is the manager-facing summary. "Due today" uses the
// exact due date, the same windowing rule as everywhere else.
type ManagerDashboard struct {
	TotalBooks         int64 `json:"totalBooks"`
	CurrentlyBorrowed  int64 `json:"currentlyBorrowed"`
	DueToday           int64 `json:"dueToday"`
	MembersWithOverdue int64 `json:"membersWithOverdue"`
}

func (r *Repo) ManagerDashboard(ctx context.Context, today time.Time) (*ManagerDashboard, error) {
	db := r.DB.WithContext(ctx)
	var d ManagerDashboard

	if err := db.Model(&models.Book{}).Count(&d.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status IN ?", openStatuses).
		Count(&d.CurrentlyBorrowed).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ? AND due_date = ?", models.LoanActive, dateOnly(today)).
		Count(&d.DueToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ?", models.LoanOverdue).
		Distinct("user_id").
		Count(&d.MembersWithOverdue).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

type MemberDashboard struct {
	CurrentLoans []models.Loan `json:"currentLoans"`
	History      []models.Loan `json:"history"`
}

func (r *Repo) MemberDashboard(ctx context.Context, userID string) (*MemberDashboard, error) {
	db := r.DB.WithContext(ctx)
	var d MemberDashboard

	if err := db.Preload("Book").
		Where("user_id = ? AND status IN ?", userID, openStatuses).
		Order("due_date ASC").
		Find(&d.CurrentLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&d.History).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
