package models

import "time"

const LoanTable = "lib_loans"

// LoanStatus is the loan state machine tag.
// active → returned (manual return), active → overdue (sweep),
// overdue → returned (manual return). returned is terminal.
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

// Open reports whether the loan still occupies a copy,
// i.e. counts against the book's capacity.
func (s LoanStatus) Open() bool {
	switch s {
	case LoanActive, LoanOverdue:
		return true
	case LoanReturned:
		return false
	}
	return false
}

// LoanPeriod is how long a copy may be kept before it is due.
const LoanPeriod = 14 * 24 * time.Hour

type Loan struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	BookID string `gorm:"type:uuid;index;not null" json:"bookId"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`

	BorrowedAt time.Time  `gorm:"not null" json:"borrowedAt"`
	DueDate    time.Time  `gorm:"type:date;index;not null" json:"dueDate"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`

	Status        LoanStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	ReturnComment *string    `gorm:"size:500" json:"returnComment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Loan) TableName() string { return LoanTable }

// DueDateFor computes the due date for a loan started at the given time:
// the calendar date of borrowedAt plus the loan period.
func DueDateFor(borrowedAt time.Time) time.Time {
	y, m, d := borrowedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(LoanPeriod)
}
