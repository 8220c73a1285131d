package models

import (
	"strings"
	"time"
)

const BookTable = "lib_books"

type Book struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Author      string `gorm:"size:255;not null" json:"author"`
	Genre       string `gorm:"size:120;not null" json:"genre"`
	ISBN        string `gorm:"uniqueIndex;size:32;not null" json:"isbn"`
	TotalCopies int    `gorm:"not null;default:0" json:"totalCopies"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }

// Validate checks the descriptive fields and copy count.
// Returns nil when the book is well formed.
func (b *Book) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(b.Title) == "" {
		errs["title"] = "can't be blank"
	}
	if strings.TrimSpace(b.Author) == "" {
		errs["author"] = "can't be blank"
	}
	if strings.TrimSpace(b.Genre) == "" {
		errs["genre"] = "can't be blank"
	}
	if strings.TrimSpace(b.ISBN) == "" {
		errs["isbn"] = "can't be blank"
	}
	if b.TotalCopies < 0 {
		errs["totalCopies"] = "must be greater than or equal to 0"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
