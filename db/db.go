package db

import (
	"fmt"
	"log"
	"os"

	"library_circulation/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Book{}, &models.Loan{}); err != nil {
		return err
	}

	// At most one open loan per (book, user). Belt and braces next to the
	// transactional check in BorrowBook.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_book_user
	  ON %s (book_id, user_id)
	  WHERE status IN ('active', 'overdue');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// Open-loan counting per book is on the hot path of every borrow.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_book
	  ON %s (book_id)
	  WHERE status IN ('active', 'overdue');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// The sweep scans by due date over active loans only.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_due
	  ON %s (due_date)
	  WHERE status = 'active';
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	return nil
}
