package entities

import (
	"fmt"
	"strings"
	"time"
)

// BookStatus is the coarse availability state of a book. It is independent of
// which user currently holds the book.
type BookStatus string

const (
	StatusAvailable  BookStatus = "Available"
	StatusCheckedOut BookStatus = "CheckedOut"
	StatusLost       BookStatus = "Lost"
	StatusDestroyed  BookStatus = "Destroyed"
)

// ParseBookStatus matches a status value case-insensitively.
func ParseBookStatus(s string) (BookStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return StatusAvailable, nil
	case "checkedout":
		return StatusCheckedOut, nil
	case "lost":
		return StatusLost, nil
	case "destroyed":
		return StatusDestroyed, nil
	}
	return "", fmt.Errorf("invalid book status %q", s)
}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null;uniqueIndex:idx_books_title_author" json:"title"`
	Author      string     `gorm:"size:255;uniqueIndex:idx_books_title_author" json:"author,omitempty"`
	PublishYear int        `json:"publish_year,omitempty"`
	Genre       string     `gorm:"size:50" json:"genre,omitempty"`
	Status      BookStatus `gorm:"size:20;default:'Available'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:45;not null" json:"last_name"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	SessionToken string    `gorm:"size:512" json:"-"`
	JoinedAt     time.Time `json:"joined_at"`
}

// BorrowRecord is one loan of one book to one user. It is open (an active
// borrow) while ReturnedAt is NULL, and is never deleted, only closed.
type BorrowRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index;not null" json:"book_id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	BorrowedAt time.Time  `gorm:"not null" json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:45;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (User) TableName() string {
	return "users"
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

func (Comment) TableName() string {
	return "comments"
}
