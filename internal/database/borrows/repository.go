// Package borrows implements the borrow/return lifecycle on (book, user)
// pairs. Both transitions run inside a single transaction so the book status
// and the borrow record can never be half-applied; the partial unique index
// on open borrow records is the authoritative detector for concurrent
// borrow attempts that race past the status check.
package borrows

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// DefaultTopN is the result cap for LongestCheckedOut.
const DefaultTopN = 5

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyBorrowed = errors.New("this book is already borrowed by the user")
	ErrBookUnavailable = errors.New("book is not available for borrowing")
	// ErrBorrowNotFound signals that a (user, book) pair has no open borrow.
	ErrBorrowNotFound = errors.New("book is not borrowed by this user or already returned")
)

// BorrowedBook is one active loan with the book's display fields attached.
type BorrowedBook struct {
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// BookSummary holds the display fields of a checked-out book.
type BookSummary struct {
	BookID uint   `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
}

// UserSummary holds the display fields of a borrower.
type UserSummary struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CheckedOutBook aggregates the outstanding borrow duration of one book
// across its open borrow records.
type CheckedOutBook struct {
	Book      BookSummary `json:"book"`
	User      UserSummary `json:"user"`
	TotalDays float64     `json:"total_days"`
}

// Repository handles all borrow-record database operations.
type Repository struct {
	db      *gorm.DB
	books   *store.Store[entities.Book]
	users   *store.Store[entities.User]
	records *store.Store[entities.BorrowRecord]
}

// NewRepository creates a new borrows repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	books, err := store.New[entities.Book](db)
	if err != nil {
		return nil, err
	}
	users, err := store.New[entities.User](db)
	if err != nil {
		return nil, err
	}
	records, err := store.New[entities.BorrowRecord](db)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, books: books, users: users, records: records}, nil
}

// BorrowBook opens a borrow record for the pair and checks the book out.
// The book's status is authoritative: a book that is not Available cannot be
// borrowed, no matter who holds it.
func (r *Repository) BorrowBook(bookID, userID uint) (uint, error) {
	var borrowID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		books := r.books.WithTx(tx)
		users := r.users.WithTx(tx)
		records := r.records.WithTx(tx)

		book, err := books.FindOne(store.Filter{"ID": bookID})
		if errors.Is(err, store.ErrNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return err
		}

		if _, err := users.FindOne(store.Filter{"ID": userID}); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		_, err = records.FindOne(store.Filter{"BookID": bookID, "UserID": userID, "ReturnedAt": nil})
		if err == nil {
			return ErrAlreadyBorrowed
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if book.Status != entities.StatusAvailable {
			return ErrBookUnavailable
		}

		if _, err := books.Update(store.Fields{"Status": entities.StatusCheckedOut}, store.Filter{"ID": bookID}); err != nil {
			return err
		}

		record := &entities.BorrowRecord{
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: time.Now().UTC(),
		}
		id, err := records.Create(record)
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race for the active-borrow index.
			return ErrBookUnavailable
		}
		if err != nil {
			return err
		}

		borrowID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return borrowID, nil
}

// ReturnBook closes the open borrow record for the pair and marks the book
// Available again.
func (r *Repository) ReturnBook(userID, bookID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		books := r.books.WithTx(tx)
		records := r.records.WithTx(tx)

		record, err := records.FindOne(store.Filter{"BookID": bookID, "UserID": userID, "ReturnedAt": nil})
		if errors.Is(err, store.ErrNotFound) {
			return ErrBorrowNotFound
		}
		if err != nil {
			return err
		}

		if _, err := books.FindOne(store.Filter{"ID": bookID}); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if _, err := books.Update(store.Fields{"Status": entities.StatusAvailable}, store.Filter{"ID": bookID}); err != nil {
			return err
		}

		now := time.Now().UTC()
		if _, err := records.Update(store.Fields{"ReturnedAt": &now}, store.Filter{"ID": record.ID}); err != nil {
			return err
		}
		return nil
	})
}

// ListBorrowed returns the user's active loans with book display fields.
func (r *Repository) ListBorrowed(userID uint) ([]BorrowedBook, error) {
	var borrowed []BorrowedBook
	err := r.db.Table("borrow_records").
		Select("borrow_records.book_id, books.title, books.author, borrow_records.borrowed_at").
		Joins("JOIN books ON books.id = borrow_records.book_id").
		Where("borrow_records.user_id = ? AND borrow_records.returned_at IS NULL", userID).
		Order("borrow_records.borrowed_at").
		Scan(&borrowed).Error
	if err != nil {
		return nil, err
	}
	return borrowed, nil
}

// activeLoan is the join row LongestCheckedOut aggregates over.
type activeLoan struct {
	BookID     uint
	Title      string
	Author     string
	UserID     uint
	FirstName  string
	LastName   string
	BorrowedAt time.Time
}

// LongestCheckedOut sums the outstanding borrow duration per checked-out book
// and returns the top entries, longest first. Ties break on ascending book id.
// The attached user is the book's earliest open borrower.
func (r *Repository) LongestCheckedOut(limit int) ([]CheckedOutBook, error) {
	if limit <= 0 {
		limit = DefaultTopN
	}

	var loans []activeLoan
	err := r.db.Table("borrow_records").
		Select(`borrow_records.book_id, books.title, books.author,
			borrow_records.user_id, users.first_name, users.last_name,
			borrow_records.borrowed_at`).
		Joins("JOIN books ON books.id = borrow_records.book_id").
		Joins("JOIN users ON users.id = borrow_records.user_id").
		Where("borrow_records.returned_at IS NULL AND books.status = ?", entities.StatusCheckedOut).
		Order("borrow_records.id").
		Scan(&loans).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	totals := make(map[uint]*CheckedOutBook)
	for _, loan := range loans {
		entry, ok := totals[loan.BookID]
		if !ok {
			entry = &CheckedOutBook{
				Book: BookSummary{BookID: loan.BookID, Title: loan.Title, Author: loan.Author},
				User: UserSummary{UserID: loan.UserID, FirstName: loan.FirstName, LastName: loan.LastName},
			}
			totals[loan.BookID] = entry
		}
		entry.TotalDays += now.Sub(loan.BorrowedAt).Hours() / 24
	}

	result := make([]CheckedOutBook, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalDays != result[j].TotalDays {
			return result[i].TotalDays > result[j].TotalDays
		}
		return result[i].Book.BookID < result[j].Book.BookID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
