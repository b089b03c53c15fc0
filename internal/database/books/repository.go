// Package books provides database operations for the book catalogue.
//
// # Usage
//
//	repo, err := books.NewRepository(db)
//	book, err := repo.GetByID(bookID)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// ErrBookExists signals a (title, author) pair that is already in the catalogue.
var ErrBookExists = errors.New("a book with this title and author already exists")

// Repository handles all book database operations.
type Repository struct {
	db    *gorm.DB
	books *store.Store[entities.Book]
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	books, err := store.New[entities.Book](db)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, books: books}, nil
}

// GetAll retrieves every book.
func (r *Repository) GetAll() ([]entities.Book, error) {
	return r.books.FindAll(nil)
}

// GetByID retrieves a book by id.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	return r.books.FindOne(store.Filter{"ID": id})
}

// Create inserts a new book and returns its id. The (title, author) pair must
// be unique regardless of the other fields.
func (r *Repository) Create(book *entities.Book) (uint, error) {
	existing, err := r.books.FindOne(store.Filter{"Title": book.Title, "Author": book.Author})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	if existing != nil {
		return 0, ErrBookExists
	}

	if book.Status == "" {
		book.Status = entities.StatusAvailable
	}

	id, err := r.books.Create(book)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, ErrBookExists
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the named fields on the book with the given id and
// returns the affected count.
func (r *Repository) Update(id uint, fields store.Fields) (int64, error) {
	return r.books.Update(fields, store.Filter{"ID": id})
}

// UpdateStatus changes a book's availability status.
func (r *Repository) UpdateStatus(id uint, status entities.BookStatus) error {
	if _, err := r.books.Update(store.Fields{"Status": status}, store.Filter{"ID": id}); err != nil {
		return fmt.Errorf("failed to update status of book %d: %w", id, err)
	}
	return nil
}
