// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo, err := users.NewRepository(db)
//	user, err := repo.GetByEmail(email)
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// ErrEmailTaken signals an email that already belongs to an account.
var ErrEmailTaken = errors.New("a user with this email already exists")

// Repository handles all user database operations.
type Repository struct {
	db    *gorm.DB
	users *store.Store[entities.User]
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	users, err := store.New[entities.User](db)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, users: users}, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	return r.users.FindOne(store.Filter{"Email": email})
}

// GetByID retrieves a user by id.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	return r.users.FindOne(store.Filter{"ID": id})
}

// GetAll retrieves every user.
func (r *Repository) GetAll() ([]entities.User, error) {
	return r.users.FindAll(nil)
}

// Create inserts a new user and returns its id. Email uniqueness is enforced
// here: the unique index is the backstop, the lookup gives the friendly error.
func (r *Repository) Create(user *entities.User) (uint, error) {
	existing, err := r.users.FindOne(store.Filter{"Email": user.Email})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	if existing != nil {
		return 0, ErrEmailTaken
	}

	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now().UTC()
	}

	id, err := r.users.Create(user)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update performs a full-record update keyed by the user's id and returns the
// affected count.
func (r *Repository) Update(user *entities.User) (int64, error) {
	affected, err := r.users.Update(store.Fields{
		"FirstName":    user.FirstName,
		"LastName":     user.LastName,
		"Email":        user.Email,
		"PasswordHash": user.PasswordHash,
		"SessionToken": user.SessionToken,
	}, store.Filter{"ID": user.ID})
	if errors.Is(err, store.ErrDuplicate) {
		return 0, ErrEmailTaken
	}
	return affected, err
}

// SetSessionToken stores the user's current session token.
func (r *Repository) SetSessionToken(id uint, token string) error {
	_, err := r.users.Update(store.Fields{"SessionToken": token}, store.Filter{"ID": id})
	return err
}

// SetPasswordHash replaces the user's stored password hash.
func (r *Repository) SetPasswordHash(id uint, hash string) error {
	_, err := r.users.Update(store.Fields{"PasswordHash": hash}, store.Filter{"ID": id})
	return err
}
