// Package comments provides database operations for book comments.
package comments

import (
	"time"

	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// latestLimit caps the latest-comments listing.
const latestLimit = 5

// Repository handles all comment database operations.
type Repository struct {
	db       *gorm.DB
	comments *store.Store[entities.Comment]
}

// NewRepository creates a new comments repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	comments, err := store.New[entities.Comment](db)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, comments: comments}, nil
}

// Create inserts a comment, stamping its creation time, and returns its id.
func (r *Repository) Create(comment *entities.Comment) (uint, error) {
	comment.CreatedAt = time.Now().UTC()
	return r.comments.Create(comment)
}

// GetByID retrieves a comment by id.
func (r *Repository) GetByID(id uint) (*entities.Comment, error) {
	return r.comments.FindOne(store.Filter{"ID": id})
}

// Update overwrites a comment's title and body. Other fields are immutable.
func (r *Repository) Update(id uint, title, body string) error {
	_, err := r.comments.Update(
		store.Fields{"Title": title, "Body": body},
		store.Filter{"ID": id},
	)
	return err
}

// Delete removes a comment, but only when userID owns it. A mismatched owner
// looks the same as a missing comment.
func (r *Repository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Latest returns the newest comments, capped at five.
func (r *Repository) Latest() ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.Order("created_at DESC").Limit(latestLimit).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ByUser returns a user's comments, newest first.
func (r *Repository) ByUser(userID uint) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
