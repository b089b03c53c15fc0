package comments

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db.DB)
	require.NoError(t, err)
	return repo, db.DB
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRepo(t)

	id, err := repo.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Great", Body: "Loved it."})
	require.NoError(t, err)
	require.NotZero(t, id)

	comment, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Great", comment.Title)
	assert.Equal(t, uint(2), comment.UserID)
	assert.False(t, comment.CreatedAt.IsZero())

	_, err = repo.GetByID(999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupRepo(t)

	id, err := repo.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Draft", Body: "wip"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(id, "Final", "Done."))

	comment, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Final", comment.Title)
	assert.Equal(t, "Done.", comment.Body)
	// Ownership and creation time never change on edit.
	assert.Equal(t, uint(2), comment.UserID)

	err = repo.Update(999, "Ghost", "Ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupRepo(t)

	id, err := repo.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Mine", Body: "text"})
	require.NoError(t, err)

	// A non-owner cannot tell the comment exists.
	err = repo.Delete(id, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.GetByID(id)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(id, 2))

	_, err = repo.GetByID(id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = repo.Delete(id, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_Latest(t *testing.T) {
	repo, db := setupRepo(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 7; i++ {
		id, err := repo.Create(&entities.Comment{BookID: 1, UserID: 1, Title: fmt.Sprintf("c%d", i), Body: "text"})
		require.NoError(t, err)
		// Spread creation times a minute apart so the order is unambiguous.
		err = db.Exec("UPDATE comments SET created_at = ? WHERE id = ?", base.Add(time.Duration(i)*time.Minute), id).Error
		require.NoError(t, err)
	}

	latest, err := repo.Latest()
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "c7", latest[0].Title)
	assert.Equal(t, "c3", latest[4].Title)
}

func TestRepository_ByUser(t *testing.T) {
	repo, db := setupRepo(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		id, err := repo.Create(&entities.Comment{BookID: 1, UserID: 7, Title: fmt.Sprintf("mine%d", i), Body: "text"})
		require.NoError(t, err)
		err = db.Exec("UPDATE comments SET created_at = ? WHERE id = ?", base.Add(time.Duration(i)*time.Minute), id).Error
		require.NoError(t, err)
	}
	_, err := repo.Create(&entities.Comment{BookID: 1, UserID: 8, Title: "theirs", Body: "text"})
	require.NoError(t, err)

	mine, err := repo.ByUser(7)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "mine3", mine[0].Title)
	assert.Equal(t, "mine1", mine[2].Title)

	none, err := repo.ByUser(999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
