package books

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db.DB)
	require.NoError(t, err)
	return repo
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.Create(&entities.Book{Title: "Dune", Author: "Herbert", PublishYear: 1965, Genre: "SF"})
	require.NoError(t, err)
	require.NotZero(t, id)

	book, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Herbert", book.Author)
	// Status defaults to Available when not given.
	assert.Equal(t, entities.StatusAvailable, book.Status)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_CreateDuplicateTitleAuthor(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Create(&entities.Book{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	_, err = repo.Create(&entities.Book{Title: "Dune", Author: "Herbert", PublishYear: 2001})
	assert.ErrorIs(t, err, ErrBookExists)

	// Same title by a different author is a different book.
	_, err = repo.Create(&entities.Book{Title: "Dune", Author: "Someone Else"})
	assert.NoError(t, err)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.Create(&entities.Book{Title: "Draft", Author: "Anon"})
	require.NoError(t, err)

	affected, err := repo.Update(id, store.Fields{"Title": "Final", "Genre": "Essay"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	book, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Final", book.Title)
	assert.Equal(t, "Essay", book.Genre)
	assert.Equal(t, "Anon", book.Author)

	_, err = repo.Update(id, store.Fields{"Nonsense": true})
	assert.ErrorIs(t, err, store.ErrUnknownField)

	_, err = repo.Update(9999, store.Fields{"Title": "Ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.Create(&entities.Book{Title: "Fragile", Author: "Clumsy"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(id, entities.StatusLost))

	book, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusLost, book.Status)

	err = repo.UpdateStatus(9999, entities.StatusDestroyed)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
