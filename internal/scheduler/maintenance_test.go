package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/books"
	"github.com/rfslib/library-api/internal/database/borrows"
	"github.com/rfslib/library-api/internal/database/users"
	"github.com/rfslib/library-api/internal/entities"
)

func setupMaintenance(t *testing.T) (*Maintenance, *gorm.DB, *books.Repository, *users.Repository, *auth.TokenHelper) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bookRepo, err := books.NewRepository(db.DB)
	require.NoError(t, err)
	userRepo, err := users.NewRepository(db.DB)
	require.NoError(t, err)

	tokens := auth.NewTokenHelper("test-secret", time.Hour)
	maintenance := NewMaintenance(db.DB, userRepo, tokens, bcrypt.MinCost)
	return maintenance, db.DB, bookRepo, userRepo, tokens
}

func TestRunOnce_ReconcilesBookStatuses(t *testing.T) {
	maintenance, db, bookRepo, userRepo, _ := setupMaintenance(t)

	userID, err := userRepo.Create(&entities.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	// Checked out on paper, but no open borrow record.
	orphanID, err := bookRepo.Create(&entities.Book{Title: "Orphan", Author: "A", Status: entities.StatusCheckedOut})
	require.NoError(t, err)

	// Available on paper, but a loan is open against it.
	driftedID, err := bookRepo.Create(&entities.Book{Title: "Drifted", Author: "B"})
	require.NoError(t, err)
	borrowRepo, err := borrows.NewRepository(db)
	require.NoError(t, err)
	_, err = borrowRepo.BorrowBook(driftedID, userID)
	require.NoError(t, err)
	require.NoError(t, db.Exec("UPDATE books SET status = ? WHERE id = ?", entities.StatusAvailable, driftedID).Error)

	// Lost stays lost regardless of records.
	lostID, err := bookRepo.Create(&entities.Book{Title: "Gone", Author: "C", Status: entities.StatusLost})
	require.NoError(t, err)

	require.NoError(t, maintenance.RunOnce())

	orphan, err := bookRepo.GetByID(orphanID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAvailable, orphan.Status)

	drifted, err := bookRepo.GetByID(driftedID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCheckedOut, drifted.Status)

	lost, err := bookRepo.GetByID(lostID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusLost, lost.Status)
}

func TestRunOnce_ClearsExpiredSessionTokens(t *testing.T) {
	maintenance, _, _, userRepo, tokens := setupMaintenance(t)

	validID, err := userRepo.Create(&entities.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	validToken, err := tokens.Sign(validID)
	require.NoError(t, err)
	require.NoError(t, userRepo.SetSessionToken(validID, validToken))

	expiredID, err := userRepo.Create(&entities.User{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	expiredToken, err := auth.NewTokenHelper("test-secret", -time.Minute).Sign(expiredID)
	require.NoError(t, err)
	require.NoError(t, userRepo.SetSessionToken(expiredID, expiredToken))

	blankID, err := userRepo.Create(&entities.User{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	require.NoError(t, maintenance.RunOnce())

	valid, err := userRepo.GetByID(validID)
	require.NoError(t, err)
	assert.Equal(t, validToken, valid.SessionToken)

	expired, err := userRepo.GetByID(expiredID)
	require.NoError(t, err)
	assert.Empty(t, expired.SessionToken)

	blank, err := userRepo.GetByID(blankID)
	require.NoError(t, err)
	assert.Empty(t, blank.SessionToken)
}

func TestStartAndStop(t *testing.T) {
	maintenance, _, _, _, _ := setupMaintenance(t)

	require.NoError(t, maintenance.Start("0 * * * *"))
	// Starting twice is a no-op.
	require.NoError(t, maintenance.Start("0 * * * *"))
	maintenance.Stop()
	maintenance.Stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	maintenance, _, _, _, _ := setupMaintenance(t)

	err := maintenance.Start("not a schedule")
	assert.Error(t, err)
}
