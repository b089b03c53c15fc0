// Package scheduler runs periodic maintenance over the library store.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/database/users"
	"github.com/rfslib/library-api/internal/entities"
)

// Maintenance periodically repairs drift between book statuses and borrow
// records, clears session tokens that no longer verify, and reports how many
// stored password hashes still await their login-time upgrade.
type Maintenance struct {
	db         *gorm.DB
	users      *users.Repository
	tokens     *auth.TokenHelper
	bcryptCost int

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenance creates a new maintenance scheduler.
func NewMaintenance(db *gorm.DB, userRepo *users.Repository, tokens *auth.TokenHelper, bcryptCost int) *Maintenance {
	return &Maintenance{
		db:         db,
		users:      userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the maintenance job.
func (m *Maintenance) Start(schedule string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return nil
	}

	_, err := m.cron.AddFunc(schedule, func() {
		if err := m.RunOnce(); err != nil {
			log.Printf("Maintenance run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	m.cron.Start()
	m.isRunning = true
	log.Printf("Maintenance scheduler: started with schedule '%s'", schedule)
	return nil
}

// Stop halts the scheduler. Safe to call when never started.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return
	}
	m.cron.Stop()
	m.isRunning = false
	log.Printf("Maintenance scheduler: stopped")
}

// RunOnce executes one maintenance pass. Exported so it can be triggered
// outside the schedule.
func (m *Maintenance) RunOnce() error {
	if err := m.reconcileBookStatuses(); err != nil {
		return err
	}
	if err := m.clearStaleSessionTokens(); err != nil {
		return err
	}
	return m.reportStaleHashes()
}

// reconcileBookStatuses restores the invariant that a book is CheckedOut
// exactly when it has an open borrow record. Lost and Destroyed books are
// never touched.
func (m *Maintenance) reconcileBookStatuses() error {
	released := m.db.Exec(`UPDATE books SET status = ?
		WHERE status = ?
		AND id NOT IN (SELECT book_id FROM borrow_records WHERE returned_at IS NULL)`,
		entities.StatusAvailable, entities.StatusCheckedOut)
	if released.Error != nil {
		return fmt.Errorf("failed to release orphaned checkouts: %w", released.Error)
	}

	checkedOut := m.db.Exec(`UPDATE books SET status = ?
		WHERE status = ?
		AND id IN (SELECT book_id FROM borrow_records WHERE returned_at IS NULL)`,
		entities.StatusCheckedOut, entities.StatusAvailable)
	if checkedOut.Error != nil {
		return fmt.Errorf("failed to mark borrowed books checked out: %w", checkedOut.Error)
	}

	if released.RowsAffected > 0 || checkedOut.RowsAffected > 0 {
		log.Printf("Maintenance: reconciled book statuses (%d released, %d checked out)",
			released.RowsAffected, checkedOut.RowsAffected)
	}
	return nil
}

// clearStaleSessionTokens drops stored session tokens that no longer verify,
// typically because they expired.
func (m *Maintenance) clearStaleSessionTokens() error {
	allUsers, err := m.users.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	cleared := 0
	for _, user := range allUsers {
		if user.SessionToken == "" {
			continue
		}
		if _, err := m.tokens.Verify(user.SessionToken); err == nil {
			continue
		}
		if err := m.users.SetSessionToken(user.ID, ""); err != nil {
			return fmt.Errorf("failed to clear session token for user %d: %w", user.ID, err)
		}
		cleared++
	}

	if cleared > 0 {
		log.Printf("Maintenance: cleared %d expired session tokens", cleared)
	}
	return nil
}

// reportStaleHashes logs how many accounts still carry a password hash below
// the configured bcrypt cost. Hashes are only ever upgraded at login, when
// the plaintext is available.
func (m *Maintenance) reportStaleHashes() error {
	allUsers, err := m.users.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	stale := 0
	for _, user := range allUsers {
		if auth.IsHashStale(user.PasswordHash, m.bcryptCost) {
			stale++
		}
	}

	if stale > 0 {
		log.Printf("Maintenance: %d of %d password hashes below cost %d, pending login-time upgrade",
			stale, len(allUsers), m.bcryptCost)
	}
	return nil
}
