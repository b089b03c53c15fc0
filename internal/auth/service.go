package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/database/users"
	"github.com/rfslib/library-api/internal/entities"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrUnknownEmail  = errors.New("no user exists with this email")
)

// Service handles login and signup.
type Service struct {
	users      *users.Repository
	tokens     *TokenHelper
	bcryptCost int
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, tokens *TokenHelper, bcryptCost int) *Service {
	return &Service{
		users:      repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login validates credentials, issues a session token and stores it on the
// user record. Returns the user and the token.
//
// A stored hash produced at a lower bcrypt cost than currently configured is
// upgraded here, from the just-verified plaintext. This is the only place a
// password is ever re-hashed.
func (s *Service) Login(email, password string) (*entities.User, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrUnknownEmail
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	}

	if IsHashStale(user.PasswordHash, s.bcryptCost) {
		if hash, err := HashPassword(password, s.bcryptCost); err == nil {
			if err := s.users.SetPasswordHash(user.ID, hash); err != nil {
				log.Printf("Failed to upgrade password hash for user %d: %v", user.ID, err)
			} else {
				user.PasswordHash = hash
			}
		}
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.users.SetSessionToken(user.ID, token); err != nil {
		return nil, "", fmt.Errorf("failed to store session token: %w", err)
	}

	return user, token, nil
}

// Signup registers a new account and returns its id. Every field is required;
// the password is hashed before it is stored.
func (s *Service) Signup(firstName, lastName, email, password string) (uint, error) {
	if isBlank(firstName) || isBlank(lastName) || isBlank(email) || isBlank(password) {
		return 0, ErrMissingFields
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		JoinedAt:     time.Now().UTC(),
	}
	return s.users.Create(user)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
