package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/database/borrows"
	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/database/users"
	"github.com/rfslib/library-api/internal/entities"
)

// UsersController handles account lookup, registration and login.
type UsersController struct {
	users         *users.Repository
	borrows       *borrows.Repository
	authService   *auth.Service
	bcryptCost    int
	tokenTTL      time.Duration
	secureCookies bool
}

// NewUsersController creates a new UsersController.
func NewUsersController(repo *users.Repository, borrowRepo *borrows.Repository, authService *auth.Service, bcryptCost int, tokenTTL time.Duration, secureCookies bool) *UsersController {
	return &UsersController{
		users:         repo,
		borrows:       borrowRepo,
		authService:   authService,
		bcryptCost:    bcryptCost,
		tokenTTL:      tokenTTL,
		secureCookies: secureCookies,
	}
}

// GetUserByEmail looks up an account by email.
func (controller *UsersController) GetUserByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		respondBadRequest(c, "email cannot be null or empty")
		return
	}

	user, err := controller.users.GetByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "user not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user by email")
		return
	}
	c.IndentedJSON(http.StatusOK, user)
}

// GetUserByID looks up an account by id.
func (controller *UsersController) GetUserByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := controller.users.GetByID(userID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "user not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user by id")
		return
	}
	c.IndentedJSON(http.StatusOK, user)
}

type createUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// CreateUser registers an account directly. The password is hashed before it
// is stored; plaintext never reaches the database.
func (controller *UsersController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user data cannot be null")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondBadRequest(c, "first_name, last_name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password, controller.bcryptCost)
	if err != nil {
		respondInternalError(c, err, "hash password")
		return
	}

	id, err := controller.users.Create(&entities.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, users.ErrEmailTaken) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create user")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"user_id": id})
}

type updateUserRequest struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateUser performs a full-record update keyed by id. A non-empty password
// is re-hashed; an empty one keeps the stored hash.
func (controller *UsersController) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user data cannot be null")
		return
	}
	if req.ID != 0 && req.ID != userID {
		respondBadRequest(c, "user id mismatch")
		return
	}

	user, err := controller.users.GetByID(userID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "user not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update user")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, controller.bcryptCost)
		if err != nil {
			respondInternalError(c, err, "hash password")
			return
		}
		user.PasswordHash = hash
	}

	affected, err := controller.users.Update(user)
	if errors.Is(err, users.ErrEmailTaken) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "update user")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"affected": affected})
}

// GetProfile returns the calling user's active loans. Requires a valid
// session cookie.
func (controller *UsersController) GetProfile(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == 0 {
		respondUnauthorized(c, "authentication required")
		return
	}

	borrowed, err := controller.borrows.ListBorrowed(userID)
	if err != nil {
		respondInternalError(c, err, "profile")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": borrowed, "count": len(borrowed)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and sets the session cookie.
func (controller *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password cannot be null or empty")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondBadRequest(c, "email and password cannot be null or empty")
		return
	}

	_, token, err := controller.authService.Login(req.Email, req.Password)
	if errors.Is(err, auth.ErrUnknownEmail) {
		respondUnauthorized(c, "user does not exist with this email")
		return
	}
	if errors.Is(err, auth.ErrInvalidPassword) {
		respondUnauthorized(c, "incorrect password")
		return
	}
	if err != nil {
		respondInternalError(c, err, "login")
		return
	}

	c.SetCookie(auth.SessionCookieName, token, int(controller.tokenTTL.Seconds()), "/", "", controller.secureCookies, true)
	c.IndentedJSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Signup registers a new account.
func (controller *UsersController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "all fields are required")
		return
	}

	id, err := controller.authService.Signup(req.FirstName, req.LastName, req.Email, req.Password)
	if errors.Is(err, auth.ErrMissingFields) {
		respondBadRequest(c, "all fields are required")
		return
	}
	if errors.Is(err, users.ErrEmailTaken) {
		respondConflict(c, "user already exists")
		return
	}
	if err != nil {
		respondInternalError(c, err, "signup")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"user_id": id})
}
