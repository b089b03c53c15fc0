package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/books"
	"github.com/rfslib/library-api/internal/database/borrows"
	"github.com/rfslib/library-api/internal/database/comments"
	"github.com/rfslib/library-api/internal/database/users"
)

// RouterConfig carries all router dependencies, keeping NewRouter's
// signature stable as the surface grows.
type RouterConfig struct {
	Database       *database.Database
	Books          *books.Repository
	Borrows        *borrows.Repository
	Comments       *comments.Repository
	Users          *users.Repository
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	BcryptCost     int
	TokenTTL       time.Duration
	SecureCookies  bool
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Every request gets the non-enforcing logged-in annotation; protected
	// routes additionally require a valid session cookie.
	router.Use(cfg.AuthMiddleware.Annotate())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	borrowerController := NewBorrowerController(cfg.Borrows)
	commentsController := NewCommentsController(cfg.Comments)
	usersController := NewUsersController(cfg.Users, cfg.Borrows, cfg.AuthService, cfg.BcryptCost, cfg.TokenTTL, cfg.SecureCookies)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	booksGroup := router.Group("/books")
	{
		booksGroup.GET("", booksController.GetAllBooks)
		booksGroup.GET("/:bookId", booksController.GetBookByID)
		booksGroup.POST("/add-book", booksController.AddBook)
		booksGroup.PUT("/:bookId", booksController.UpdateBook)
		booksGroup.PUT("/:bookId/edit-status", booksController.UpdateBookStatus)
	}

	borrowerGroup := router.Group("/borrower")
	{
		borrowerGroup.GET("/longest-checked-out", borrowerController.GetLongestCheckedOut)
		borrowerGroup.POST("/borrow-book", borrowerController.BorrowBook)
		borrowerGroup.GET("/:userId/borrowed-books", borrowerController.GetBorrowedBooks)
		borrowerGroup.PUT("/:userId/borrowed-books/:bookId", borrowerController.ReturnBook)
	}

	commentsGroup := router.Group("/comments")
	{
		commentsGroup.POST("/add-comment", commentsController.AddComment)
		commentsGroup.GET("/latest-comments", commentsController.GetLatestComments)
		commentsGroup.GET("/user/:userId", commentsController.GetCommentsByUser)
		commentsGroup.GET("/:commentId", commentsController.GetCommentByID)
		commentsGroup.PUT("/:commentId", commentsController.UpdateComment)
		commentsGroup.DELETE("/:commentId/:userId", commentsController.DeleteComment)
	}

	usersGroup := router.Group("/users")
	{
		usersGroup.GET("/email/:email", usersController.GetUserByEmail)
		usersGroup.GET("/id/:userId", usersController.GetUserByID)
		usersGroup.POST("", usersController.CreateUser)
		usersGroup.PUT("/:userId", usersController.UpdateUser)
		usersGroup.POST("/login", usersController.Login)
		usersGroup.POST("/signup", usersController.Signup)
		usersGroup.GET("/profile", cfg.AuthMiddleware.RequireAuth(), usersController.GetProfile)
	}

	return router
}
