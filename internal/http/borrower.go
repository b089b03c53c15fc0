package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfslib/library-api/internal/database/borrows"
)

// BorrowerController handles the borrow/return endpoints.
type BorrowerController struct {
	repo *borrows.Repository
}

// NewBorrowerController creates a new BorrowerController.
func NewBorrowerController(repo *borrows.Repository) *BorrowerController {
	return &BorrowerController{repo: repo}
}

// GetLongestCheckedOut returns the books with the largest outstanding borrow
// duration, longest first.
func (controller *BorrowerController) GetLongestCheckedOut(c *gin.Context) {
	result, err := controller.repo.LongestCheckedOut(borrows.DefaultTopN)
	if err != nil {
		respondInternalError(c, err, "longest checked out")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

type borrowRequest struct {
	BookID uint `json:"book_id"`
	UserID uint `json:"user_id"`
}

// BorrowBook opens a loan for a (book, user) pair.
func (controller *BorrowerController) BorrowBook(c *gin.Context) {
	var req borrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid data format, payload is null")
		return
	}
	if req.BookID == 0 || req.UserID == 0 {
		respondBadRequest(c, "'book_id' and 'user_id' must be positive integers")
		return
	}

	borrowID, err := controller.repo.BorrowBook(req.BookID, req.UserID)
	switch {
	case errors.Is(err, borrows.ErrBookNotFound):
		respondNotFound(c, "book not found")
	case errors.Is(err, borrows.ErrUserNotFound):
		respondNotFound(c, "user not found")
	case errors.Is(err, borrows.ErrAlreadyBorrowed):
		respondConflict(c, "this book is already borrowed by the user")
	case errors.Is(err, borrows.ErrBookUnavailable):
		respondConflict(c, "book is not available for borrowing")
	case err != nil:
		respondInternalError(c, err, "borrow book")
	default:
		c.IndentedJSON(http.StatusOK, gin.H{"borrow_id": borrowID})
	}
}

// GetBorrowedBooks lists a user's active loans.
func (controller *BorrowerController) GetBorrowedBooks(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	borrowed, err := controller.repo.ListBorrowed(userID)
	if err != nil {
		respondInternalError(c, err, "list borrowed books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": borrowed, "count": len(borrowed)})
}

// ReturnBook closes a user's active loan for a book.
func (controller *BorrowerController) ReturnBook(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	err := controller.repo.ReturnBook(userID, bookID)
	switch {
	case errors.Is(err, borrows.ErrBorrowNotFound):
		respondNotFound(c, "book is not borrowed by this user or already returned")
	case errors.Is(err, borrows.ErrBookNotFound):
		respondNotFound(c, "book not found")
	case err != nil:
		respondInternalError(c, err, "return book")
	default:
		respondSuccess(c, "book returned successfully")
	}
}
