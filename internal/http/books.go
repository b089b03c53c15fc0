package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfslib/library-api/internal/database/books"
	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// BooksController handles the book catalogue endpoints.
type BooksController struct {
	repo *books.Repository
}

// NewBooksController creates a new BooksController.
func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// GetAllBooks returns the whole catalogue.
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	allBooks, err := controller.repo.GetAll()
	if err != nil {
		respondInternalError(c, err, "get all books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": allBooks, "count": len(allBooks)})
}

// GetBookByID returns one book or 404.
func (controller *BooksController) GetBookByID(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	book, err := controller.repo.GetByID(bookID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book by id")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// AddBook creates a book and returns its id.
func (controller *BooksController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "book data cannot be null")
		return
	}
	if book.Title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	id, err := controller.repo.Create(&book)
	if errors.Is(err, books.ErrBookExists) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"book_id": id})
}

// UpdateBook applies a partial field-map update to a book. Keys are the
// entity's field names, matched exactly; an unknown key is a caller error.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var fields store.Fields
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		respondBadRequest(c, "update fields cannot be null")
		return
	}

	affected, err := controller.repo.Update(bookID, fields)
	if errors.Is(err, store.ErrUnknownField) {
		respondBadRequest(c, err.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"affected": affected})
}

// editStatusRequest is the strict one-field payload for status changes.
type editStatusRequest struct {
	NewStatus string `json:"new_status"`
}

// UpdateBookStatus changes a book's availability status. The body must
// contain exactly the new_status field; unknown fields are rejected.
func (controller *BooksController) UpdateBookStatus(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req editStatusRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondBadRequest(c, "invalid or missing new_status")
		return
	}
	if req.NewStatus == "" {
		respondBadRequest(c, "new_status cannot be null or empty")
		return
	}

	status, err := entities.ParseBookStatus(req.NewStatus)
	if err != nil {
		respondBadRequest(c, "invalid status value")
		return
	}

	err = controller.repo.UpdateStatus(bookID, status)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book status")
		return
	}
	respondSuccess(c, "book status updated successfully")
}
