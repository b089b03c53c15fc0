package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfslib/library-api/internal/database/comments"
	"github.com/rfslib/library-api/internal/database/store"
	"github.com/rfslib/library-api/internal/entities"
)

// CommentsController handles the book-comment endpoints.
type CommentsController struct {
	repo *comments.Repository
}

// NewCommentsController creates a new CommentsController.
func NewCommentsController(repo *comments.Repository) *CommentsController {
	return &CommentsController{repo: repo}
}

type addCommentRequest struct {
	BookID uint   `json:"book_id"`
	UserID uint   `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// AddComment creates a comment and returns 201 with its id.
func (controller *CommentsController) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "comment data cannot be null")
		return
	}
	if req.BookID == 0 || req.UserID == 0 || req.Title == "" || req.Body == "" {
		respondBadRequest(c, "book_id, user_id, title and body are required")
		return
	}

	id, err := controller.repo.Create(&entities.Comment{
		BookID: req.BookID,
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		respondInternalError(c, err, "add comment")
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"comment_id": id})
}

type updateCommentRequest struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateComment overwrites a comment's title and body.
func (controller *CommentsController) UpdateComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid data")
		return
	}
	if req.ID != 0 && req.ID != commentID {
		respondBadRequest(c, "comment id mismatch")
		return
	}
	if req.Title == "" || req.Body == "" {
		respondBadRequest(c, "title and body are required")
		return
	}

	err := controller.repo.Update(commentID, req.Title, req.Body)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "comment not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteComment removes a comment owned by the given user.
func (controller *CommentsController) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	err := controller.repo.Delete(commentID, userID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "comment not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCommentByID returns one comment or 404.
func (controller *CommentsController) GetCommentByID(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	comment, err := controller.repo.GetByID(commentID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "comment not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get comment")
		return
	}
	c.IndentedJSON(http.StatusOK, comment)
}

// GetLatestComments returns the five newest comments.
func (controller *CommentsController) GetLatestComments(c *gin.Context) {
	latest, err := controller.repo.Latest()
	if err != nil {
		respondInternalError(c, err, "latest comments")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"comments": latest, "count": len(latest)})
}

// GetCommentsByUser returns a user's comments, newest first.
func (controller *CommentsController) GetCommentsByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	userComments, err := controller.repo.ByUser(userID)
	if err != nil {
		respondInternalError(c, err, "comments by user")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"comments": userComments, "count": len(userComments)})
}
