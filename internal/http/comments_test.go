package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfslib/library-api/internal/entities"
)

func TestAddCommentEndpoint(t *testing.T) {
	s := setupServer(t)

	w := s.request(t, http.MethodPost, "/comments/add-comment", map[string]any{
		"book_id": 1,
		"user_id": 2,
		"title":   "Great",
		"body":    "Loved it.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotZero(t, decode(t, w)["comment_id"])

	t.Run("missing fields", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/comments/add-comment", map[string]any{
			"book_id": 1,
			"user_id": 2,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("null body", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/comments/add-comment", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetCommentEndpoints(t *testing.T) {
	s := setupServer(t)

	id, err := s.comments.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Great", Body: "text"})
	require.NoError(t, err)

	w := s.request(t, http.MethodGet, fmt.Sprintf("/comments/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Great", decode(t, w)["title"])

	w = s.request(t, http.MethodGet, "/comments/latest-comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = s.request(t, http.MethodGet, "/comments/user/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	t.Run("not found", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/comments/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateCommentEndpoint(t *testing.T) {
	s := setupServer(t)

	id, err := s.comments.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Draft", Body: "wip"})
	require.NoError(t, err)

	w := s.request(t, http.MethodPut, fmt.Sprintf("/comments/%d", id), map[string]any{
		"id":    id,
		"title": "Final",
		"body":  "Done.",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	comment, err := s.comments.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Final", comment.Title)

	t.Run("id mismatch", func(t *testing.T) {
		w := s.request(t, http.MethodPut, fmt.Sprintf("/comments/%d", id), map[string]any{
			"id":    id + 1,
			"title": "Sneaky",
			"body":  "text",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank fields", func(t *testing.T) {
		w := s.request(t, http.MethodPut, fmt.Sprintf("/comments/%d", id), map[string]any{
			"title": "",
			"body":  "",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := s.request(t, http.MethodPut, "/comments/999", map[string]any{
			"title": "Ghost",
			"body":  "text",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteCommentEndpoint(t *testing.T) {
	s := setupServer(t)

	id, err := s.comments.Create(&entities.Comment{BookID: 1, UserID: 2, Title: "Mine", Body: "text"})
	require.NoError(t, err)

	t.Run("owner mismatch", func(t *testing.T) {
		w := s.request(t, http.MethodDelete, fmt.Sprintf("/comments/%d/99", id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w := s.request(t, http.MethodDelete, fmt.Sprintf("/comments/%d/2", id), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	t.Run("already deleted", func(t *testing.T) {
		w := s.request(t, http.MethodDelete, fmt.Sprintf("/comments/%d/2", id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
