package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/validation"
)

type bookmarkResponse struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Link        string    `json:"link"`
	UserID      int64     `json:"userId"`
}

func toBookmarkResponse(b *bookmarks.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:          b.ID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Title:       b.Title,
		Description: b.Description,
		Link:        b.Link,
		UserID:      b.UserID,
	}
}

type createBookmarkRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

type editBookmarkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

// bookmarkID parses the {id} path value.
func bookmarkID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Errors{{Field: "id", Message: "Bookmark id must be a positive integer."}}
	}
	return id, nil
}

// callerAndBookmark returns the authenticated user id and, when withID is
// set, the bookmark id from the path.
func (s *Server) callerAndBookmark(r *http.Request, withID bool) (int64, int64, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, 0, common.ErrUnauthorized
	}
	if !withID {
		return userID, 0, nil
	}
	id, err := bookmarkID(r)
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _, err := s.callerAndBookmark(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req createBookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.CreateBookmark(req.Title, req.Link, req.Description); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bookmarks.Create(r.Context(), userID, bookmarks.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, _, err := s.callerAndBookmark(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.bookmarks.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]bookmarkResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	userID, id, err := s.callerAndBookmark(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bookmarks.Get(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

func (s *Server) handleEditBookmark(w http.ResponseWriter, r *http.Request) {
	userID, id, err := s.callerAndBookmark(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req editBookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.EditBookmark(req.Title, req.Link, req.Description); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bookmarks.Edit(r.Context(), userID, id, bookmarks.Patch{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, id, err := s.callerAndBookmark(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.bookmarks.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
