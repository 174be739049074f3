// Package likes, handler layer. Every route here requires authentication.
package likes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
)

// LikeHandlers provides HTTP handlers for likes.
type LikeHandlers struct {
	service *LikeService
}

// NewLikeHandlers creates new LikeHandlers.
func NewLikeHandlers(service *LikeService) *LikeHandlers {
	return &LikeHandlers{service: service}
}

func postIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError("postId must be a positive integer", nil)
	}
	return id, nil
}

// HandleLike godoc
// @Summary Like a post
// @Description Records a like and increments the post's like count. Liking twice is a conflict.
// @Tags Likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 201 {object} auth.Envelope "Like recorded"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted post"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Already liked"
// @Router /likes/posts/{postId} [post]
func (h *LikeHandlers) HandleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		resp, err := h.service.Like(user.UserID, postID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusCreated, resp)
	}
}

// HandleUnlike godoc
// @Summary Unlike a post
// @Description Removes the caller's active like and decrements the post's like count.
// @Tags Likes
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 204 "Like removed"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - No active like"
// @Router /likes/posts/{postId} [delete]
func (h *LikeHandlers) HandleUnlike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if err := h.service.Unlike(user.UserID, postID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleStatus godoc
// @Summary Like status of a post
// @Description Whether the caller likes the post, plus the total active like count.
// @Tags Likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} auth.Envelope "Like status"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted post"
// @Router /likes/posts/{postId} [get]
func (h *LikeHandlers) HandleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		resp, err := h.service.Status(user.UserID, postID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}

// HandleListMine godoc
// @Summary List posts I like
// @Tags Likes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Envelope "Liked posts"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /likes/me [get]
func (h *LikeHandlers) HandleListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		items, err := h.service.ListMine(user.UserID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, items)
	}
}
