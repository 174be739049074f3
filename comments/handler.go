// Package comments, handler layer. Registers its own routes on the router
// group mounted in main.
package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service *CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError(name+" must be a positive integer", nil)
	}
	return id, nil
}

// HandleListByPost godoc
// @Summary List comments of a post
// @Description Paginated active comments of an active post, oldest first.
// @Tags Comments
// @Produce json
// @Param postId path int true "Post ID"
// @Param page query int false "Page (>=1)"
// @Param limit query int false "Page size (1..100, default 20)"
// @Success 200 {object} auth.Envelope "Comments page"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted post"
// @Router /comments/posts/{postId} [get]
func (h *CommentHandler) HandleListByPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postId")
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		page, limit, err := auth.ParsePagination(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		items, pagination, err := h.service.ListByPost(postID, page, limit)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteList(w, http.StatusOK, items, pagination)
	}
}

// HandleCreate godoc
// @Summary Comment on a post
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param commentBody body comments.CreateCommentRequest true "Comment contents"
// @Success 201 {object} auth.Envelope "Created comment"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Blank content"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted post"
// @Router /comments/posts/{postId} [post]
func (h *CommentHandler) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		postID, err := idParam(r, "postId")
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req CreateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Create(user, postID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusCreated, resp)
	}
}

// HandleUpdate godoc
// @Summary Edit a comment
// @Description Owner-only; bumps updated_at.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param commentBody body comments.UpdateCommentRequest true "New contents"
// @Success 200 {object} auth.Envelope "Updated comment"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /comments/{commentId} [patch]
func (h *CommentHandler) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		commentID, err := idParam(r, "commentId")
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req UpdateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Update(user.UserID, commentID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}

// HandleDelete godoc
// @Summary Delete a comment
// @Description Owner-only soft delete.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} auth.Envelope "Comment deleted"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or already deleted"
// @Router /comments/{commentId} [delete]
func (h *CommentHandler) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		commentID, err := idParam(r, "commentId")
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if err := h.service.Delete(user.UserID, commentID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, map[string]string{"message": "comment deleted"})
	}
}

// HandleListMine godoc
// @Summary List own comments
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (>=1)"
// @Param limit query int false "Page size (1..100, default 20)"
// @Success 200 {object} auth.Envelope "Own comments page"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /comments/me [get]
func (h *CommentHandler) HandleListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		page, limit, err := auth.ParsePagination(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		items, pagination, err := h.service.ListMine(user.UserID, page, limit)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteList(w, http.StatusOK, items, pagination)
	}
}
