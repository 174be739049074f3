// Package posts, handler layer.
package posts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
)

// PostHandlers provides HTTP handlers for posts.
type PostHandlers struct {
	service *PostService
}

// NewPostHandlers creates new PostHandlers.
func NewPostHandlers(service *PostService) *PostHandlers {
	return &PostHandlers{service: service}
}

// postIDParam parses the postId URL parameter. A malformed id is a
// validation error, not a 404.
func postIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "postId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError("postId must be a positive integer", nil)
	}
	return id, nil
}

// HandleList godoc
// @Summary List posts
// @Description Paginated list of active posts. Sort is one of latest, views, likes.
// @Tags Posts
// @Produce json
// @Param page query int false "Page (>=1)"
// @Param limit query int false "Page size (1..100, default 20)"
// @Param sort query string false "Sort order" Enums(latest, views, likes)
// @Success 200 {object} auth.Envelope "Posts page"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Router /posts [get]
func (h *PostHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := auth.ParsePagination(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		items, pagination, err := h.service.List(page, limit, r.URL.Query().Get("sort"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteList(w, http.StatusOK, items, pagination)
	}
}

// HandleSearch godoc
// @Summary Search posts
// @Description Case-insensitive substring search over title, content, and author nickname.
// @Tags Posts
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {object} auth.Envelope "Matching posts"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Missing keyword"
// @Router /posts/search [get]
func (h *PostHandlers) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.service.Search(r.URL.Query().Get("keyword"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, items)
	}
}

// HandleListMine godoc
// @Summary List own posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (>=1)"
// @Param limit query int false "Page size (1..100, default 20)"
// @Success 200 {object} auth.Envelope "Own posts page"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /posts/me [get]
func (h *PostHandlers) HandleListMine() http.HandlerFunc {
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

// HandleCreate godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postBody body posts.CreatePostRequest true "Post contents"
// @Success 201 {object} auth.Envelope "Created post"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Blank title or content"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /posts [post]
func (h *PostHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Create(user, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusCreated, resp)
	}
}

// HandleGet godoc
// @Summary Get post detail
// @Description Returns the full post and increments its view count, whoever the caller is.
// @Tags Posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} auth.Envelope "Post detail"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Malformed id"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted post"
// @Router /posts/{postId} [get]
func (h *PostHandlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		resp, err := h.service.Get(postID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}

// HandleUpdate godoc
// @Summary Update a post
// @Description Owner-only partial update of title and content.
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param postBody body posts.UpdatePostRequest true "Fields to update"
// @Success 200 {object} auth.Envelope "Updated post"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /posts/{postId} [patch]
func (h *PostHandlers) HandleUpdate() http.HandlerFunc {
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

		var req UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Update(user.UserID, postID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}

// HandleDelete godoc
// @Summary Delete a post
// @Description Owner-only soft delete.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} auth.Envelope "Post deleted"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or already deleted"
// @Router /posts/{postId} [delete]
func (h *PostHandlers) HandleDelete() http.HandlerFunc {
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
		if err := h.service.Delete(user.UserID, postID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, map[string]string{"message": "post deleted"})
	}
}
