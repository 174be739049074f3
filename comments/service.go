// Package comments, service layer.
package comments

import (
	"sort"
	"strings"
	"time"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
	"github.com/user/madang-go/posts"
	"github.com/user/madang-go/store"
)

const (
	commentsCollection = "comments"
	postsCollection    = "posts"
	usersCollection    = "users"
)

const unknownAuthor = "unknown"

// CommentService provides comment management on top of the record store.
type CommentService struct {
	store *store.Store
}

// NewCommentService creates a new CommentService.
func NewCommentService(st *store.Store) *CommentService {
	return &CommentService{store: st}
}

// ListByPost returns one page of the active comments under an active post,
// oldest first. A missing or deleted post is a 404 even if orphaned comments
// reference it.
func (s *CommentService) ListByPost(postID, page, limit int) ([]CommentResponse, auth.Pagination, error) {
	if err := s.requireActivePost(postID); err != nil {
		return nil, auth.Pagination{}, err
	}

	var comments []Comment
	if err := s.store.Load(commentsCollection, &comments); err != nil {
		return nil, auth.Pagination{}, err
	}

	var active []Comment
	for i := range comments {
		if comments[i].Active() && comments[i].PostID == postID {
			active = append(active, comments[i])
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })

	total := len(active)
	start := (page - 1) * limit
	var paged []Comment
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		paged = active[start:end]
	}

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, auth.Pagination{}, err
	}

	items := make([]CommentResponse, 0, len(paged))
	for i := range paged {
		items = append(items, newCommentResponse(&paged[i], nicknameOf(nicknames, paged[i].UserID)))
	}
	return items, auth.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// ListMine returns one page of the acting user's own active comments, newest
// first.
func (s *CommentService) ListMine(userID string, page, limit int) ([]CommentResponse, auth.Pagination, error) {
	var comments []Comment
	if err := s.store.Load(commentsCollection, &comments); err != nil {
		return nil, auth.Pagination{}, err
	}

	var mine []Comment
	for i := range comments {
		if comments[i].Active() && comments[i].UserID == userID {
			mine = append(mine, comments[i])
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	total := len(mine)
	start := (page - 1) * limit
	var paged []Comment
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		paged = mine[start:end]
	}

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, auth.Pagination{}, err
	}

	items := make([]CommentResponse, 0, len(paged))
	for i := range paged {
		items = append(items, newCommentResponse(&paged[i], nicknameOf(nicknames, paged[i].UserID)))
	}
	return items, auth.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// Create stores a new comment by the acting user under an active post.
func (s *CommentService) Create(user *auth.User, postID int, req CreateCommentRequest) (*CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.NewValidationError("content is required", nil)
	}
	if err := s.requireActivePost(postID); err != nil {
		return nil, err
	}

	unlock := s.store.Lock(commentsCollection)
	defer unlock()

	var comments []Comment
	if err := s.store.Load(commentsCollection, &comments); err != nil {
		return nil, err
	}

	now := time.Now()
	comment := Comment{
		CommentID: nextCommentID(comments),
		PostID:    postID,
		UserID:    user.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	comments = append(comments, comment)

	if err := s.store.Save(commentsCollection, comments); err != nil {
		return nil, err
	}

	nickname := unknownAuthor
	if user.Nickname != nil {
		nickname = *user.Nickname
	}
	resp := newCommentResponse(&comment, nickname)
	return &resp, nil
}

// Update edits a comment owned by the acting user and bumps updated_at.
func (s *CommentService) Update(userID string, commentID int, req UpdateCommentRequest) (*CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.NewValidationError("content is required", nil)
	}

	unlock := s.store.Lock(commentsCollection)
	defer unlock()

	var comments []Comment
	if err := s.store.Load(commentsCollection, &comments); err != nil {
		return nil, err
	}

	comment := findActiveComment(comments, commentID)
	if comment == nil {
		return nil, apperror.NewNotFoundError("comment not found", nil)
	}
	if comment.UserID != userID {
		return nil, apperror.NewForbiddenError("no permission to modify this comment", nil)
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()

	if err := s.store.Save(commentsCollection, comments); err != nil {
		return nil, err
	}

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, err
	}
	resp := newCommentResponse(comment, nicknameOf(nicknames, comment.UserID))
	return &resp, nil
}

// Delete soft-deletes a comment owned by the acting user. A repeated delete
// reads as missing and is a 404.
func (s *CommentService) Delete(userID string, commentID int) error {
	unlock := s.store.Lock(commentsCollection)
	defer unlock()

	var comments []Comment
	if err := s.store.Load(commentsCollection, &comments); err != nil {
		return err
	}

	comment := findActiveComment(comments, commentID)
	if comment == nil {
		return apperror.NewNotFoundError("comment not found", nil)
	}
	if comment.UserID != userID {
		return apperror.NewForbiddenError("no permission to delete this comment", nil)
	}

	comment.IsDeleted = true
	comment.UpdatedAt = time.Now()
	return s.store.Save(commentsCollection, comments)
}

// requireActivePost checks that the parent post exists and is active.
func (s *CommentService) requireActivePost(postID int) error {
	var postList []posts.Post
	if err := s.store.Load(postsCollection, &postList); err != nil {
		return err
	}
	for i := range postList {
		if postList[i].PostID == postID && postList[i].Active() {
			return nil
		}
	}
	return apperror.NewNotFoundError("post not found", nil)
}

func (s *CommentService) nicknameMap() (map[string]string, error) {
	var users []auth.User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(users))
	for i := range users {
		if users[i].Active() && users[i].Nickname != nil {
			m[users[i].UserID] = *users[i].Nickname
		}
	}
	return m, nil
}

func nicknameOf(nicknames map[string]string, userID string) string {
	if n, ok := nicknames[userID]; ok {
		return n
	}
	return unknownAuthor
}

func findActiveComment(comments []Comment, commentID int) *Comment {
	for i := range comments {
		if comments[i].CommentID == commentID && comments[i].Active() {
			return &comments[i]
		}
	}
	return nil
}

// nextCommentID allocates max(existing ids, 0) + 1. Safe only under the
// comments collection lock.
func nextCommentID(comments []Comment) int {
	max := 0
	for i := range comments {
		if comments[i].CommentID > max {
			max = comments[i].CommentID
		}
	}
	return max + 1
}
