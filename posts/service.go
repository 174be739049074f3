// Package posts, service layer.
package posts

import (
	"sort"
	"strings"
	"time"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
	"github.com/user/madang-go/store"
)

const (
	postsCollection = "posts"
	usersCollection = "users"
)

// unknownAuthor is shown when a post's author has been deleted or cannot be
// resolved.
const unknownAuthor = "unknown"

// Valid sort keys for post listings.
const (
	SortLatest = "latest"
	SortViews  = "views"
	SortLikes  = "likes"
)

// PostService provides post management on top of the record store.
type PostService struct {
	store *store.Store
}

// NewPostService creates a new PostService.
func NewPostService(st *store.Store) *PostService {
	return &PostService{store: st}
}

// List returns one page of active posts under the given sort order.
// Pagination math runs over the filtered (active) set.
func (s *PostService) List(page, limit int, sortKey string) ([]PostListItem, auth.Pagination, error) {
	if sortKey == "" {
		sortKey = SortLatest
	}
	if sortKey != SortLatest && sortKey != SortViews && sortKey != SortLikes {
		return nil, auth.Pagination{}, apperror.NewValidationError("sort must be one of: latest, views, likes", nil)
	}

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, auth.Pagination{}, err
	}

	active := activePosts(posts)
	sortPosts(active, sortKey)

	total := len(active)
	paged := pageSlice(active, page, limit)

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, auth.Pagination{}, err
	}

	items := make([]PostListItem, 0, len(paged))
	for i := range paged {
		items = append(items, PostListItem{
			PostID:   paged[i].PostID,
			Title:    paged[i].Title,
			Nickname: nicknameOf(nicknames, paged[i].UserID),
		})
	}
	return items, auth.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// Search returns every active post whose title, content, or author nickname
// contains the keyword, case-insensitively. The full result set is returned
// without pagination.
func (s *PostService) Search(keyword string) ([]PostListItem, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, apperror.NewValidationError("keyword is required", nil)
	}

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, err
	}
	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	result := make([]PostListItem, 0)
	for i := range posts {
		if !posts[i].Active() {
			continue
		}
		nickname := nicknameOf(nicknames, posts[i].UserID)
		if strings.Contains(strings.ToLower(posts[i].Title), needle) ||
			strings.Contains(strings.ToLower(posts[i].Content), needle) ||
			strings.Contains(strings.ToLower(nickname), needle) {
			result = append(result, PostListItem{
				PostID:   posts[i].PostID,
				Title:    posts[i].Title,
				Nickname: nickname,
			})
		}
	}
	return result, nil
}

// ListMine returns one page of the acting user's own active posts, newest
// first.
func (s *PostService) ListMine(userID string, page, limit int) ([]PostListItem, auth.Pagination, error) {
	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, auth.Pagination{}, err
	}

	var mine []Post
	for i := range posts {
		if posts[i].Active() && posts[i].UserID == userID {
			mine = append(mine, posts[i])
		}
	}
	sortPosts(mine, SortLatest)

	total := len(mine)
	paged := pageSlice(mine, page, limit)

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, auth.Pagination{}, err
	}

	items := make([]PostListItem, 0, len(paged))
	for i := range paged {
		items = append(items, PostListItem{
			PostID:   paged[i].PostID,
			Title:    paged[i].Title,
			Nickname: nicknameOf(nicknames, paged[i].UserID),
		})
	}
	return items, auth.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// Create validates and stores a new post owned by the acting user.
func (s *PostService) Create(user *auth.User, req CreatePostRequest) (*PostDetailResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperror.NewValidationError("title and content are required", nil)
	}

	unlock := s.store.Lock(postsCollection)
	defer unlock()

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, err
	}

	now := time.Now()
	post := Post{
		PostID:    nextPostID(posts),
		UserID:    user.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	posts = append(posts, post)

	if err := s.store.Save(postsCollection, posts); err != nil {
		return nil, err
	}

	nickname := unknownAuthor
	if user.Nickname != nil {
		nickname = *user.Nickname
	}
	return newPostDetailResponse(&post, nickname), nil
}

// Get returns the detail view of an active post and increments its view
// count, regardless of who (if anyone) is asking. The increment is a write,
// so the whole cycle runs under the posts lock.
func (s *PostService) Get(postID int) (*PostDetailResponse, error) {
	unlock := s.store.Lock(postsCollection)
	defer unlock()

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, err
	}

	post := findActivePost(posts, postID)
	if post == nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}

	post.ViewCount++
	if err := s.store.Save(postsCollection, posts); err != nil {
		return nil, err
	}

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, err
	}
	return newPostDetailResponse(post, nicknameOf(nicknames, post.UserID)), nil
}

// Update applies a partial update to a post owned by the acting user and
// bumps updated_at.
func (s *PostService) Update(userID string, postID int, req UpdatePostRequest) (*PostDetailResponse, error) {
	unlock := s.store.Lock(postsCollection)
	defer unlock()

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return nil, err
	}

	post := findActivePost(posts, postID)
	if post == nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}
	if post.UserID != userID {
		return nil, apperror.NewForbiddenError("no permission to modify this post", nil)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.NewValidationError("title must not be blank", nil)
		}
		post.Title = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, apperror.NewValidationError("content must not be blank", nil)
		}
		post.Content = content
	}
	post.UpdatedAt = time.Now()

	if err := s.store.Save(postsCollection, posts); err != nil {
		return nil, err
	}

	nicknames, err := s.nicknameMap()
	if err != nil {
		return nil, err
	}
	return newPostDetailResponse(post, nicknameOf(nicknames, post.UserID)), nil
}

// Delete soft-deletes a post owned by the acting user. An already-deleted
// post reads as missing, so a repeated delete is a 404.
func (s *PostService) Delete(userID string, postID int) error {
	unlock := s.store.Lock(postsCollection)
	defer unlock()

	var posts []Post
	if err := s.store.Load(postsCollection, &posts); err != nil {
		return err
	}

	post := findActivePost(posts, postID)
	if post == nil {
		return apperror.NewNotFoundError("post not found", nil)
	}
	if post.UserID != userID {
		return apperror.NewForbiddenError("no permission to delete this post", nil)
	}

	post.IsDeleted = true
	post.UpdatedAt = time.Now()
	return s.store.Save(postsCollection, posts)
}

// nicknameMap maps userId -> nickname for all active users.
func (s *PostService) nicknameMap() (map[string]string, error) {
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

func activePosts(posts []Post) []Post {
	active := make([]Post, 0, len(posts))
	for i := range posts {
		if posts[i].Active() {
			active = append(active, posts[i])
		}
	}
	return active
}

func sortPosts(posts []Post, sortKey string) {
	switch sortKey {
	case SortViews:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].ViewCount > posts[j].ViewCount })
	case SortLikes:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].LikeCount > posts[j].LikeCount })
	default: // SortLatest
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	}
}

func pageSlice(posts []Post, page, limit int) []Post {
	start := (page - 1) * limit
	if start >= len(posts) {
		return nil
	}
	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

func findActivePost(posts []Post, postID int) *Post {
	for i := range posts {
		if posts[i].PostID == postID && posts[i].Active() {
			return &posts[i]
		}
	}
	return nil
}

// nextPostID allocates max(existing ids, 0) + 1. Safe only under the posts
// collection lock.
func nextPostID(posts []Post) int {
	max := 0
	for i := range posts {
		if posts[i].PostID > max {
			max = posts[i].PostID
		}
	}
	return max + 1
}
