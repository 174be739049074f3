package posts

import "time"

// CreatePostRequest represents the payload for creating a post.
type CreatePostRequest struct {
	Title   string `json:"title" example:"Hello madang"`
	Content string `json:"content" example:"First post."`
}

// UpdatePostRequest represents a partial post update. Nil fields are left
// untouched; provided fields must not be blank after trimming.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// PostListItem is a row in list and search responses: just enough to render
// a feed entry.
type PostListItem struct {
	PostID   int    `json:"postId"`
	Title    string `json:"title"`
	Nickname string `json:"nickname"` // author nickname, "unknown" when the author is gone
}

// PostDetailResponse is the full view of a single post.
type PostDetailResponse struct {
	PostID    int       `json:"postId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Nickname  string    `json:"nickname"`
	ViewCount int       `json:"viewCount"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPostDetailResponse(p *Post, nickname string) *PostDetailResponse {
	return &PostDetailResponse{
		PostID:    p.PostID,
		Title:     p.Title,
		Content:   p.Content,
		Nickname:  nickname,
		ViewCount: p.ViewCount,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
