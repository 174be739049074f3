package comments

import "time"

// CreateCommentRequest represents the payload for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content" example:"Nice post!"`
}

// UpdateCommentRequest represents the payload for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is the API view of a single comment.
type CommentResponse struct {
	CommentID int       `json:"commentId"`
	PostID    int       `json:"postId"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCommentResponse(c *Comment, nickname string) CommentResponse {
	return CommentResponse{
		CommentID: c.CommentID,
		PostID:    c.PostID,
		Nickname:  nickname,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
