// Package comments implements post comments: listing per post, creation,
// and owner-only mutation and soft deletion.
// This file defines the Comment entity as persisted in the "comments"
// collection.
package comments

import "time"

// Comment represents a comment record in the "comments" collection.
// The store enforces no referential integrity; this package checks that the
// parent post exists and is active before writing.
type Comment struct {
	CommentID int       `json:"commentId"`
	PostID    int       `json:"postId"` // parent post
	UserID    string    `json:"userId"` // owner
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// Active reports whether the comment has not been soft-deleted.
func (c *Comment) Active() bool {
	return !c.IsDeleted
}
