// Package posts implements the post feature: listing, search, creation,
// detail views with view counting, and owner-only mutation.
// This file defines the Post entity as persisted in the "posts" collection.
package posts

import "time"

// Post represents a post record in the "posts" collection.
// LikeCount is denormalized: the likes service keeps it in lockstep with the
// number of active like records referencing the post.
type Post struct {
	PostID    int       `json:"postId"`
	UserID    string    `json:"userId"` // owner
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ViewCount int       `json:"viewCount"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// Active reports whether the post has not been soft-deleted.
func (p *Post) Active() bool {
	return !p.IsDeleted
}
