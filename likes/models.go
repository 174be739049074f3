// Package likes implements post likes: toggling a like on and off, the
// per-post like status, and the caller's liked-post list. It also maintains
// the denormalized likeCount on post records in lockstep with the like
// records themselves.
// This file defines the Like entity as persisted in the "likes" collection.
package likes

import "time"

// Like represents a like record in the "likes" collection. Unliking
// soft-deletes the record; liking again afterwards appends a fresh record,
// so the collection keeps the full history. At most one active record may
// exist per (postId, userId) pair - an invariant this package enforces, not
// the store.
type Like struct {
	LikeID    int       `json:"likeId"`
	PostID    int       `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// Active reports whether the like has not been soft-deleted.
func (l *Like) Active() bool {
	return !l.IsDeleted
}
