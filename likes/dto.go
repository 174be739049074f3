package likes

import "time"

// LikeResponse is returned after a successful like, carrying the new
// denormalized count.
type LikeResponse struct {
	PostID    int `json:"postId"`
	LikeCount int `json:"likeCount"`
}

// LikeStatusResponse describes a post's like state from the caller's point
// of view.
type LikeStatusResponse struct {
	IsLiked    bool `json:"is_liked"`
	TotalLikes int  `json:"total_likes"`
}

// LikedPostItem is a row in the caller's liked-post list.
type LikedPostItem struct {
	PostID  int       `json:"postId"`
	Title   string    `json:"title"`
	LikedAt time.Time `json:"liked_at"`
}
