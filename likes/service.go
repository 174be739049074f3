// Package likes, service layer. Like and Unlike touch two collections
// ("likes" and "posts"), so both cycles run under both collection locks to
// keep the denormalized likeCount consistent with the like records.
package likes

import (
	"sort"
	"time"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/posts"
	"github.com/user/madang-go/store"
)

const (
	likesCollection = "likes"
	postsCollection = "posts"
)

// LikeService provides like management on top of the record store.
type LikeService struct {
	store *store.Store
}

// NewLikeService creates a new LikeService.
func NewLikeService(st *store.Store) *LikeService {
	return &LikeService{store: st}
}

// Like records the acting user's like on an active post and increments the
// post's likeCount. A second like while one is active is a conflict and
// changes nothing.
func (s *LikeService) Like(userID string, postID int) (*LikeResponse, error) {
	unlock := s.store.Lock(likesCollection, postsCollection)
	defer unlock()

	var postList []posts.Post
	if err := s.store.Load(postsCollection, &postList); err != nil {
		return nil, err
	}
	post := findActivePost(postList, postID)
	if post == nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}

	var likeList []Like
	if err := s.store.Load(likesCollection, &likeList); err != nil {
		return nil, err
	}
	if findActiveLike(likeList, postID, userID) != nil {
		return nil, apperror.NewConflictError("post is already liked", nil)
	}

	likeList = append(likeList, Like{
		LikeID:    nextLikeID(likeList),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	post.LikeCount++

	if err := s.store.Save(likesCollection, likeList); err != nil {
		return nil, err
	}
	if err := s.store.Save(postsCollection, postList); err != nil {
		return nil, err
	}
	return &LikeResponse{PostID: postID, LikeCount: post.LikeCount}, nil
}

// Unlike soft-deletes the acting user's active like on a post and decrements
// the post's likeCount. Unliking without an active like is a 404.
func (s *LikeService) Unlike(userID string, postID int) error {
	unlock := s.store.Lock(likesCollection, postsCollection)
	defer unlock()

	var likeList []Like
	if err := s.store.Load(likesCollection, &likeList); err != nil {
		return err
	}
	like := findActiveLike(likeList, postID, userID)
	if like == nil {
		return apperror.NewNotFoundError("like not found", nil)
	}
	like.IsDeleted = true

	var postList []posts.Post
	if err := s.store.Load(postsCollection, &postList); err != nil {
		return err
	}
	// The post may have been deleted since the like was created; the count
	// only needs adjusting while the post record is still around.
	for i := range postList {
		if postList[i].PostID == postID {
			if postList[i].LikeCount > 0 {
				postList[i].LikeCount--
			}
			break
		}
	}

	if err := s.store.Save(likesCollection, likeList); err != nil {
		return err
	}
	return s.store.Save(postsCollection, postList)
}

// Status reports whether the acting user has an active like on the post,
// together with the post's total active like count.
func (s *LikeService) Status(userID string, postID int) (*LikeStatusResponse, error) {
	var postList []posts.Post
	if err := s.store.Load(postsCollection, &postList); err != nil {
		return nil, err
	}
	if findActivePost(postList, postID) == nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}

	var likeList []Like
	if err := s.store.Load(likesCollection, &likeList); err != nil {
		return nil, err
	}

	status := &LikeStatusResponse{}
	for i := range likeList {
		if likeList[i].Active() && likeList[i].PostID == postID {
			status.TotalLikes++
			if likeList[i].UserID == userID {
				status.IsLiked = true
			}
		}
	}
	return status, nil
}

// ListMine returns the active posts the acting user currently likes, most
// recently liked first.
func (s *LikeService) ListMine(userID string) ([]LikedPostItem, error) {
	var likeList []Like
	if err := s.store.Load(likesCollection, &likeList); err != nil {
		return nil, err
	}

	var mine []Like
	for i := range likeList {
		if likeList[i].Active() && likeList[i].UserID == userID {
			mine = append(mine, likeList[i])
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	var postList []posts.Post
	if err := s.store.Load(postsCollection, &postList); err != nil {
		return nil, err
	}

	items := make([]LikedPostItem, 0, len(mine))
	for i := range mine {
		post := findActivePost(postList, mine[i].PostID)
		if post == nil {
			// Liked post has since been deleted; drop it from the view.
			continue
		}
		items = append(items, LikedPostItem{
			PostID:  post.PostID,
			Title:   post.Title,
			LikedAt: mine[i].CreatedAt,
		})
	}
	return items, nil
}

func findActivePost(postList []posts.Post, postID int) *posts.Post {
	for i := range postList {
		if postList[i].PostID == postID && postList[i].Active() {
			return &postList[i]
		}
	}
	return nil
}

func findActiveLike(likeList []Like, postID int, userID string) *Like {
	for i := range likeList {
		if likeList[i].Active() && likeList[i].PostID == postID && likeList[i].UserID == userID {
			return &likeList[i]
		}
	}
	return nil
}

// nextLikeID allocates max(existing ids, 0) + 1. Safe only under the likes
// collection lock.
func nextLikeID(likeList []Like) int {
	max := 0
	for i := range likeList {
		if likeList[i].LikeID > max {
			max = likeList[i].LikeID
		}
	}
	return max + 1
}
