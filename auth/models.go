// Package auth is responsible for authentication and authorization:
// password hashing, token issuance and validation, and the request middleware
// that resolves a bearer token to an acting user.
// This file defines the User entity as persisted in the "users" collection.
package auth

import "time"

// User represents a user record in the "users" collection.
// Password holds the Argon2id encoded hash; it is serialized into the
// backing JSON file but must never appear in API responses, which is why
// every handler responds with a DTO instead of this struct.
type User struct {
	UserID       string     `json:"userId"`
	Email        string     `json:"email"` // stored lowercase
	Name         string     `json:"name"`
	Password     string     `json:"password"`
	Nickname     *string    `json:"nickname"`
	ProfileImage *string    `json:"profile_image"`
	CreatedAt    time.Time  `json:"created_at"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
}

// Active reports whether the user has not been soft-deleted.
// Soft-deleted users are invisible to every read path but stay in storage.
func (u *User) Active() bool {
	return !u.IsDeleted
}
