// Package users encapsulates account management: signup, profile reads and
// updates, and account soft-deletion.
// This file defines the request/response payloads for the users module.
package users

import (
	"time"

	"github.com/user/madang-go/auth"
)

// SignupRequest represents the signup payload.
type SignupRequest struct {
	Email        string  `json:"email" example:"user@example.com"`
	Name         string  `json:"name" example:"Jane Doe"`
	Password     string  `json:"password" example:"Str0ngpass!"`
	Nickname     *string `json:"nickname,omitempty" example:"jane"`
	ProfileImage *string `json:"profile_image,omitempty" example:"https://cdn.example.com/jane.png"`
}

// UpdateProfileRequest represents a partial profile update. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Nickname     *string `json:"nickname,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// SignupResponse is returned on successful signup. The password hash is
// deliberately absent.
type SignupResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Nickname  *string   `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse is the authenticated user's own view of their account.
type ProfileResponse struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Nickname     *string   `json:"nickname"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUserResponse exposes only the public fields of a user: no email, no
// credential material.
type PublicUserResponse struct {
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Nickname     *string   `json:"nickname"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProfileResponse(u *auth.User) *ProfileResponse {
	return &ProfileResponse{
		UserID:       u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func newPublicUserResponse(u *auth.User) *PublicUserResponse {
	return &PublicUserResponse{
		UserID:       u.UserID,
		Name:         u.Name,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}
