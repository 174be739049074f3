// Package auth provides authentication and authorization functionality.
// This file defines the request and response payloads for the token endpoint.
package auth

// LoginRequest represents the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"Str0ngpass!"`
}

// TokenResponse represents the authentication token response returned to the
// client on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"` // Always "bearer".
	ExpiresIn   int64  `json:"expires_in" example:"3600"`   // Access token lifetime in seconds.
}
