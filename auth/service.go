package auth

// This file implements the token service and the login flow. Tokens are
// HS256-signed JWTs binding a subject (userId) to an expiry; there is no
// server-side token state and no revocation list, so a compromised token
// stays valid until natural expiry. That is a documented limitation of the
// design, not an oversight.

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/config"
	"github.com/user/madang-go/store"
)

// usersCollection is the record store collection holding user records.
const usersCollection = "users"

// AuthService provides credential verification and token issuance/validation.
type AuthService struct {
	store      *store.Store
	authConfig config.AuthConfig
}

// NewAuthService creates a new AuthService with its dependencies injected.
func NewAuthService(st *store.Store, authConfig config.AuthConfig) *AuthService {
	return &AuthService{
		store:      st,
		authConfig: authConfig,
	}
}

// CustomClaims embeds jwt.RegisteredClaims and adds the acting user's id.
// The signature covers everything here; nothing client-supplied is trusted
// beyond what it covers.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Login verifies the supplied credentials against the users collection and
// returns a fresh access token. Lookup is by email, case-insensitive, among
// active users only. A missing user and a wrong password produce the same
// error so the response does not reveal which part was wrong.
func (s *AuthService) Login(req LoginRequest) (*TokenResponse, error) {
	var users []User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	var matched *User
	for i := range users {
		if users[i].Active() && strings.ToLower(users[i].Email) == email {
			matched = &users[i]
			break
		}
	}

	if matched == nil || !VerifyPassword(req.Password, matched.Password) {
		return nil, apperror.NewAuthError("email or password does not match", nil)
	}

	token, _, err := s.IssueToken(matched.UserID)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.authConfig.AccessTokenDuration.Seconds()),
	}, nil
}

// IssueToken produces a signed token asserting "this request acts as userID"
// until now + the configured TTL.
func (s *AuthService) IssueToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.authConfig.AccessTokenDuration)
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "madang",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies signature and expiry and returns the embedded claims.
// Any failure (bad signature, malformed payload, expired token) comes back
// as an AuthError.
func ParseToken(tokenString, secret string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperror.NewAuthError("invalid or expired token", err)
	}
	if !token.Valid {
		return nil, apperror.NewAuthError("invalid token", nil)
	}
	if claims.UserID == "" {
		return nil, apperror.NewAuthError("invalid token: user_id claim is missing", errors.New("empty user_id claim"))
	}
	return claims, nil
}
