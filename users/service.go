// Package users, service layer. All business rules for accounts live here:
// signup validation and uniqueness, profile updates, and soft deletion.
package users

import (
	"strconv"
	"strings"
	"time"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
	"github.com/user/madang-go/store"
)

const usersCollection = "users"

// passwordSpecials is the fixed set of characters that count as "special"
// for the password policy.
const passwordSpecials = "!@#$%^&*"

// UserService provides account management on top of the record store.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

// Signup validates the request, enforces email/nickname uniqueness among
// active users (case-insensitive), hashes the password and appends the new
// user record.
func (s *UserService) Signup(req SignupRequest) (*SignupResponse, error) {
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return nil, apperror.NewValidationError("email, name, and password are required", nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	unlock := s.store.Lock(usersCollection)
	defer unlock()

	var users []auth.User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	for i := range users {
		if !users[i].Active() {
			continue
		}
		if strings.ToLower(users[i].Email) == email {
			return nil, apperror.NewConflictError("email already exists", nil)
		}
		if req.Nickname != nil && users[i].Nickname != nil &&
			strings.EqualFold(*users[i].Nickname, *req.Nickname) {
			return nil, apperror.NewConflictError("nickname already exists", nil)
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := auth.User{
		UserID:       nextUserID(users),
		Email:        email,
		Name:         req.Name,
		Password:     hashed,
		Nickname:     req.Nickname,
		ProfileImage: req.ProfileImage,
		CreatedAt:    time.Now(),
	}
	users = append(users, user)

	if err := s.store.Save(usersCollection, users); err != nil {
		return nil, err
	}

	return &SignupResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt,
	}, nil
}

// UpdateProfile applies a partial update to the acting user's nickname,
// profile image, or password. Nickname uniqueness is re-checked against other
// active users; a new password goes through the same policy and hashing as at
// signup.
func (s *UserService) UpdateProfile(userID string, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if req.Nickname == nil && req.ProfileImage == nil && req.Password == nil {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	unlock := s.store.Lock(usersCollection)
	defer unlock()

	var users []auth.User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return nil, err
	}

	target := findActiveUser(users, userID)
	if target == nil {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}

	if req.Nickname != nil {
		for i := range users {
			if users[i].UserID == userID || !users[i].Active() {
				continue
			}
			if users[i].Nickname != nil && strings.EqualFold(*users[i].Nickname, *req.Nickname) {
				return nil, apperror.NewConflictError("nickname already exists", nil)
			}
		}
		target.Nickname = req.Nickname
	}
	if req.ProfileImage != nil {
		target.ProfileImage = req.ProfileImage
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		target.Password = hashed
	}

	if err := s.store.Save(usersCollection, users); err != nil {
		return nil, err
	}
	return newProfileResponse(target), nil
}

// Delete soft-deletes the account: the record stays in storage with
// is_deleted set and deleted_at recorded, and the nickname and profile image
// are scrubbed. Deleting an already-deleted account is an error, not a no-op.
func (s *UserService) Delete(userID string) error {
	unlock := s.store.Lock(usersCollection)
	defer unlock()

	var users []auth.User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return err
	}

	var target *auth.User
	for i := range users {
		if users[i].UserID == userID {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return apperror.NewNotFoundError("user not found", nil)
	}
	if target.IsDeleted {
		return apperror.NewBadRequestError("account is already deleted", nil)
	}

	now := time.Now()
	target.IsDeleted = true
	target.DeletedAt = &now
	target.Nickname = nil
	target.ProfileImage = nil

	return s.store.Save(usersCollection, users)
}

// GetPublic returns the public view of a user, or NotFound when the user is
// missing or soft-deleted.
func (s *UserService) GetPublic(userID string) (*PublicUserResponse, error) {
	var users []auth.User
	if err := s.store.Load(usersCollection, &users); err != nil {
		return nil, err
	}
	target := findActiveUser(users, userID)
	if target == nil {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	return newPublicUserResponse(target), nil
}

func findActiveUser(users []auth.User, userID string) *auth.User {
	for i := range users {
		if users[i].UserID == userID && users[i].Active() {
			return &users[i]
		}
	}
	return nil
}

// nextUserID allocates max(existing numeric ids, 0) + 1, formatted back as a
// string. Safe only under the users collection lock.
func nextUserID(users []auth.User) string {
	max := 0
	for i := range users {
		if n, err := strconv.Atoi(users[i].UserID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// validatePassword enforces the signup password policy: minimum length 8,
// at least one uppercase letter, and at least one special character from the
// fixed set.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperror.NewValidationError("password must be at least 8 characters long", nil)
	}
	hasUpper := false
	hasSpecial := false
	for _, c := range password {
		if c >= 'A' && c <= 'Z' {
			hasUpper = true
		}
		if strings.ContainsRune(passwordSpecials, c) {
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return apperror.NewValidationError("password must contain an uppercase letter and a special character ("+passwordSpecials+")", nil)
	}
	return nil
}
