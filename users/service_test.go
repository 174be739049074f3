package users

import (
	"strings"
	"testing"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
	"github.com/user/madang-go/store"
)

func newTestService(t *testing.T) (*UserService, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir(), false)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewUserService(st), st
}

func strPtr(s string) *string { return &s }

func signupReq(email, nickname string) SignupRequest {
	return SignupRequest{
		Email:    email,
		Name:     "Jane Doe",
		Password: "Str0ngpass!",
		Nickname: strPtr(nickname),
	}
}

func TestSignup(t *testing.T) {
	svc, st := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.UserID != "1" {
		t.Fatalf("expected first user id 1, got %q", resp.UserID)
	}
	if resp.Email != "jane@example.com" {
		t.Fatalf("unexpected email: %q", resp.Email)
	}

	var users []auth.User
	if err := st.Load("users", &users); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users))
	}
	if users[0].Password == "Str0ngpass!" || !strings.HasPrefix(users[0].Password, "$argon2id$") {
		t.Fatalf("password stored without hashing: %q", users[0].Password)
	}
}

func TestSignupSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Signup(signupReq("a@example.com", "a"))
	if err != nil {
		t.Fatalf("signup a: %v", err)
	}
	second, err := svc.Signup(signupReq("b@example.com", "b"))
	if err != nil {
		t.Fatalf("signup b: %v", err)
	}
	if first.UserID != "1" || second.UserID != "2" {
		t.Fatalf("expected ids 1 and 2, got %q and %q", first.UserID, second.UserID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Signup(signupReq("jane@example.com", "jane")); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Signup(signupReq("Jane@Example.COM", "other"))
	if !apperror.IsConflictError(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestSignupDuplicateNickname(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Signup(signupReq("a@example.com", "jane")); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Signup(signupReq("b@example.com", "JANE"))
	if !apperror.IsConflictError(err) {
		t.Fatalf("expected conflict for duplicate nickname, got %v", err)
	}
}

func TestSignupPasswordPolicy(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "Sh0rt!"},
		{"no uppercase", "str0ngpass!"},
		{"no special", "Str0ngpass"},
		{"special outside set", "Str0ngpass?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := signupReq("jane@example.com", "jane")
			req.Password = tc.password
			if _, err := svc.Signup(req); !apperror.IsValidationError(err) {
				t.Fatalf("expected validation error for %q, got %v", tc.password, err)
			}
		})
	}
}

func TestSignupMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Signup(SignupRequest{Email: "jane@example.com"}); !apperror.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignupReusesDeletedUsersEmail(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Delete(resp.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Uniqueness applies to active users only.
	if _, err := svc.Signup(signupReq("jane@example.com", "jane2")); err != nil {
		t.Fatalf("signup after delete: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, st := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{
		Nickname:     strPtr("janet"),
		ProfileImage: strPtr("https://cdn.example.com/janet.png"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nickname == nil || *updated.Nickname != "janet" {
		t.Fatalf("nickname not updated: %+v", updated)
	}
	if updated.ProfileImage == nil || *updated.ProfileImage != "https://cdn.example.com/janet.png" {
		t.Fatalf("profile image not updated: %+v", updated)
	}

	var users []auth.User
	if err := st.Load("users", &users); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if users[0].Nickname == nil || *users[0].Nickname != "janet" {
		t.Fatalf("update not persisted: %+v", users[0])
	}
}

func TestUpdateProfileNoFields(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{}); !apperror.IsValidationError(err) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
}

func TestUpdateProfileNicknameConflict(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Signup(signupReq("a@example.com", "alice")); err != nil {
		t.Fatalf("signup a: %v", err)
	}
	resp, err := svc.Signup(signupReq("b@example.com", "bob"))
	if err != nil {
		t.Fatalf("signup b: %v", err)
	}

	if _, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{Nickname: strPtr("Alice")}); !apperror.IsConflictError(err) {
		t.Fatalf("expected conflict for taken nickname, got %v", err)
	}
	// Re-submitting your own nickname is not a conflict.
	if _, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{Nickname: strPtr("bob")}); err != nil {
		t.Fatalf("update to own nickname: %v", err)
	}
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, st := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{Password: strPtr("weak")}); !apperror.IsValidationError(err) {
		t.Fatalf("expected validation error for weak password, got %v", err)
	}

	if _, err := svc.UpdateProfile(resp.UserID, &UpdateProfileRequest{Password: strPtr("N3wpassword!")}); err != nil {
		t.Fatalf("update password: %v", err)
	}

	var users []auth.User
	if err := st.Load("users", &users); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if !auth.VerifyPassword("N3wpassword!", users[0].Password) {
		t.Fatal("new password does not verify against stored hash")
	}
	if auth.VerifyPassword("Str0ngpass!", users[0].Password) {
		t.Fatal("old password still verifies")
	}
}

func TestDelete(t *testing.T) {
	svc, st := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Delete(resp.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Soft delete: the record stays, flagged and scrubbed.
	var users []auth.User
	if err := st.Load("users", &users); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected record to remain, got %d records", len(users))
	}
	if !users[0].IsDeleted || users[0].DeletedAt == nil {
		t.Fatalf("record not marked deleted: %+v", users[0])
	}
	if users[0].Nickname != nil || users[0].ProfileImage != nil {
		t.Fatalf("nickname/profile image not scrubbed: %+v", users[0])
	}

	// A second delete is an error, not a no-op.
	err = svc.Delete(resp.UserID)
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.StatusCode() != 400 {
		t.Fatalf("expected 400 for repeated delete, got %v", err)
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Delete("999"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPublic(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Signup(signupReq("jane@example.com", "jane"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	public, err := svc.GetPublic(resp.UserID)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if public.UserID != resp.UserID || public.Nickname == nil || *public.Nickname != "jane" {
		t.Fatalf("unexpected public view: %+v", public)
	}

	if err := svc.Delete(resp.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPublic(resp.UserID); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found for deleted user, got %v", err)
	}
}
