package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/model"
)

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, username, passwordHash string) (int64, error) {
	for _, u := range m.users {
		if u.Username == username {
			return 0, apperror.Conflict("username already exists")
		}
	}
	m.nextID++
	m.users[m.nextID] = &model.User{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	return m.nextID, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordService(bcrypt.MinCost)
	return NewAuthService(repo, tokens, passwords, testLogger()), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "marco", "hunter22", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.ID == 0 {
		t.Error("Register() did not assign a user id")
	}
	if result.Token == "" {
		t.Error("Register() did not auto-login (no session token)")
	}

	// The stored value must be a bcrypt hash, never the plaintext.
	stored := repo.users[result.User.ID]
	if stored.PasswordHash == "hunter22" {
		t.Fatal("Register() stored the plaintext password")
	}
	if !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Errorf("stored hash %q does not look like bcrypt", stored.PasswordHash)
	}
}

func TestRegister_FieldErrorsCollected(t *testing.T) {
	svc, _ := newTestAuthService(t)

	longName := strings.Repeat("x", 13)
	_, err := svc.Register(context.Background(), longName, "", "different")

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want a validation AppError", err)
	}
	for _, field := range []string{"username", "password", "confirm_password"} {
		if appErr.Fields[field] == "" {
			t.Errorf("missing field error for %q (got %v)", field, appErr.Fields)
		}
	}
}

func TestRegister_ConfirmMismatch(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "marco", "hunter22", "hunter23")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Fields["confirm_password"] == "" {
		t.Errorf("missing confirm_password error: %v", appErr.Fields)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "marco", "hunter22", "hunter22"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "marco", "other-pass", "other-pass")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() duplicate error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "marco", "hunter22", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "marco", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.Username != "marco" {
		t.Errorf("Username = %q, want marco", result.User.Username)
	}
	if result.Token == "" {
		t.Error("Login() returned no session token")
	}
}

// Unknown user and wrong password must be indistinguishable to the caller —
// same error kind, same message — so the form can't enumerate usernames.
func TestLogin_FailureMessagesAreIdentical(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "marco", "hunter22", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errWrongPass := svc.Login(context.Background(), "marco", "wrong")
	_, errNoUser := svc.Login(context.Background(), "nobody", "whatever")

	if errWrongPass == nil || errNoUser == nil {
		t.Fatal("Login() accepted bad credentials")
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("messages differ: %q vs %q (username enumeration!)",
			errWrongPass.Error(), errNoUser.Error())
	}
	if !errors.Is(errWrongPass, apperror.ErrValidation) {
		t.Errorf("wrong-password error = %v, want ErrValidation", errWrongPass)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "marco", "hunter22", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), result.User.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if len(repo.users) != 0 {
		t.Error("user still present after DeleteAccount()")
	}
}
