// Package service contains the business logic layer: validation rules,
// aggregation arithmetic, and orchestration between repositories and the
// auth utilities. Handlers stay HTTP-only; repositories stay SQL-only.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/repository"
	"github.com/frediet/frediet/internal/validate"
)

// loginFailedMessage is deliberately identical for "no such user" and
// "wrong password" so the login form can't be used to enumerate usernames.
const loginFailedMessage = "invalid username or password"

// AuthService handles registration, login, and account removal.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the account and its freshly issued session token, so
// the handler can set the cookie and redirect in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and logs it in.
//
// Field errors are collected, not fail-fast: length violations, missing
// inputs, and a confirm mismatch are all reported together. The username
// UNIQUE constraint is checked by the insert itself — a duplicate surfaces
// as apperror.ErrConflict with the user-facing "username already exists".
//
// Non-empty password is enforced here rather than by a storage constraint:
// the column stores a bcrypt hash, which is never empty even when the
// plaintext is, so the database can no longer see emptiness.
func (s *AuthService) Register(ctx context.Context, username, password, confirm string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	errs := validate.UserFields(username, password)
	if username == "" {
		errs.Add("username", "username is required")
	}
	if password == "" {
		errs.Add("password", "password is required")
	}
	if password != confirm {
		errs.Add("confirm_password", "passwords don't match")
	}
	if len(errs) > 0 {
		return nil, apperror.ValidationFailed(errs)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("registering %q: %w", username, err)
	}

	id, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create user",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", id),
		slog.String("username", username),
	)

	token, err := s.tokens.Generate(id)
	if err != nil {
		return nil, fmt.Errorf("issuing session for user %d: %w", id, err)
	}

	return &AuthResult{
		User:  &model.User{ID: id, Username: username, PasswordHash: hash},
		Token: token,
	}, nil
}

// Login authenticates a username/password pair and issues a session token.
//
// Unknown usernames and wrong passwords both return ErrValidation with the
// same message. When the user doesn't exist we still burn one bcrypt compare
// against a throwaway hash, so the two failure paths take similar time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.Verify(dummyHash, password)
			return nil, &apperror.AppError{Err: apperror.ErrValidation, Message: loginFailedMessage}
		}
		s.logger.Error("login lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, &apperror.AppError{Err: apperror.ErrValidation, Message: loginFailedMessage}
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing session for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser returns the account for an id, for pages that display the
// logged-in user's name.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// DeleteAccount removes the user and, via the schema cascade, every meal
// they ever logged.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.Int64("userID", userID))
	return nil
}

// dummyHash is a valid bcrypt hash of an unguessable string, compared against
// when a login names a nonexistent user. Cost 10 keeps the timing in the same
// ballpark as a real verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
