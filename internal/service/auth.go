// Package service contains the business logic layer.
//
// Handlers parse HTTP and render templates; services enforce the rules and
// orchestrate repositories; repositories talk to SQLite. Services accept
// primitives and return domain errors from the apperror package, so they
// stay free of HTTP concerns and test with plain function calls.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/auth"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// defaultEventID is the event every new account is invited to. The app hosts
// a single invitation, seeded at startup with ID 1.
const defaultEventID = 1

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	invites   repository.InviteRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	invites repository.InviteRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		invites:   invites,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// The first account ever created becomes the admin: whoever sets the app up
// is the host, and there is no separate provisioning step. Every new account
// is also invited to the default event immediately, so a fresh registrant
// lands on the invitation page able to RSVP.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("form", "name, email and password are required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	// Count BEFORE creating: zero existing users means this one is the host.
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: counting users: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      count == 0,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Duplicate email surfaces as ErrConflict; let it propagate so the
		// handler can re-render the form with a message.
		return nil, err
	}

	if err := s.invites.CreateInvite(ctx, &model.Invite{
		EventID: defaultEventID,
		UserID:  user.ID,
	}); err != nil {
		// The account exists and can log in; the invite row will be created
		// lazily on first RSVP. Not worth failing registration over.
		s.logger.Warn("auto-invite failed",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.Bool("admin", user.IsAdmin),
	)
	return user, nil
}

// Login verifies credentials. Both an unknown email and a wrong password
// return ErrUnauthorized with the same message, so the form cannot be used
// to probe which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return user, nil
}

// GetUser returns the account for a session's user ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
