package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/auth"
)

func newTestAuthService() (*AuthService, *mockUserRepo, *mockInviteRepo) {
	users := newMockUserRepo()
	invites := newMockInviteRepo()
	passwords := auth.NewPasswordServiceForTest(4)
	svc := NewAuthService(users, invites, passwords, testLogger())
	return svc, users, invites
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc, _, _ := newTestAuthService()

	first, err := svc.Register(context.Background(), "Rohan", "rohan@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !first.IsAdmin {
		t.Error("first registered user should be admin")
	}

	second, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() second user error = %v", err)
	}
	if second.IsAdmin {
		t.Error("second registered user should not be admin")
	}
}

func TestRegister_AutoInvitesToDefaultEvent(t *testing.T) {
	svc, _, invites := newTestAuthService()

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	inv, err := invites.GetInviteForUser(context.Background(), defaultEventID, user.ID)
	if err != nil {
		t.Fatalf("expected auto-invite for event %d: %v", defaultEventID, err)
	}
	if inv.RSVP != "" {
		t.Errorf("fresh invite RSVP = %q, want no response", inv.RSVP)
	}
}

func TestRegister_NormalizesEmailAndTrimsName(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), "  Alice  ", " Alice@Example.COM ", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("Name = %q", user.Name)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased and trimmed", user.Email)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService()

	tests := []struct {
		name, userName, email, password string
	}{
		{"no name", "", "a@example.com", "pw"},
		{"no email", "Alice", "", "pw"},
		{"no password", "Alice", "a@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := svc.Register(context.Background(), "Other Alice", "alice@example.com", "pw2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Login() user ID = %d, want %d", user.ID, registered.ID)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errWrongPW := svc.Login(context.Background(), "alice@example.com", "wrong")
	_, errNoUser := svc.Login(context.Background(), "nobody@example.com", "hunter22")

	if !errors.Is(errWrongPW, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", errWrongPW)
	}
	if !errors.Is(errNoUser, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", errNoUser)
	}
	if errWrongPW.Error() != errNoUser.Error() {
		t.Errorf("error messages differ (%q vs %q): login probe leak", errWrongPW, errNoUser)
	}
}

func TestLogin_StoredHashIsNotPlaintext(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	stored := users.users[user.ID]
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored as plaintext")
	}
	if stored.PasswordHash == "" {
		t.Error("password hash is empty")
	}
}
