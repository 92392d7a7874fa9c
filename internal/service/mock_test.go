package service

// Hand-written in-memory mocks for the repository interfaces. They keep the
// service tests fast and let them simulate conditions (missing rows,
// conflicts) without a database.

import (
	"context"
	"log/slog"
	"os"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/mail"
	"github.com/rohan/evite/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- users ---

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", 0)
}

func (m *mockUserRepo) CountUsers(_ context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepo) GetAdminUser(_ context.Context) (*model.User, error) {
	var admin *model.User
	for _, u := range m.users {
		if u.IsAdmin && (admin == nil || u.ID < admin.ID) {
			admin = u
		}
	}
	if admin == nil {
		return nil, apperror.NotFound("admin user", 0)
	}
	result := *admin
	return &result, nil
}

// --- events ---

type mockEventRepo struct {
	events map[int64]*model.Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*model.Event)}
}

func (m *mockEventRepo) GetEvent(_ context.Context, id int64) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	result := *e
	return &result, nil
}

func (m *mockEventRepo) UpdateEvent(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return apperror.NotFound("event", event.ID)
	}
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

// --- invites ---

type mockInviteRepo struct {
	invites map[int64]*model.Invite
	nextID  int64

	// users resolves registered guests' names for ListGuests; may be nil.
	users *mockUserRepo
}

func newMockInviteRepo() *mockInviteRepo {
	return &mockInviteRepo{invites: make(map[int64]*model.Invite)}
}

func (m *mockInviteRepo) CreateInvite(_ context.Context, invite *model.Invite) error {
	m.nextID++
	invite.ID = m.nextID
	stored := *invite
	m.invites[invite.ID] = &stored
	return nil
}

func (m *mockInviteRepo) UpdateInvite(_ context.Context, invite *model.Invite) error {
	if _, ok := m.invites[invite.ID]; !ok {
		return apperror.NotFound("invite", invite.ID)
	}
	stored := *invite
	m.invites[invite.ID] = &stored
	return nil
}

func (m *mockInviteRepo) GetInviteForUser(_ context.Context, eventID, userID int64) (*model.Invite, error) {
	for _, inv := range m.invites {
		if inv.EventID == eventID && inv.UserID == userID && userID != 0 {
			result := *inv
			return &result, nil
		}
	}
	return nil, apperror.NotFound("invite", 0)
}

func (m *mockInviteRepo) GetAnonymousInviteByPhone(_ context.Context, eventID int64, phone string) (*model.Invite, error) {
	for _, inv := range m.invites {
		if inv.EventID == eventID && inv.Anonymous && inv.GuestPhone == phone {
			result := *inv
			return &result, nil
		}
	}
	return nil, apperror.NotFound("invite", 0)
}

func (m *mockInviteRepo) ListGuests(_ context.Context, eventID int64) ([]model.Guest, error) {
	var guests []model.Guest
	for _, inv := range m.invites {
		if inv.EventID != eventID {
			continue
		}
		g := model.Guest{
			Name:      inv.GuestName,
			Email:     inv.GuestEmail,
			Phone:     inv.GuestPhone,
			RSVP:      inv.RSVP,
			AdultsQty: inv.AdultsQty,
			KidsQty:   inv.KidsQty,
			Anonymous: inv.Anonymous,
		}
		if inv.UserID != 0 && m.users != nil {
			if u, ok := m.users.users[inv.UserID]; ok {
				g.Name = u.Name
				g.Email = u.Email
			}
		}
		if g.Name == "" {
			g.Name = "Anonymous"
		}
		guests = append(guests, g)
	}
	return guests, nil
}

// --- comments ---

type mockCommentRepo struct {
	comments []*model.Comment
	nextID   int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	stored := *comment
	m.comments = append(m.comments, &stored)
	return nil
}

func (m *mockCommentRepo) ListComments(_ context.Context, eventID int64) ([]model.Comment, error) {
	var result []model.Comment
	for _, c := range m.comments {
		if c.EventID == eventID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// --- notifier ---

// recorderNotifier captures notifications instead of sending email.
type recorderNotifier struct {
	sent []mail.RSVPNotification
}

func (r *recorderNotifier) NotifyRSVP(n mail.RSVPNotification) {
	r.sent = append(r.sent, n)
}
