package repository

import (
	"context"

	"github.com/rohan/evite/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
	// GetAdminUser returns the first admin account. Notification routing
	// assumes at most one admin exists.
	GetAdminUser(ctx context.Context) (*model.User, error)
}

type EventRepository interface {
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
}

type InviteRepository interface {
	CreateInvite(ctx context.Context, invite *model.Invite) error
	UpdateInvite(ctx context.Context, invite *model.Invite) error
	// GetInviteForUser returns the invite a registered user holds for an
	// event, or ErrNotFound.
	GetInviteForUser(ctx context.Context, eventID, userID int64) (*model.Invite, error)
	// GetAnonymousInviteByPhone is the duplicate check for anonymous RSVPs.
	GetAnonymousInviteByPhone(ctx context.Context, eventID int64, phone string) (*model.Invite, error)
	// ListGuests joins invites with user accounts for the admin guest list,
	// ordered by display name.
	ListGuests(ctx context.Context, eventID int64) ([]model.Guest, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListComments returns an event's comments oldest first, with the
	// display name resolved against the users table.
	ListComments(ctx context.Context, eventID int64) ([]model.Comment, error)
}
