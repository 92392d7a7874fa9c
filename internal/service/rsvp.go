package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/calendar"
	"github.com/rohan/evite/internal/mail"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// notifyTimeout bounds the background email send so a hung SMTP server
// cannot pile up goroutines forever.
const notifyTimeout = 30 * time.Second

// RSVPService records RSVP responses for both registered guests and
// anonymous walk-ins, and fires the confirmation emails.
type RSVPService struct {
	invites  repository.InviteRepository
	events   repository.EventRepository
	users    repository.UserRepository
	notifier mail.Notifier
	baseURL  string
	logger   *slog.Logger

	// async controls whether notifications run in a goroutine. Tests set it
	// false so they can assert on the notifier synchronously.
	async bool
}

func NewRSVPService(
	invites repository.InviteRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	notifier mail.Notifier,
	baseURL string,
	logger *slog.Logger,
) *RSVPService {
	return &RSVPService{
		invites:  invites,
		events:   events,
		users:    users,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
		async:    true,
	}
}

// normalizeResponse validates the response value and the party quantities.
// A "no" resets the quantities: the stored numbers always describe the party
// that is actually coming.
func normalizeResponse(response string, adults, kids int) (string, int, int, error) {
	response = strings.ToLower(strings.TrimSpace(response))
	if response != model.RSVPYes && response != model.RSVPNo {
		return "", 0, 0, apperror.ValidationFailed("rsvp", "response must be yes or no")
	}
	if response == model.RSVPNo {
		return response, 1, 0, nil
	}
	if adults < 1 {
		adults = 1
	}
	if kids < 0 {
		kids = 0
	}
	return response, adults, kids, nil
}

// Respond records a registered user's RSVP. Responding again overwrites the
// previous answer; the invite row is created on first response if
// registration's auto-invite ever failed.
func (s *RSVPService) Respond(ctx context.Context, eventID, userID int64, response string, adults, kids int) error {
	response, adults, kids, err := normalizeResponse(response, adults, kids)
	if err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	invite, err := s.invites.GetInviteForUser(ctx, eventID, userID)
	switch {
	case err == nil:
		invite.RSVP = response
		invite.AdultsQty = adults
		invite.KidsQty = kids
		if err := s.invites.UpdateInvite(ctx, invite); err != nil {
			return fmt.Errorf("service/rsvp: updating invite %d: %w", invite.ID, err)
		}
	case isNotFound(err):
		invite = &model.Invite{
			EventID:   eventID,
			UserID:    userID,
			RSVP:      response,
			AdultsQty: adults,
			KidsQty:   kids,
		}
		if err := s.invites.CreateInvite(ctx, invite); err != nil {
			return fmt.Errorf("service/rsvp: creating invite: %w", err)
		}
	default:
		return fmt.Errorf("service/rsvp: looking up invite: %w", err)
	}

	s.logger.Info("rsvp recorded",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", userID),
		slog.String("response", response),
	)

	s.notify(eventID, user.Name, user.Email, response, adults, kids, false)
	return nil
}

// RespondAnonymous records an RSVP from someone without an account, usually
// arriving through the QR code. The phone number is the identity: a second
// submission with the same phone updates the first invite instead of adding
// a duplicate guest.
func (s *RSVPService) RespondAnonymous(ctx context.Context, eventID int64, name, phone, email, response string, adults, kids int) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	if name == "" {
		return apperror.ValidationFailed("guest_name", "name is required")
	}
	if phone == "" {
		return apperror.ValidationFailed("guest_phone", "phone number is required")
	}
	response, adults, kids, err := normalizeResponse(response, adults, kids)
	if err != nil {
		return err
	}

	invite, err := s.invites.GetAnonymousInviteByPhone(ctx, eventID, phone)
	switch {
	case err == nil:
		invite.RSVP = response
		invite.AdultsQty = adults
		invite.KidsQty = kids
		invite.GuestName = name
		invite.GuestEmail = email
		if err := s.invites.UpdateInvite(ctx, invite); err != nil {
			return fmt.Errorf("service/rsvp: updating anonymous invite %d: %w", invite.ID, err)
		}
	case isNotFound(err):
		invite = &model.Invite{
			EventID:    eventID,
			RSVP:       response,
			AdultsQty:  adults,
			KidsQty:    kids,
			GuestName:  name,
			GuestEmail: email,
			GuestPhone: phone,
			Anonymous:  true,
		}
		if err := s.invites.CreateInvite(ctx, invite); err != nil {
			return fmt.Errorf("service/rsvp: creating anonymous invite: %w", err)
		}
	default:
		return fmt.Errorf("service/rsvp: looking up anonymous invite: %w", err)
	}

	s.logger.Info("anonymous rsvp recorded",
		slog.Int64("eventID", eventID),
		slog.String("response", response),
	)

	s.notify(eventID, name, email, response, adults, kids, true)
	return nil
}

// InviteFor returns a registered user's invite for an event, so the
// invitation page can show their current answer. ErrNotFound when the user
// has not been invited yet.
func (s *RSVPService) InviteFor(ctx context.Context, eventID, userID int64) (*model.Invite, error) {
	return s.invites.GetInviteForUser(ctx, eventID, userID)
}

// notify assembles and fires the confirmation emails. The RSVP is already
// stored, so failures here are logged and swallowed; the guest never sees
// them. Runs in a goroutine with its own context because the request context
// is cancelled as soon as the redirect is written.
func (s *RSVPService) notify(eventID int64, guestName, guestEmail, response string, adults, kids int, anonymous bool) {
	if s.notifier == nil {
		return
	}

	send := func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		event, err := s.events.GetEvent(nctx, eventID)
		if err != nil {
			s.logger.Error("notification skipped: event lookup failed",
				slog.Int64("eventID", eventID),
				slog.String("error", err.Error()),
			)
			return
		}

		hostEmail := ""
		if admin, err := s.users.GetAdminUser(nctx); err == nil {
			hostEmail = admin.Email
		}

		n := mail.RSVPNotification{
			EventID:    eventID,
			EventTitle: event.Title,
			HostName:   event.Host,
			HostEmail:  hostEmail,
			Location:   event.Location,
			GuestName:  guestName,
			GuestEmail: guestEmail,
			Response:   response,
			AdultsQty:  adults,
			KidsQty:    kids,
			Anonymous:  anonymous,
			AdminURL:   fmt.Sprintf("%s/admin/event/%d", s.baseURL, eventID),
		}
		if at, err := calendar.ParseEventTime(event.Datetime); err == nil {
			n.DateDisplay = calendar.DisplayDate(at)
			n.TimeDisplay = calendar.DisplayTime(at)
		}

		s.notifier.NotifyRSVP(n)
	}

	if s.async {
		go send()
	} else {
		send()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
