package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/calendar"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// EventService handles event details and the admin guest summary.
type EventService struct {
	events  repository.EventRepository
	invites repository.InviteRepository
	logger  *slog.Logger
}

func NewEventService(
	events repository.EventRepository,
	invites repository.InviteRepository,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:  events,
		invites: invites,
		logger:  logger,
	}
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetEvent(ctx, id)
}

// Update applies the admin edit form to an event. Title and a parseable
// datetime are the only hard requirements; everything else may be blank.
// The header image is not editable and keeps its stored value.
func (s *EventService) Update(ctx context.Context, event *model.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return apperror.ValidationFailed("title", "event title is required")
	}
	if _, err := calendar.ParseEventTime(event.Datetime); err != nil {
		return apperror.ValidationFailed("datetime",
			"event date must be in YYYY-MM-DDTHH:MM:SS form")
	}
	if event.CardTheme == "" {
		event.CardTheme = model.DefaultCardTheme
	}

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return fmt.Errorf("service/event: updating event %d: %w", event.ID, err)
	}

	s.logger.Info("event updated",
		slog.Int64("eventID", event.ID),
		slog.String("title", event.Title),
	)
	return nil
}

// GuestSummary returns the full guest list plus the aggregate counts shown
// at the top of the admin page. Adults and kids only count toward the totals
// when the guest answered yes; a declined invite keeps its stored quantities
// but they no longer mean anything.
func (s *EventService) GuestSummary(ctx context.Context, eventID int64) ([]model.Guest, model.RSVPStats, error) {
	guests, err := s.invites.ListGuests(ctx, eventID)
	if err != nil {
		return nil, model.RSVPStats{}, fmt.Errorf("service/event: listing guests for event %d: %w", eventID, err)
	}

	var stats model.RSVPStats
	for _, g := range guests {
		switch g.RSVP {
		case model.RSVPYes:
			stats.Attending++
			stats.TotalAdults += g.AdultsQty
			stats.TotalKids += g.KidsQty
		case model.RSVPNo:
			stats.NotAttending++
		default:
			stats.NoResponse++
		}
	}
	return guests, stats, nil
}
