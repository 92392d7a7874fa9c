package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/auth"
	"github.com/rohan/evite/internal/calendar"
	"github.com/rohan/evite/internal/service"
)

// EventHandler serves the invitation page and its form submissions.
type EventHandler struct {
	events   *service.EventService
	comments *service.CommentService
	rsvps    *service.RSVPService
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

func NewEventHandler(
	events *service.EventService,
	comments *service.CommentService,
	rsvps *service.RSVPService,
	authSvc *service.AuthService,
	renderer *Renderer,
	logger *slog.Logger,
) *EventHandler {
	return &EventHandler{
		events:   events,
		comments: comments,
		rsvps:    rsvps,
		auth:     authSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// idParam extracts the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// HandleView renders the invitation page: event details, calendar links, the
// message wall, and — for signed-in guests — their current RSVP.
func (h *EventHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		h.renderEventError(w, r, err)
		return
	}

	comments, err := h.comments.List(r.Context(), eventID)
	if err != nil {
		h.logger.Error("listing comments failed", slog.String("error", err.Error()))
		comments = nil
	}

	data := map[string]any{
		"Event":       event,
		"Comments":    comments,
		"Calendar":    calendar.BuildLinks(event.Title, event.Description, event.Datetime, event.Location),
		"RSVPSuccess": r.URL.Query().Get("rsvp_success"),
	}
	if at, err := calendar.ParseEventTime(event.Datetime); err == nil {
		data["DateDisplay"] = calendar.DisplayDate(at)
		data["TimeDisplay"] = calendar.DisplayTime(at)
	} else {
		data["DateDisplay"] = event.Datetime
	}

	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		if user, err := h.auth.GetUser(r.Context(), userID); err == nil {
			data["User"] = user
		}
		if invite, err := h.rsvps.InviteFor(r.Context(), eventID, userID); err == nil {
			data["Invite"] = invite
		}
	}

	h.renderer.Render(w, http.StatusOK, "event.html", data)
}

// HandleSubmit dispatches the invitation page's POST forms. Both the RSVP
// form and the comment form post back to the same URL with an "action"
// field, which keeps the page a single route.
func (h *EventHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	switch r.FormValue("action") {
	case "rsvp":
		h.submitRSVP(w, r, eventID)
	case "comment":
		h.submitComment(w, r, eventID)
	default:
		http.Redirect(w, r, fmt.Sprintf("/event/%d", eventID), http.StatusSeeOther)
	}
}

func (h *EventHandler) submitRSVP(w http.ResponseWriter, r *http.Request, eventID int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	response := r.FormValue("response")
	adults := formInt(r, "adults_qty", 1)
	kids := formInt(r, "kids_qty", 0)

	if err := h.rsvps.Respond(r.Context(), eventID, userID, response, adults, kids); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			// A hand-edited form value; just show the page again.
			http.Redirect(w, r, fmt.Sprintf("/event/%d", eventID), http.StatusSeeOther)
			return
		}
		h.renderEventError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/event/%d?rsvp_success=%s", eventID, response), http.StatusSeeOther)
}

func (h *EventHandler) submitComment(w http.ResponseWriter, r *http.Request, eventID int64) {
	userID, _ := auth.UserIDFromContext(r.Context())

	name := r.FormValue("comment_name")
	if name == "" && userID != 0 {
		if user, err := h.auth.GetUser(r.Context(), userID); err == nil {
			name = user.Name
		}
	}

	err := h.comments.Add(r.Context(), eventID, userID, r.FormValue("comment_text"), name)
	if err != nil && !errors.Is(err, apperror.ErrValidation) {
		// Incomplete submissions are dropped silently; real failures are not.
		h.renderEventError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/event/%d", eventID), http.StatusSeeOther)
}

// HandleThanks renders the post-RSVP thank-you page anonymous guests land on.
func (h *EventHandler) HandleThanks(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		h.renderEventError(w, r, err)
		return
	}

	data := map[string]any{
		"Event":    event,
		"Response": r.URL.Query().Get("rsvp"),
	}
	if at, err := calendar.ParseEventTime(event.Datetime); err == nil {
		data["DateDisplay"] = calendar.DisplayDate(at)
		data["TimeDisplay"] = calendar.DisplayTime(at)
	}

	h.renderer.Render(w, http.StatusOK, "thanks.html", data)
}

// renderEventError maps a service error to a status page.
func (h *EventHandler) renderEventError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// formInt parses a form value as an int, falling back to a default for
// missing or malformed input. The service clamps ranges; this only parses.
func formInt(r *http.Request, key string, fallback int) int {
	v := r.FormValue(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
