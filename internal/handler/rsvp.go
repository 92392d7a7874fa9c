package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/calendar"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/service"
)

// RSVPHandler serves the anonymous RSVP flow — the page the QR code points
// at, usable without an account.
type RSVPHandler struct {
	events   *service.EventService
	rsvps    *service.RSVPService
	renderer *Renderer
	logger   *slog.Logger
}

func NewRSVPHandler(
	events *service.EventService,
	rsvps *service.RSVPService,
	renderer *Renderer,
	logger *slog.Logger,
) *RSVPHandler {
	return &RSVPHandler{
		events:   events,
		rsvps:    rsvps,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleAnonymousPage renders the anonymous RSVP form. Query parameters
// prefill the fields so a shared link can carry the guest's details.
func (h *RSVPHandler) HandleAnonymousPage(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	q := r.URL.Query()
	h.renderAnonymousForm(w, event, map[string]any{
		"GuestName":  q.Get("name"),
		"GuestPhone": q.Get("phone"),
		"GuestEmail": q.Get("email"),
	})
}

// HandleAnonymousSubmit records a walk-in guest's RSVP. Submitting again
// with the same phone number updates the earlier answer.
func (h *RSVPHandler) HandleAnonymousSubmit(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := r.FormValue("guest_name")
	phone := r.FormValue("guest_phone")
	email := r.FormValue("guest_email")
	response := r.FormValue("rsvp")
	adults := formInt(r, "adults_qty", 1)
	kids := formInt(r, "kids_qty", 0)

	err = h.rsvps.RespondAnonymous(r.Context(), eventID, name, phone, email, response, adults, kids)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			event, getErr := h.events.Get(r.Context(), eventID)
			if getErr != nil {
				h.renderError(w, r, getErr)
				return
			}
			h.renderAnonymousForm(w, event, map[string]any{
				"Error":      "Please provide your name, phone number and response.",
				"GuestName":  name,
				"GuestPhone": phone,
				"GuestEmail": email,
			})
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/rsvp-thanks/%d?rsvp=%s", eventID, response), http.StatusSeeOther)
}

func (h *RSVPHandler) renderAnonymousForm(w http.ResponseWriter, event *model.Event, data map[string]any) {
	data["Event"] = event
	if at, err := calendar.ParseEventTime(event.Datetime); err == nil {
		data["DateDisplay"] = calendar.DisplayDate(at)
		data["TimeDisplay"] = calendar.DisplayTime(at)
	}
	h.renderer.Render(w, http.StatusOK, "anonymous_rsvp.html", data)
}

func (h *RSVPHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
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
