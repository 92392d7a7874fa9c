package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/calendar"
	"github.com/rohan/evite/internal/service"
)

// qrSize is the pixel width of the generated share code.
const qrSize = 256

// CalendarHandler serves the ICS download and the QR code that links to the
// anonymous RSVP page.
type CalendarHandler struct {
	events  *service.EventService
	baseURL string
	logger  *slog.Logger
}

func NewCalendarHandler(events *service.EventService, baseURL string, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{events: events, baseURL: baseURL, logger: logger}
}

// HandleICS serves the event as a downloadable .ics file.
func (h *CalendarHandler) HandleICS(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	links := calendar.BuildLinks(event.Title, event.Description, event.Datetime, event.Location)
	if links.ICS == "" {
		// Unparseable datetime; there is no calendar entry to offer.
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("event_%d.ics", eventID)))
	if _, err := w.Write([]byte(links.ICS)); err != nil {
		h.logger.Error("writing ics failed", slog.String("error", err.Error()))
	}
}

// HandleQR serves a PNG QR code pointing at the anonymous RSVP page, for
// printing on physical invitations.
func (h *CalendarHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	// 404 for events that don't exist rather than encoding a dead link.
	if _, err := h.events.Get(r.Context(), eventID); err != nil {
		h.writeError(w, r, err)
		return
	}

	target := fmt.Sprintf("%s/anonymous-rsvp/%d", h.baseURL, eventID)
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("qr encoding failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.logger.Error("writing qr png failed", slog.String("error", err.Error()))
	}
}

func (h *CalendarHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.logger.Error("calendar request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
