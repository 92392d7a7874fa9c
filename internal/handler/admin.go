package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/auth"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/service"
)

// AdminHandler serves the host's event management page: the edit form, the
// guest list, and the RSVP counts.
type AdminHandler struct {
	events   *service.EventService
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

func NewAdminHandler(
	events *service.EventService,
	authSvc *service.AuthService,
	renderer *Renderer,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		events:   events,
		auth:     authSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// requireAdmin resolves the signed-in admin, or writes the appropriate
// response (login redirect for anonymous, 403 for non-admin accounts) and
// returns nil.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *model.User {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		// Session points at a deleted account; treat as signed out.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	if !user.IsAdmin {
		h.renderAdminError(w, r, apperror.Forbidden("Admin access required"))
		return nil
	}
	return user
}

// HandleAdminPage renders the event edit form plus the guest summary.
func (h *AdminHandler) HandleAdminPage(w http.ResponseWriter, r *http.Request) {
	user := h.requireAdmin(w, r)
	if user == nil {
		return
	}
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		h.renderAdminError(w, r, err)
		return
	}
	guests, stats, err := h.events.GuestSummary(r.Context(), eventID)
	if err != nil {
		h.renderAdminError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "admin.html", map[string]any{
		"User":   user,
		"Event":  event,
		"Guests": guests,
		"Stats":  stats,
	})
}

// HandleAdminUpdate applies the edit form and returns to the invitation.
func (h *AdminHandler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	user := h.requireAdmin(w, r)
	if user == nil {
		return
	}
	eventID, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	event := &model.Event{
		ID:          eventID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Host:        r.FormValue("host"),
		Datetime:    r.FormValue("datetime"),
		Location:    r.FormValue("location"),
		Registry1:   r.FormValue("registry1"),
		Registry2:   r.FormValue("registry2"),
		CardTheme:   r.FormValue("card_theme"),
	}

	if err := h.events.Update(r.Context(), event); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			guests, stats, sumErr := h.events.GuestSummary(r.Context(), eventID)
			if sumErr != nil {
				h.renderAdminError(w, r, sumErr)
				return
			}
			h.renderer.Render(w, http.StatusOK, "admin.html", map[string]any{
				"User":   user,
				"Event":  event,
				"Guests": guests,
				"Stats":  stats,
				"Error":  "Please provide a title and a valid date.",
			})
			return
		}
		h.renderAdminError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/event/%d", eventID), http.StatusSeeOther)
}

func (h *AdminHandler) renderAdminError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrForbidden) {
		http.Error(w, appErr.Message, http.StatusForbidden)
		return
	}
	h.logger.Error("admin request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
