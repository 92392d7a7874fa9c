package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/auth"
	"github.com/rohan/evite/internal/service"
)

// AuthHandler serves the register, login and logout routes.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *auth.SessionStore
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(
	authSvc *service.AuthService,
	sessions *auth.SessionStore,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register.html", nil)
}

// HandleRegister processes the registration form. On success the new user is
// logged in immediately and lands on the invitation page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Register(r.Context(), name, email, password)
	if err != nil {
		// Re-render the form with an inline message and the typed values,
		// so a typo does not cost the guest the whole form.
		data := map[string]any{"Name": name, "Email": email}
		switch {
		case errors.Is(err, apperror.ErrValidation):
			data["Error"] = "Please fill all fields."
		case errors.Is(err, apperror.ErrConflict):
			data["Error"] = "Email already registered."
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			data["Error"] = "Something went wrong. Please try again."
		}
		h.renderer.Render(w, http.StatusOK, "register.html", data)
		return
	}

	auth.SetCookie(w, h.sessions.Create(user.ID))
	http.Redirect(w, r, "/event/1", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", nil)
}

// HandleLogin processes the login form.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		data := map[string]any{"Email": email}
		if errors.Is(err, apperror.ErrUnauthorized) {
			data["Error"] = "Invalid email or password."
		} else {
			h.logger.Error("login failed", slog.String("error", err.Error()))
			data["Error"] = "Something went wrong. Please try again."
		}
		h.renderer.Render(w, http.StatusOK, "login.html", data)
		return
	}

	auth.SetCookie(w, h.sessions.Create(user.ID))
	http.Redirect(w, r, "/event/1", http.StatusSeeOther)
}

// HandleLogout drops the session and returns to the invitation.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
