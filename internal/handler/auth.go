package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/service"
)

// AuthHandler serves the login and register forms and manages the session
// cookie. These are HTML endpoints: failures re-render the form with an
// error instead of returning JSON.
type AuthHandler struct {
	auth      *service.AuthService
	tokens    *auth.TokenService
	templates *Templates
	logger    *slog.Logger
}

func NewAuthHandler(
	authSvc *service.AuthService,
	tokens *auth.TokenService,
	tmpl *Templates,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:      authSvc,
		tokens:    tokens,
		templates: tmpl,
		logger:    logger,
	}
}

// authPageData is the template context for the login and register forms.
// Error holds a whole-form message; FieldErrors holds per-input messages.
// Username echoes the submitted name back so the user doesn't retype it.
type authPageData struct {
	Title       string
	Error       string
	FieldErrors map[string]string
	Username    string
}

// HandleIndex routes / to the dashboard for a logged-in browser and to the
// login page otherwise.
func (h *AuthHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if _, err := h.tokens.Validate(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the empty login form. GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.render(w, "login", authPageData{Title: "Log in"})
}

// HandleLogin processes a login form submission. POST /login
//
// Bad credentials re-render the form with one message that never says
// whether the username exists.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
			h.templates.render(w, "login", authPageData{
				Title:    "Log in",
				Error:    appErr.Message,
				Username: username,
			})
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleRegisterPage renders the empty registration form. GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.templates.render(w, "register", authPageData{Title: "Register"})
}

// HandleRegister processes a registration form submission. POST /register
// A successful registration logs the new account straight in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	result, err := h.auth.Register(r.Context(), username,
		r.PostFormValue("password"),
		r.PostFormValue("confirm_password"),
	)
	if err != nil {
		data := authPageData{Title: "Register", Username: username}
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation):
			data.FieldErrors = appErr.Fields
		case errors.As(err, &appErr) && errors.Is(err, apperror.ErrConflict):
			data.Error = appErr.Message
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.templates.render(w, "register", data)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout clears the session cookie. GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
