package web

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Enter your username and password.",
		})
		return
	}

	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil || user == nil || user.DeletedAt != nil {
		if err != nil {
			slog.Error("failed to look up user", "error", err)
		}
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Wrong username or password.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Wrong username or password.",
		})
		return
	}

	if !s.startSession(w, user) {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Signing in failed. Please try again.",
		})
		return
	}

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "signup.html", &signupPage{PageData: PageData{Title: "Create account"}})
}

type signupPage struct {
	PageData
	Username string
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	fail := func(msg string) {
		s.Templates.Render(w, "signup.html", &signupPage{
			PageData: PageData{Title: "Create account", Error: msg},
			Username: username,
		})
	}

	if username == "" {
		fail("Please choose a username.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		fail("Password must be at least 8 characters.")
		return
	}
	if password != confirm {
		fail("Passwords do not match.")
		return
	}

	existing, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		fail("Creating the account failed. Please try again.")
		return
	}
	if existing != nil && existing.DeletedAt == nil {
		fail("That username is already taken.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		fail("Creating the account failed. Please try again.")
		return
	}

	user, err := store.CreateUser(r.Context(), s.DB, username, string(hash), model.RoleUser)
	if err != nil {
		slog.Error("failed to create user", "error", err)
		fail("Creating the account failed. Please try again.")
		return
	}
	slog.Info("user signed up", "user", user.Username)

	if !s.startSession(w, user) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked so the session ends
// everywhere it was used.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	if sess.Authenticated() && sess.Claims.ID != "" {
		if err := store.RevokeToken(r.Context(), s.DB, sess.Claims.ID, sess.ExpiresAt()); err != nil {
			slog.Error("failed to revoke token", "error", err)
		} else {
			slog.Info("user logged out", "user", sess.Claims.Username)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, user *model.User) bool {
	token, err := auth.GenerateToken(s.JWTSecret, s.TokenTTL, user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		return false
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	setAuthCookie(w, token, ttl)
	return true
}
