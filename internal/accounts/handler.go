package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registration-service/internal/profiles"
	"registration-service/pkg/jwt"
)

// Handler exposes credential HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the account service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all auth routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Post("/login/passenger", h.LoginPassenger)
	r.Post("/login/driver", h.LoginDriver)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireAuth)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
	})

	return r
}

// AuthResponse is returned on login.
type AuthResponse struct {
	Token   string            `json:"token"`
	Account *Account          `json:"account"`
	Profile *profiles.Profile `json:"profile"`
}

func (h *Handler) LoginPassenger(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, profiles.RolePassenger,
		"You are logged in as a driver. Please use the driver login.")
}

func (h *Handler) LoginDriver(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, profiles.RoleDriver,
		"You are logged in as a passenger. Please use the passenger login.")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, role, mismatchMsg string) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": errs})
		return
	}

	account, profile, err := h.svc.AuthenticateAs(r.Context(), req.Email, req.Password, role)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, ErrRoleMismatch):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": mismatchMsg})
		return
	case errors.Is(err, ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	token, err := jwt.Generate(account.ID, account.Email, profile.UserType)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, Account: account, Profile: profile})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	if err := h.svc.EndSession(r.Context(), claims.AccountID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "logout failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	sess, err := h.svc.CurrentSession(r.Context(), claims.AccountID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session lookup failed"})
		return
	}
	if sess == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
