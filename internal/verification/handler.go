package verification

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the email-link verification endpoint.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the verification service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with the verification route.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Verify)
	return r
}

type verifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Email == "" || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and token are required"})
		return
	}

	if err := h.svc.Verify(r.Context(), req.Email, req.Token); err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"verified": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "verification failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verified": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
