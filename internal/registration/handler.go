package registration

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registration-service/internal/accounts"
	"registration-service/pkg/jwt"
)

// Handler exposes the registration HTTP endpoints.
type Handler struct {
	orch      *Orchestrator
	maxSizeMB int64
}

// NewHandler wires a handler to the orchestrator.
func NewHandler(orch *Orchestrator, maxSizeMB int64) *Handler {
	return &Handler{orch: orch, maxSizeMB: maxSizeMB}
}

// Routes returns a chi.Router with all registration routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/passenger", h.RegisterPassenger)
	r.Post("/driver", h.RegisterDriver)
	return r
}

// RegisterResponse is returned on a successful registration attempt.
type RegisterResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	*Result
}

func (h *Handler) RegisterPassenger(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, 2) {
		return
	}
	form := &PassengerForm{
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		FirstName:       r.FormValue("firstName"),
		MiddleName:      r.FormValue("middleName"),
		LastName:        r.FormValue("lastName"),
		ContactNo:       r.FormValue("contactNo"),
		ValidID:         formDocument(r, "validId"),
	}

	result, err := h.orch.RegisterPassenger(r.Context(), form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

func (h *Handler) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, 4) {
		return
	}
	form := &DriverForm{
		Email:                     r.FormValue("email"),
		Password:                  r.FormValue("password"),
		ConfirmPassword:           r.FormValue("confirmPassword"),
		FirstName:                 r.FormValue("firstName"),
		MiddleName:                r.FormValue("middleName"),
		LastName:                  r.FormValue("lastName"),
		PhoneNumber:               r.FormValue("phoneNumber"),
		LicenseNumber:             r.FormValue("licenseNumber"),
		PlateNumber:               r.FormValue("plateNumber"),
		VehicleModel:              r.FormValue("vehicleModel"),
		VehicleImage:              formDocument(r, "vehicleImage"),
		CertificateOfRegistration: formDocument(r, "certificateOfRegistration"),
		DriversLicense:            formDocument(r, "driversLicense"),
	}

	result, err := h.orch.RegisterDriver(r.Context(), form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

// parseForm bounds the request body at docSlots documents' worth of payload.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, docSlots int64) bool {
	limit := h.maxSizeMB * docSlots * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return false
	}
	return true
}

// formDocument returns the named file part, or nil when it was not provided.
func formDocument(r *http.Request, field string) *Document {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return &Document{Filename: header.Filename, Data: file}
}

func (h *Handler) writeResult(w http.ResponseWriter, result *Result) {
	role := ""
	if result.Profile != nil {
		role = result.Profile.UserType
	}
	token, err := jwt.Generate(result.Account.ID, result.Account.Email, role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{
		Token:   token,
		Message: "Registration successful. Please check your email for verification.",
		Result:  result,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var regErr *Error
	if !errors.As(err, &regErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}

	switch {
	case regErr.Stage == StageValidating:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Please fill in all required fields correctly.",
			"fields": regErr.Fields,
		})
	case errors.Is(regErr.Cause, accounts.ErrDuplicateAccount):
		writeJSON(w, http.StatusConflict, map[string]string{"error": regErr.Cause.Error()})
	case errors.Is(regErr.Cause, accounts.ErrWeakCredential):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": regErr.Cause.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": regErr.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
