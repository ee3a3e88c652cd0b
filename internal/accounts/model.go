package accounts

import "time"

// Account is the backend-managed authenticated identity. The identifier is
// assigned at creation and immutable thereafter.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Phone         *string   `json:"phone,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProfileAttributes are forwarded as metadata on account creation and seed
// the profile record.
type ProfileAttributes struct {
	UserType      string
	FirstName     string
	MiddleName    string
	LastName      string
	ContactNo     string
	LicenseNumber *string
	PlateNumber   *string
	VehicleModel  *string
}

// LoginRequest is the body for POST /auth/login/{role}.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Email == "" {
		errs["email"] = "Email is required"
	}
	if r.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}
