package profiles

import "time"

// Account roles. A profile's role is set at creation and never changes.
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
)

// Document URL columns accepted by UpdateDocumentURLs.
const (
	FieldValidIDURL                   = "valid_id_url"
	FieldVehicleImageURL              = "vehicle_image_url"
	FieldCertificateOfRegistrationURL = "certificate_of_registration_url"
	FieldDriversLicenseURL            = "drivers_license_url"
)

// Profile is the application-level row of user attributes keyed by account id.
type Profile struct {
	ID         string `json:"id"`
	UserType   string `json:"user_type"` // passenger | driver
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	ContactNo  string `json:"contact_no"`

	// Driver-only attributes.
	LicenseNumber *string `json:"license_number,omitempty"`
	PlateNumber   *string `json:"plate_number,omitempty"`
	VehicleModel  *string `json:"vehicle_model,omitempty"`

	// Durable document URLs, set after upload succeeds.
	ValidIDURL                   *string `json:"valid_id_url,omitempty"`
	VehicleImageURL              *string `json:"vehicle_image_url,omitempty"`
	CertificateOfRegistrationURL *string `json:"certificate_of_registration_url,omitempty"`
	DriversLicenseURL            *string `json:"drivers_license_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateRequest is the body for PATCH /profiles/{id}. Absent fields are left
// untouched. The role is not updatable.
type UpdateRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	MiddleName    *string `json:"middle_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	ContactNo     *string `json:"contact_no,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	PlateNumber   *string `json:"plate_number,omitempty"`
	VehicleModel  *string `json:"vehicle_model,omitempty"`
}
