package registration

import (
	"io"

	"registration-service/pkg/validation"
)

// Document is a client-picked document reference. It is transient: once the
// upload succeeds it is replaced by a durable URL on the profile record.
type Document struct {
	Filename string
	Data     io.Reader
}

// PassengerForm is the submitted passenger registration form.
type PassengerForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	MiddleName      string
	LastName        string
	ContactNo       string

	ValidID *Document
}

// Validate reports one human-readable message per invalid field. An absent
// key means the field is valid. No I/O happens here.
func (f *PassengerForm) Validate() map[string]string {
	errs := make(map[string]string)

	if !validation.ValidateRequired(f.FirstName) {
		errs["firstName"] = "First name is required"
	}
	if !validation.ValidateRequired(f.LastName) {
		errs["lastName"] = "Last name is required"
	}
	if !validation.ValidateRequired(f.Email) {
		errs["email"] = "Email is required"
	} else if !validation.ValidateEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if !validation.ValidateRequired(f.ContactNo) {
		errs["contactNo"] = "Contact number is required"
	} else if !validation.ValidateContactNo(f.ContactNo) {
		errs["contactNo"] = "Invalid contact number"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if !validation.ValidatePassword(f.Password) {
		errs["password"] = "Password must be at least 6 characters"
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if f.ValidID == nil {
		errs["validId"] = "Valid ID photo is required"
	}

	return errs
}

// DriverForm is the submitted driver registration form.
type DriverForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	MiddleName      string
	LastName        string
	PhoneNumber     string
	LicenseNumber   string
	PlateNumber     string
	VehicleModel    string

	VehicleImage              *Document
	CertificateOfRegistration *Document
	DriversLicense            *Document
}

// Validate reports one human-readable message per invalid field.
func (f *DriverForm) Validate() map[string]string {
	errs := make(map[string]string)

	if !validation.ValidateRequired(f.FirstName) {
		errs["firstName"] = "First name is required"
	}
	if !validation.ValidateRequired(f.LastName) {
		errs["lastName"] = "Last name is required"
	}
	if !validation.ValidateRequired(f.Email) {
		errs["email"] = "Email is required"
	} else if !validation.ValidateEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if !validation.ValidateRequired(f.PhoneNumber) {
		errs["phoneNumber"] = "Phone number is required"
	} else if !validation.ValidateContactNo(f.PhoneNumber) {
		errs["phoneNumber"] = "Invalid phone number"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if !validation.ValidatePassword(f.Password) {
		errs["password"] = "Password must be at least 6 characters"
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if !validation.ValidateRequired(f.LicenseNumber) {
		errs["licenseNumber"] = "License number is required"
	}
	if !validation.ValidateRequired(f.PlateNumber) {
		errs["plateNumber"] = "Plate number is required"
	}
	if !validation.ValidateRequired(f.VehicleModel) {
		errs["vehicleModel"] = "Vehicle model is required"
	}
	if f.VehicleImage == nil {
		errs["vehicleImage"] = "Vehicle image is required"
	}
	if f.CertificateOfRegistration == nil {
		errs["certificateOfRegistration"] = "Certificate of Registration is required"
	}
	if f.DriversLicense == nil {
		errs["driversLicense"] = "Driver's license is required"
	}

	return errs
}
