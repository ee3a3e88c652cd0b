package registration

import (
	"strings"
	"testing"
)

func validPassengerForm() *PassengerForm {
	return &PassengerForm{
		Email:           "a@b.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Ana",
		LastName:        "Cruz",
		ContactNo:       "09171234567",
		ValidID:         &Document{Filename: "id.jpg", Data: strings.NewReader("img")},
	}
}

func validDriverForm() *DriverForm {
	return &DriverForm{
		Email:                     "d@b.com",
		Password:                  "secret1",
		ConfirmPassword:           "secret1",
		FirstName:                 "Juan",
		LastName:                  "Reyes",
		PhoneNumber:               "09179876543",
		LicenseNumber:             "N01-23-456789",
		PlateNumber:               "abc1234",
		VehicleModel:              "Toyota Vios",
		VehicleImage:              &Document{Filename: "v.jpg", Data: strings.NewReader("img")},
		CertificateOfRegistration: &Document{Filename: "c.jpg", Data: strings.NewReader("img")},
		DriversLicense:            &Document{Filename: "l.jpg", Data: strings.NewReader("img")},
	}
}

func TestPassengerFormValid(t *testing.T) {
	if errs := validPassengerForm().Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestPassengerFormMissingRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*PassengerForm)
	}{
		{"firstName", func(f *PassengerForm) { f.FirstName = "  " }},
		{"lastName", func(f *PassengerForm) { f.LastName = "" }},
		{"email", func(f *PassengerForm) { f.Email = "" }},
		{"contactNo", func(f *PassengerForm) { f.ContactNo = "" }},
		{"password", func(f *PassengerForm) { f.Password = "" }},
		{"validId", func(f *PassengerForm) { f.ValidID = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := validPassengerForm()
			tt.mutate(f)
			errs := f.Validate()
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("missing %s: error map %v lacks key %q", tt.field, errs, tt.field)
			}
		})
	}
}

func TestPassengerFormEmailShape(t *testing.T) {
	f := validPassengerForm()
	f.Email = "not-an-email"
	if _, ok := f.Validate()["email"]; !ok {
		t.Error("string without @ should fail email validation")
	}

	f = validPassengerForm()
	f.Email = "someone@somewhere.org"
	if msg, ok := f.Validate()["email"]; ok {
		t.Errorf("well-formed email rejected: %s", msg)
	}
}

func TestPassengerFormConfirmMismatch(t *testing.T) {
	f := validPassengerForm()
	f.ConfirmPassword = "secret2"
	if _, ok := f.Validate()["confirmPassword"]; !ok {
		t.Error("password mismatch should yield a confirmPassword error")
	}

	// Mismatch is reported even when the password itself is invalid.
	f = validPassengerForm()
	f.Password = "abc"
	f.ConfirmPassword = "abd"
	errs := f.Validate()
	if _, ok := errs["confirmPassword"]; !ok {
		t.Error("mismatch with weak password should still yield a confirmPassword error")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("weak password should also be reported")
	}
}

func TestPassengerFormShortPassword(t *testing.T) {
	f := validPassengerForm()
	f.Password = "abc"
	f.ConfirmPassword = "abc"
	if _, ok := f.Validate()["password"]; !ok {
		t.Error("3-char password should yield a password error")
	}
}

func TestDriverFormValid(t *testing.T) {
	if errs := validDriverForm().Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestDriverFormMissingRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*DriverForm)
	}{
		{"licenseNumber", func(f *DriverForm) { f.LicenseNumber = "" }},
		{"plateNumber", func(f *DriverForm) { f.PlateNumber = "" }},
		{"vehicleModel", func(f *DriverForm) { f.VehicleModel = "" }},
		{"vehicleImage", func(f *DriverForm) { f.VehicleImage = nil }},
		{"certificateOfRegistration", func(f *DriverForm) { f.CertificateOfRegistration = nil }},
		{"driversLicense", func(f *DriverForm) { f.DriversLicense = nil }},
		{"phoneNumber", func(f *DriverForm) { f.PhoneNumber = "12345" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := validDriverForm()
			tt.mutate(f)
			errs := f.Validate()
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("error map %v lacks key %q", errs, tt.field)
			}
		})
	}
}

func TestDriverFormMiddleNameOptional(t *testing.T) {
	f := validDriverForm()
	f.MiddleName = ""
	if errs := f.Validate(); len(errs) != 0 {
		t.Errorf("middle name is optional, got %v", errs)
	}
}
