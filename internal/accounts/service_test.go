package accounts

import (
	"errors"
	"testing"

	"registration-service/internal/profiles"
)

// Role dispatch must be an equality comparison with both branches reachable.
func TestCheckRole(t *testing.T) {
	passenger := &profiles.Profile{UserType: profiles.RolePassenger}
	driver := &profiles.Profile{UserType: profiles.RoleDriver}

	if err := CheckRole(passenger, profiles.RolePassenger); err != nil {
		t.Errorf("passenger via passenger login: %v", err)
	}
	if err := CheckRole(driver, profiles.RoleDriver); err != nil {
		t.Errorf("driver via driver login: %v", err)
	}

	if err := CheckRole(driver, profiles.RolePassenger); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("driver via passenger login: err = %v, want ErrRoleMismatch", err)
	}
	if err := CheckRole(passenger, profiles.RoleDriver); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("passenger via driver login: err = %v, want ErrRoleMismatch", err)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{}
	errs := req.Validate()
	if _, ok := errs["email"]; !ok {
		t.Error("empty email should be reported")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("empty password should be reported")
	}

	req = LoginRequest{Email: "a@b.com", Password: "secret1"}
	if errs := req.Validate(); len(errs) != 0 {
		t.Errorf("valid request reported %v", errs)
	}
}
