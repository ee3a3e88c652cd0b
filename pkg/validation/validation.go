package validation

import (
	"regexp"
	"strings"
)

// Deliberately permissive: anything non-blank around a single @ and a dot.
var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

// ValidateContactNo checks a phone-like field: at least 10 characters.
func ValidateContactNo(contactNo string) bool {
	contactNo = strings.TrimSpace(contactNo)
	return len(contactNo) >= 10 && len(contactNo) <= 50
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}
