package validator

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	minPasswordLength = 8

	errInvalidEmail    = "please fill in a valid email address"
	errWeakPasswordFmt = "password must contain at least an uppercase letter, a lowercase letter, a number, a special character and be at least %d characters long"
)

var emailRegexp = regexp.MustCompile(`^\w+([-+.']\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`)

// Email validates an email address format.
func Email(email string) error {
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf(errInvalidEmail)
	}
	return nil
}

// Password validates password strength: at least one uppercase letter, one
// lowercase letter, one digit, one special character, minimum length 8.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errWeakPasswordFmt, minPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf(errWeakPasswordFmt, minPasswordLength)
	}

	return nil
}
