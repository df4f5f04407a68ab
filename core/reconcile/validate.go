package reconcile

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NormalizeEmail trims surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ValidateEmail checks the syntax of a user-entered email.
func ValidateEmail(email string) error {
	if err := validate.Var(NormalizeEmail(email), "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
