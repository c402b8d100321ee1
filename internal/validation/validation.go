// Package validation holds the field rules shared by the signup and
// admin creation paths. Checks accumulate into a field-to-message map
// so a response can report every invalid field at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	apperr "github.com/ratewise/platform/internal/errors"
)

const (
	NameMinLength     = 20
	NameMaxLength     = 60
	PasswordMinLength = 8
	PasswordMaxLength = 16
	AddressMaxLength  = 400
)

// passwordSpecials is the set of characters accepted as "special".
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors collects per-field validation messages.
type Errors map[string]string

// Add records a message for a field, keeping the first message when a
// field fails more than one check.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Err returns a validation error carrying the collected messages, or
// nil when every check passed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperr.Validation(e)
}

// Required fails empty values.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
	}
}

// Length enforces an inclusive character range.
func (e Errors) Length(field, value string, min, max int) {
	n := len([]rune(value))
	if n < min || n > max {
		e.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
}

// MaxLength enforces an upper bound only.
func (e Errors) MaxLength(field, value string, max int) {
	if len([]rune(value)) > max {
		e.Add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

// Email checks basic address shape.
func (e Errors) Email(field, value string) {
	if !emailPattern.MatchString(value) {
		e.Add(field, field+" must be a valid email address")
	}
}

// Password enforces length plus at least one uppercase letter and one
// special character.
func (e Errors) Password(field, value string) {
	if n := len(value); n < PasswordMinLength || n > PasswordMaxLength {
		e.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, PasswordMinLength, PasswordMaxLength))
		return
	}
	hasUpper := false
	for _, r := range value {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		e.Add(field, field+" must contain at least one uppercase letter")
		return
	}
	if !strings.ContainsAny(value, passwordSpecials) {
		e.Add(field, field+" must contain at least one special character")
	}
}

// IntRange enforces an inclusive integer range.
func (e Errors) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		e.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
}

// OneOf restricts a value to an allowed set.
func (e Errors) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}
