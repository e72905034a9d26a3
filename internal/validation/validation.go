// Package validation validates request payloads and business input. Expected
// user-correctable problems are reported as *Error values scoped to a field
// so handlers can surface them directly.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is a user-correctable input problem scoped to one field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// NewError builds a field-scoped validation error.
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

var validate = validator.New()

// Struct validates a payload struct using `validate` tags and converts the
// first failure into a field-scoped *Error.
func Struct(payload interface{}) *Error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return NewError(toSnake(fe.Field()), messageFor(fe))
	}
	return NewError("payload", "invalid request payload")
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Value is too short."
	case "max":
		return "Value is too long."
	case "oneof":
		return "Value is not one of the allowed choices."
	default:
		return "Invalid value."
	}
}

var snakeRe = regexp.MustCompile("([a-z0-9])([A-Z])")

func toSnake(s string) string {
	return strings.ToLower(snakeRe.ReplaceAllString(s, "${1}_${2}"))
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// IsValidPhone reports whether s looks like a usable phone number after
// stripping spaces and dashes.
func IsValidPhone(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return phoneRe.MatchString(s)
}

// HasSpecialChar checks if a string contains at least one special character.
func HasSpecialChar(s string) bool {
	specialChars := regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	return specialChars.MatchString(s)
}

// ValidatePassword applies the platform password policy.
func ValidatePassword(password string) *Error {
	if len(password) < 8 {
		return NewError("password", "Password must be at least 8 characters.")
	}
	return nil
}
