// Package validation holds the form schemas and the rules they are checked against.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region assumed for numbers without a country prefix.
const DefaultPhoneRegion = "NG"

// Messages surfaced next to form fields.
const (
	MsgRequired         = "This field is required."
	MsgEmail            = "Invalid email address."
	MsgURL              = "Invalid URL."
	MsgPhone            = "Invalid Nigerian or international format"
	MsgPasswordLength   = "Field must be at least 8 characters long."
	MsgPasswordStrength = "Password must contain uppercase, lowercase, a digit, and a special character."
	MsgPasswordsMatch   = "Passwords must match."
)

var (
	ngMobileRegex = regexp.MustCompile(`^(\+234|0)?[789][01]\d{8}$`)
	passwordChars = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

	validate = newValidator()
)

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends msg to field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// First returns the first message for field, or "".
func (e FieldErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the HTML form field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("ngphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsValidPhone accepts any number libphonenumber considers valid (defaulting to
// the NG region) and falls back to the Nigerian mobile pattern.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	if parsed, err := phonenumbers.Parse(phone, DefaultPhoneRegion); err == nil && phonenumbers.IsValidNumber(parsed) {
		return true
	}
	return ngMobileRegex.MatchString(phone)
}

// IsStrongPassword requires at least 8 characters drawn from letters, digits
// and @$!%*?&, with at least one lowercase, uppercase, digit and symbol.
func IsStrongPassword(pw string) bool {
	if len(pw) < 8 || !passwordChars.MatchString(pw) {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Struct validates a form and returns nil or the per-field messages.
func Struct(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_form": {err.Error()}}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgEmail
	case "url", "http_url":
		return MsgURL
	case "ngphone":
		return MsgPhone
	case "min":
		return MsgPasswordLength
	case "strongpassword":
		return MsgPasswordStrength
	case "eqfield":
		return MsgPasswordsMatch
	default:
		return fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
}
