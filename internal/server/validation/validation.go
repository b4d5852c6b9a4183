// Package validation checks request payloads before they reach a service.
// Each exported check returns nil or an Errors value listing every
// violation found.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	// passphrases are fine, megabytes are not
	maxPasswordLen = 512
	maxEmailLen    = 254
	maxNameLen     = 100
	maxTitleLen    = 255
	maxLinkLen     = 2048
	maxDescLen     = 4096
)

// FieldError is one violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of violations for one payload.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, " ")
}

// Validator validates a string value and returns an error message if invalid.
type Validator func(v string) string

func (e *Errors) check(field, v string, validators ...Validator) {
	for _, validate := range validators {
		if msg := validate(v); msg != "" {
			*e = append(*e, FieldError{Field: field, Message: msg})
			return
		}
	}
}

func (e *Errors) checkOptional(field string, v *string, validators ...Validator) {
	if v == nil {
		return
	}
	e.check(field, *v, validators...)
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Required validates that a field is not blank and does not exceed maxLen characters.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// MaxLen validates length only; blank values pass.
func MaxLen(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Email validates a single bare address such as a@x.com. The value is
// kept as submitted, so surrounding whitespace is an error.
func Email(fieldName string) Validator {
	return func(v string) string {
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || addr.Name != "" {
			return fieldName + " must be a valid email address."
		}
		at := strings.LastIndexByte(v, '@')
		if !strings.Contains(v[at+1:], ".") {
			return fieldName + " must be a valid email address."
		}
		return ""
	}
}

// StrongPassword requires minPasswordLen characters with an upper case
// letter, a lower case letter and a digit.
func StrongPassword(fieldName string) Validator {
	return func(v string) string {
		if v == "" {
			return fieldName + " is required."
		}
		n := utf8.RuneCountInString(v)
		if n < minPasswordLen {
			return fmt.Sprintf("%s must be at least %d characters.", fieldName, minPasswordLen)
		}
		if len(v) > maxPasswordLen {
			return fmt.Sprintf("%s cannot exceed %d bytes.", fieldName, maxPasswordLen)
		}

		var upper, lower, digit bool
		for _, r := range v {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		if !upper || !lower || !digit {
			return "Password is too weak. It should contain at least one uppercase letter, one lowercase letter and one digit."
		}
		return ""
	}
}

// PasswordPresent only requires a non-empty password of bounded size.
// Strength rules apply when credentials are created, not when they are
// presented.
func PasswordPresent(fieldName string) Validator {
	return func(v string) string {
		if v == "" {
			return fieldName + " is required."
		}
		if len(v) > maxPasswordLen {
			return fmt.Sprintf("%s cannot exceed %d bytes.", fieldName, maxPasswordLen)
		}
		return ""
	}
}

// HTTPURL validates an absolute http(s) URL of at most maxLen characters.
func HTTPURL(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		p, err := url.Parse(v)
		if err != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return "Enter a valid http(s) URL."
		}
		return ""
	}
}

// SignUp checks a registration payload.
func SignUp(email, password string, firstName, lastName *string) error {
	var errs Errors
	errs.check("email", email, Required("Email", maxEmailLen), Email("Email"))
	errs.check("password", password, StrongPassword("Password"))
	errs.checkOptional("firstName", firstName, MaxLen("First name", maxNameLen))
	errs.checkOptional("lastName", lastName, MaxLen("Last name", maxNameLen))
	return errs.orNil()
}

// SignIn checks a sign in payload. Any non-empty password is accepted so
// that a wrong one is answered as bad credentials.
func SignIn(email, password string) error {
	var errs Errors
	errs.check("email", email, Required("Email", maxEmailLen), Email("Email"))
	errs.check("password", password, PasswordPresent("Password"))
	return errs.orNil()
}

// EditUser checks a profile patch. Absent fields are not validated.
func EditUser(email, firstName, lastName *string) error {
	var errs Errors
	errs.checkOptional("email", email, Required("Email", maxEmailLen), Email("Email"))
	errs.checkOptional("firstName", firstName, MaxLen("First name", maxNameLen))
	errs.checkOptional("lastName", lastName, MaxLen("Last name", maxNameLen))
	if email == nil && firstName == nil && lastName == nil {
		errs = append(errs, FieldError{Message: "Nothing to update."})
	}
	return errs.orNil()
}

// CreateBookmark checks a new bookmark.
func CreateBookmark(title, link string, description *string) error {
	var errs Errors
	errs.check("title", title, Required("Title", maxTitleLen))
	errs.check("link", link, HTTPURL("Link", maxLinkLen))
	errs.checkOptional("description", description, MaxLen("Description", maxDescLen))
	return errs.orNil()
}

// EditBookmark checks a bookmark patch; at least one field must be present.
func EditBookmark(title, link, description *string) error {
	var errs Errors
	errs.checkOptional("title", title, Required("Title", maxTitleLen))
	errs.checkOptional("link", link, HTTPURL("Link", maxLinkLen))
	errs.checkOptional("description", description, MaxLen("Description", maxDescLen))
	if title == nil && link == nil && description == nil {
		errs = append(errs, FieldError{Message: "Nothing to update."})
	}
	return errs.orNil()
}
