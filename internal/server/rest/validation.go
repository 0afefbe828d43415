package rest

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	nameMinLen     = 3
	nameMaxLen     = 100
	emailMaxLen    = 254
	passwordMinLen = 4
	// bcrypt only looks at the first 72 bytes
	passwordMaxLen = 72
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(r.Name))
	if n < nameMinLen || n > nameMaxLen {
		return &ValidationError{Message: "name must be between 3 and 100 characters"}
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

func (r loginRequest) validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > emailMaxLen {
		return &ValidationError{Message: "email must be a valid email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return &ValidationError{Message: "password must be between 4 and 72 bytes"}
	}
	return nil
}
