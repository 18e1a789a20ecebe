// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrEmailEmpty     = errors.New("no email address provided")
	ErrEmailInvalid   = errors.New("invalid email address provided")
	ErrEmailNotcampus = errors.New("student accounts must use their campus email address")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if _, err := mail.ParseAddress(e); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

// StudentEmailValidator additionally requires the configured campus
// domain. Organization accounts skip this check.
func StudentEmailValidator(e string) error {
	if err := EmailValidator(e); err != nil {
		return err
	}

	domain := viper.GetString("app.student_email_domain")
	if !strings.HasSuffix(strings.ToLower(e), "@"+strings.ToLower(domain)) {
		return ErrEmailNotcampus
	}

	return nil
}
