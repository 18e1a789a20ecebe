package service

import (
	"campusswap/market-api/internal/model"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer delivers verification mail. Abstracted so tests don't need an
// SMTP relay.
type Mailer interface {
	SendVerification(t *model.VerificationToken, sendTo, name string, isOrganization bool) error
}

type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

func (s *SMTPMailer) SendVerification(t *model.VerificationToken, sendTo, name string, isOrganization bool) error {
	from := viper.GetString("mail.sender")
	if sendTo == from {
		return errors.New("invalid email address")
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	verifLink := fmt.Sprintf("%v://%v/verify/%v", scheme, viper.GetString("host.domain"), t.Token)

	accountType := "student"
	if isOrganization {
		accountType = "organization"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Verify your email to start using CampusSwap")
	m.SetBody("text/html", fmt.Sprintf(
		"<h1>Welcome %v!</h1>"+
			"<p>Thank you for registering your %v account.</p>"+
			"<p>Click <a href='%v'>here</a> to verify your email address, or paste the link below into your browser:</p>"+
			"<p>%v</p>"+
			"<p><strong>This link will expire in 24 hours.</strong></p>"+
			"<p>If you did not create this account, please ignore this email.</p>",
		name, accountType, verifLink, verifLink))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}
