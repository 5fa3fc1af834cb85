package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name, role string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func welcomeMessage(from, email, name, role string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to VisaFlow")

	body := fmt.Sprintf(`
		<h2>Welcome to VisaFlow, %s!</h2>
		<p>An account with the <strong>%s</strong> role has been created for you.</p>
		<p>Sign in with this e-mail address and the password your administrator gave you.</p>
		<p>Best regards,<br>The VisaFlow Team</p>
	`, html.EscapeString(name), html.EscapeString(role))

	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendWelcomeEmail(email, name, role string) error {
	if err := s.dialer.DialAndSend(welcomeMessage(s.from, email, name, role)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
