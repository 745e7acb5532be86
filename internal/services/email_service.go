package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationEmail(email, username, token string) error
	SendResendVerificationEmail(email, token string) error
	SendPasswordResetEmail(email, uidb64, token string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, frontendURL string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:      dialer,
		from:        fromEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendVerificationEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/verify-email/?token=%s", s.frontendURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verify your email")

	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Thanks for registering. Click the link below to verify your account:</p>
		<p><a href="%s">%s</a></p>
		<p>The link is valid for 24 hours.</p>
	`, username, link, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendResendVerificationEmail(email, token string) error {
	link := fmt.Sprintf("%s/resend-verify-email/?token=%s", s.frontendURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verify your email")

	body := fmt.Sprintf(`
		<p>Click the link below to verify your account:</p>
		<p><a href="%s">%s</a></p>
	`, link, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, uidb64, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s/%s/", s.frontendURL, uidb64, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password Reset")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Click the link below to choose a new password:</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, link, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
