package notification

import (
	"fmt"
	"net/smtp"
)

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type EmailService struct {
	config EmailConfig
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendExportReadyEmail(to, familyName string) error {
	subject := "Your Family Data Export Is Ready"
	body := fmt.Sprintf(`<html><body>
		<h2>Your Data Export Is Ready</h2>
		<p>The export of all data for %s has completed.</p>
		<p>The snapshot was delivered in the response to your export request. Keep it somewhere safe; it contains everything your family has stored.</p>
		<p>If you did not request this export, please contact support immediately.</p>
	</body></html>`, familyName)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) SendErasureCompletedEmail(to, familyName string) error {
	subject := "Family Data Permanently Deleted"
	body := fmt.Sprintf(`<html><body>
		<h2>Deletion Complete</h2>
		<p>All data for %s has been permanently deleted.</p>
		<p>This action cannot be undone. Any exports you downloaded beforehand are now the only remaining copies.</p>
	</body></html>`, familyName)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
