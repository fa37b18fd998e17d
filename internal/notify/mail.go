// Package notify emails the site owner a copy of contact form messages.
package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Zachkp/folio/internal/content"
)

var ErrNotConfigured = errors.New("notify: SMTP credentials not configured")

type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends contact notifications over SMTP.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	sendMail SendMailFunc
}

func NewMailer(host, port, user, pass, to string) *Mailer {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == "" {
		port = "587"
	}
	if to == "" {
		to = user
	}
	return &Mailer{Host: host, Port: port, User: user, Pass: pass, To: to, sendMail: smtp.SendMail}
}

// Enabled reports whether credentials are present.
func (m *Mailer) Enabled() bool {
	return m != nil && m.User != "" && m.Pass != ""
}

func (m *Mailer) Notify(msg content.ContactMessage) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := m.sendMail(m.Host+":"+m.Port, auth, m.User, []string{m.To}, m.compose(msg)); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	return nil
}

func (m *Mailer) compose(msg content.ContactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + m.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
