// Package mail sends the password-reset verification codes. The Sender
// interface keeps controllers testable; SMTPSender is the production
// implementation.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/hrmstack/hrm-service/internal/config"
)

type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Mail.Host,
		port:     cfg.Mail.Port,
		username: cfg.Mail.Username,
		password: cfg.Mail.Password,
		from:     cfg.Mail.From,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}
