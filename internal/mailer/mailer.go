package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hdnotes/hd-notes-api/config"
)

// Sender delivers one-time codes to users. Implementations must not block on
// anything other than the underlying transport.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SMTPSender sends OTP mails over plain SMTP.
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) SendOTP(ctx context.Context, email, code string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: Your One-Time Password (OTP)\r\n"+
		"\r\n"+
		"Your OTP is: %s. It will expire in 10 minutes.\r\n",
		s.cfg.From, email, code)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	s.logger.InfoContext(ctx, "OTP email sent", slog.String("to", email))
	return nil
}
