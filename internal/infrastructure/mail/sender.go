// Package mail delivers password-reset codes by email.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"artmarket/internal/config"
	"artmarket/internal/logger"

	"go.uber.org/zap"
)

// ErrDeliveryDisabled is returned when no SMTP server is configured.
var ErrDeliveryDisabled = errors.New("email delivery is not configured")

type Sender interface {
	SendPasswordResetOTP(ctx context.Context, to, name, code string, ttl time.Duration) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

// NewSender returns an SMTP sender when SMTP is configured and a disabled sender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP not configured, password reset codes will only be logged")
		return DisabledSender{}
	}
	return NewSMTPSender(cfg)
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

type resetEmailData struct {
	Name      string
	Code      string
	ExpiresIn string
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Password reset</h2>
	<p>Hi <strong>{{.Name}}</strong>,</p>
	<p>Use this code to reset your password:</p>
	<p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
	<p>The code expires in {{.ExpiresIn}}.</p>
	<p>If you didn't request this, you can ignore this email.</p>
</body>
</html>
`))

func (s *SMTPSender) SendPasswordResetOTP(ctx context.Context, to, name, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, resetEmailData{
		Name:      name,
		Code:      code,
		ExpiresIn: ttl.String(),
	}); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.cfg.From, to, "Your password reset code", body.String(),
	))

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Password reset email sent",
		zap.String("to", to),
		zap.String("event", "reset_email_sent"),
	)

	return nil
}

// DisabledSender refuses every delivery; callers fall back to logging the code.
type DisabledSender struct{}

func (DisabledSender) SendPasswordResetOTP(context.Context, string, string, string, time.Duration) error {
	return ErrDeliveryDisabled
}
