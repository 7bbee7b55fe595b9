// internal/app/system/mailer/mailer.go

// Package mailer sends transactional email over SMTP. When SMTP is not
// configured (local development), the log mailer writes the message to the
// application log instead so flows that send mail stay testable.
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a single outbound message. HTMLBody is optional; when present
// the message is sent as multipart/alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	auth smtp.Auth
	from string
	log  *zap.Logger
}

// NewSMTP creates a mailer for the given relay. Auth is skipped when
// username is empty (e.g. a local relay).
func NewSMTP(host string, port int, username, password, from string, log *zap.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
		log:  log,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, e)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{e.To}, msg); err != nil {
		m.log.Error("send email failed",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

const boundary = "=_peopledesk_alt"

func buildMessage(from string, e Email) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	b.WriteString(`Content-Type: multipart/alternative; boundary="` + boundary + `"` + "\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(e.TextBody + "\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(e.HTMLBody + "\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// LogMailer logs messages instead of sending them.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, e Email) error {
	m.Log.Info("email (not sent, SMTP unconfigured)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("body", e.TextBody),
	)
	return nil
}
