package mailer

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Attachment is a file attached to an outgoing message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outgoing email
type Message struct {
	To         string
	Subject    string
	HTML       string
	Text       string
	Attachment *Attachment
}

// Mailer sends transactional email. The booking flow treats sends as
// fire-and-forget: failures are logged by the caller, never propagated.
type Mailer interface {
	Send(msg *Message) error
}

// SMTPConfig holds the SMTP server settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

// Send builds the MIME message and hands it to the SMTP relay
func (m *SMTPMailer) Send(msg *Message) error {
	if m.config.Host == "" || m.config.From == "" {
		return fmt.Errorf("mailer configuration not set")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient address is required")
	}

	body := BuildMIMEMessage(m.config, msg)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := smtp.SendMail(
		m.config.Host+":"+m.config.Port,
		auth,
		m.config.From,
		[]string{msg.To},
		body,
	); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}

const mixedBoundary = "soltur-mixed-boundary"
const altBoundary = "soltur-alt-boundary"

// BuildMIMEMessage assembles the raw message bytes: multipart/alternative
// text+HTML body, wrapped in multipart/mixed when an attachment is present.
func BuildMIMEMessage(cfg SMTPConfig, msg *Message) []byte {
	var b strings.Builder

	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", cfg.FromName), cfg.From)
	}

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment != nil {
		b.WriteString("Content-Type: multipart/mixed; boundary=" + mixedBoundary + "\r\n\r\n")
		b.WriteString("--" + mixedBoundary + "\r\n")
	}

	b.WriteString("Content-Type: multipart/alternative; boundary=" + altBoundary + "\r\n\r\n")

	if msg.Text != "" {
		b.WriteString("--" + altBoundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.Text + "\r\n")
	}

	b.WriteString("--" + altBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML + "\r\n")
	b.WriteString("--" + altBoundary + "--\r\n")

	if msg.Attachment != nil {
		contentType := msg.Attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		b.WriteString("--" + mixedBoundary + "\r\n")
		b.WriteString(fmt.Sprintf("Content-Type: %s; name=%q\r\n", contentType, msg.Attachment.Filename))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", msg.Attachment.Filename))

		encoded := base64.StdEncoding.EncodeToString(msg.Attachment.Data)
		// Wrap base64 at 76 chars per RFC 2045
		for len(encoded) > 76 {
			b.WriteString(encoded[:76] + "\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded + "\r\n")
		b.WriteString("--" + mixedBoundary + "--\r\n")
	}

	return []byte(b.String())
}
