package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "mailer",
		Password: "secret",
		From:     "rezerwacje@soltur.pl",
		FromName: "Soltur",
	}
}

func TestBuildMIMEMessage_TextAndHTML(t *testing.T) {
	msg := &Message{
		To:      "jan.nowak@example.com",
		Subject: "Potwierdzenie rezerwacji BK-20260901-A1B2C3",
		HTML:    "<p>Dziekujemy za rezerwacje</p>",
		Text:    "Dziekujemy za rezerwacje",
	}

	body := string(BuildMIMEMessage(testSMTPConfig(), msg))

	assert.Contains(t, body, "To: jan.nowak@example.com\r\n")
	assert.Contains(t, body, "From: ")
	assert.Contains(t, body, "rezerwacje@soltur.pl")
	assert.Contains(t, body, "MIME-Version: 1.0\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative")
	assert.Contains(t, body, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, body, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, body, "<p>Dziekujemy za rezerwacje</p>")

	// No attachment, no mixed wrapper
	assert.NotContains(t, body, "multipart/mixed")
}

func TestBuildMIMEMessage_WithAttachment(t *testing.T) {
	msg := &Message{
		To:      "jan.nowak@example.com",
		Subject: "Potwierdzenie rezerwacji",
		HTML:    "<p>Umowa w zalaczniku</p>",
		Attachment: &Attachment{
			Filename:    "umowa-BK-20260901-A1B2C3.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4 test content"),
		},
	}

	body := string(BuildMIMEMessage(testSMTPConfig(), msg))

	assert.Contains(t, body, "Content-Type: multipart/mixed")
	assert.Contains(t, body, `Content-Disposition: attachment; filename="umowa-BK-20260901-A1B2C3.pdf"`)
	assert.Contains(t, body, "Content-Transfer-Encoding: base64")
	assert.Contains(t, body, "--soltur-mixed-boundary--\r\n")
}

func TestBuildMIMEMessage_WrapsBase64Lines(t *testing.T) {
	big := make([]byte, 600)
	for i := range big {
		big[i] = byte(i % 251)
	}

	msg := &Message{
		To:      "jan.nowak@example.com",
		Subject: "Test",
		HTML:    "<p>x</p>",
		Attachment: &Attachment{
			Filename: "doc.pdf",
			Data:     big,
		},
	}

	body := string(BuildMIMEMessage(testSMTPConfig(), msg))

	// All base64 payload lines stay within the RFC 2045 limit
	inPayload := false
	for _, line := range strings.Split(body, "\r\n") {
		if strings.HasPrefix(line, "Content-Disposition") {
			inPayload = true
			continue
		}
		if inPayload && strings.HasPrefix(line, "--") {
			break
		}
		if inPayload && line != "" {
			assert.LessOrEqual(t, len(line), 76)
		}
	}

	// Content type defaults when not provided
	assert.Contains(t, body, "Content-Type: application/octet-stream")
}

func TestSMTPMailer_RejectsMissingConfig(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	err := m.Send(&Message{To: "jan.nowak@example.com", Subject: "x", HTML: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration")
}

func TestSMTPMailer_RejectsMissingRecipient(t *testing.T) {
	m := NewSMTPMailer(testSMTPConfig())
	err := m.Send(&Message{Subject: "x", HTML: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient")
}
