// Package email sends finished service reports to clients via SMTP.
package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service sends report emails.
type Service struct {
	config Config
	server string
	auth   smtp.Auth
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates an email service. Sending is optional; callers check
// IsConfigured before offering the mail action.
func NewService(config Config) *Service {
	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   smtp.PlainAuth("", config.Username, config.Password, config.Host),
		send:   smtp.SendMail,
	}
}

// IsConfigured returns true if SMTP settings are present.
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendReport mails the finished PDF to the client, subject prefilled from
// the client name.
func (s *Service) SendReport(to, clientName string, pdf []byte, filename string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	subject := fmt.Sprintf("Service Report for %s", clientName)
	body, err := renderBody(clientName)
	if err != nil {
		return fmt.Errorf("render report email: %w", err)
	}

	msg := buildMessage(s.fromHeader(), to, subject, body, pdf, filename)
	return s.send(s.server, s.auth, s.config.From, []string{to}, msg)
}

func (s *Service) fromHeader() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}
	return s.config.From
}

// buildMessage assembles a multipart/mixed message: an HTML body part plus
// the base64-encoded PDF attachment.
func buildMessage(from, to, subject, htmlBody string, pdf []byte, filename string) []byte {
	const boundary = "boundary-hoodreport"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: application/pdf; name=\"%s\"\r\n", filename)
	fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=\"%s\"\r\n", filename)
	fmt.Fprintf(&msg, "Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&msg, "\r\n")

	encoded := base64.StdEncoding.EncodeToString(pdf)
	// 76-char lines per RFC 2045.
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76])
		msg.WriteString("\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded)
	fmt.Fprintf(&msg, "\r\n--%s--\r\n", boundary)

	return msg.Bytes()
}

func renderBody(clientName string) (string, error) {
	t := template.Must(template.New("report").Parse(reportEmailTemplate))
	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ ClientName string }{strings.TrimSpace(clientName)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reportEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your Service Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #2563eb; padding-bottom: 10px; margin-bottom: 20px; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>ALBERTA HOOD CLEANING</h1>
    </div>

    <p>Hello {{.ClientName}},</p>

    <p>Please find attached the service report for the kitchen exhaust cleaning
    performed at your location. Keep a copy on site for your records and for
    inspection purposes.</p>

    <p>If you have any questions about the report or the service performed,
    just reply to this email.</p>

    <div class="footer">
        <p>This report was generated for you by ALBERTA HOOD CLEANING.</p>
    </div>
</body>
</html>`
