// Package mail sends RSVP confirmation emails over SMTP.
//
// Delivery is best-effort: the RSVP has already been stored by the time a
// notification goes out, and a guest should never see an error page because
// Gmail was slow. Callers fire notifications from a goroutine and failures
// only show up in the logs.
//
// WHY net/smtp?
// The stdlib client covers everything needed here: one STARTTLS hop to a
// submission port with plain auth. smtp.SendMail negotiates STARTTLS
// automatically when the server advertises it, which is exactly the
// original deployment's smtp.gmail.com:587 setup.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Config is the SMTP configuration. The mailer is disabled (Send becomes a
// logged no-op) when Username or Password is empty, so a development setup
// without credentials behaves sensibly.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Mailer sends HTML email through a single SMTP account.
type Mailer struct {
	cfg    Config
	logger *slog.Logger

	// send is swapped out in tests to capture the wire payload.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. FromEmail defaults to Username, matching how the
// submission account is normally also the sender.
func New(cfg Config, logger *slog.Logger) *Mailer {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}
	if cfg.FromName == "" {
		cfg.FromName = "Event Host"
	}
	return &Mailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// Enabled reports whether SMTP credentials are configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

// Send delivers one HTML email. Returns nil without sending when the mailer
// is disabled or the recipient is empty.
func (m *Mailer) Send(to, toName, subject, htmlBody string) error {
	if !m.Enabled() || to == "" {
		m.logger.Debug("email skipped",
			slog.String("to", to),
			slog.Bool("enabled", m.Enabled()),
		)
		return nil
	}

	msg := buildMessage(m.cfg.FromName, m.cfg.FromEmail, toName, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := m.send(addr, auth, m.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", to, err)
	}

	m.logger.Info("email sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// buildMessage assembles a minimal single-part HTML MIME message.
func buildMessage(fromName, fromEmail, toName, toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", sanitizeHeader(fromName), fromEmail)
	fmt.Fprintf(&b, "To: %s <%s>\r\n", sanitizeHeader(toName), toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so form-derived values cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
