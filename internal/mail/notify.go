package mail

import (
	"fmt"
	"html"
	"log/slog"
)

// RSVPNotification carries everything the two confirmation emails need.
// The RSVP service assembles it after storing a response; this package only
// formats and sends.
type RSVPNotification struct {
	EventID     int64
	EventTitle  string
	HostName    string
	HostEmail   string
	DateDisplay string
	TimeDisplay string
	Location    string
	GuestName   string
	GuestEmail  string
	Response    string // "yes" or "no"
	AdultsQty   int
	KidsQty     int
	Anonymous   bool
	AdminURL    string
}

// Notifier is what the RSVP service depends on. The Mailer implements it;
// tests substitute a recorder.
type Notifier interface {
	NotifyRSVP(n RSVPNotification)
}

var _ Notifier = (*Mailer)(nil)

// NotifyRSVP sends the guest confirmation and the host notification for one
// RSVP. Both sends are best-effort; a failure on one does not stop the
// other.
func (m *Mailer) NotifyRSVP(n RSVPNotification) {
	if n.GuestEmail != "" {
		subject := fmt.Sprintf("RSVP Confirmation: %s", n.EventTitle)
		if err := m.Send(n.GuestEmail, n.GuestName, subject, guestBody(n)); err != nil {
			m.logger.Error("guest confirmation email failed",
				slog.String("to", n.GuestEmail),
				slog.String("error", err.Error()),
			)
		}
	}

	if n.HostEmail != "" {
		subject := fmt.Sprintf("New RSVP: %s - %s", n.GuestName, n.EventTitle)
		if err := m.Send(n.HostEmail, n.HostName, subject, hostBody(n)); err != nil {
			m.logger.Error("host notification email failed",
				slog.String("to", n.HostEmail),
				slog.String("error", err.Error()),
			)
		}
	}
}

// The bodies are assembled with fmt rather than html/template: they are two
// fixed paragraphs of markup, and every interpolated value goes through
// html.EscapeString.

func guestBody(n RSVPNotification) string {
	status, emoji, message := "not attending", "❌", "Thanks for letting us know. You'll be missed!"
	if n.Response == "yes" {
		status, emoji, message = "attending", "✅", "We're excited to see you there!"
	}

	party := ""
	if n.Response == "yes" {
		party = fmt.Sprintf("<p><strong>Party size:</strong> %d adult(s), %d kid(s)</p>", n.AdultsQty, n.KidsQty)
	}

	return fmt.Sprintf(`<html><body>
<h1>%s RSVP Confirmed</h1>
<p>Hi %s,</p>
<p>This confirms your RSVP for:</p>
<h3>%s</h3>
<p><strong>Host:</strong> %s</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Location:</strong> %s</p>
<p><strong>Your RSVP:</strong> %s %s</p>
%s
<p>%s</p>
<p>Best regards,<br>%s</p>
</body></html>`,
		emoji,
		html.EscapeString(n.GuestName),
		html.EscapeString(n.EventTitle),
		html.EscapeString(n.HostName),
		html.EscapeString(n.DateDisplay),
		html.EscapeString(n.TimeDisplay),
		html.EscapeString(n.Location),
		status, emoji,
		party,
		message,
		html.EscapeString(n.HostName),
	)
}

func hostBody(n RSVPNotification) string {
	status, emoji := "not attending", "❌"
	headline := fmt.Sprintf("%s is unable to attend your event.", html.EscapeString(n.GuestName))
	if n.Response == "yes" {
		status, emoji = "attending", "✅"
		headline = fmt.Sprintf("%s will be attending your event!", html.EscapeString(n.GuestName))
	}

	guestEmail := n.GuestEmail
	if guestEmail == "" {
		guestEmail = "Not provided"
	}
	kind := "Account-based"
	if n.Anonymous {
		kind = "Anonymous"
	}
	party := ""
	if n.Response == "yes" {
		party = fmt.Sprintf("<p><strong>Party size:</strong> %d adult(s), %d kid(s)</p>", n.AdultsQty, n.KidsQty)
	}

	return fmt.Sprintf(`<html><body>
<h1>%s New RSVP Received</h1>
<p>Hi %s,</p>
<p>%s</p>
<h3>RSVP Details</h3>
<p><strong>Guest:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Status:</strong> %s %s</p>
%s
<p><strong>RSVP Type:</strong> %s</p>
<p>You can view all RSVPs in your <a href="%s">admin panel</a>.</p>
<p>Event: %s<br>Date: %s at %s</p>
</body></html>`,
		emoji,
		html.EscapeString(n.HostName),
		headline,
		html.EscapeString(n.GuestName),
		html.EscapeString(guestEmail),
		status, emoji,
		party,
		kind,
		html.EscapeString(n.AdminURL),
		html.EscapeString(n.EventTitle),
		html.EscapeString(n.DateDisplay),
		html.EscapeString(n.TimeDisplay),
	)
}
