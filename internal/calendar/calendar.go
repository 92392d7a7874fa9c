// Package calendar turns an event's stored datetime into "add to calendar"
// links and an ICS document. These are thin string formatters; the only
// rule they enforce is that a malformed datetime degrades to empty links
// rather than an error, so the invitation page always renders.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"
)

// layout is the ISO-8601 local form the admin form writes and the seed data
// uses, e.g. "2025-10-04T11:00:00". No timezone: the event is wherever the
// party is.
const layout = "2006-01-02T15:04:05"

// Durations assumed for the calendar entries. Outlook's shorter window
// matches what the invitations have always generated.
const (
	icsDuration     = 3 * time.Hour
	outlookDuration = 2 * time.Hour
)

// Links holds the per-platform calendar URLs plus the raw ICS text that
// backs both the Apple data URL and the /calendar/{id} download.
type Links struct {
	Google  string
	Outlook string
	Apple   string
	ICS     string
}

// ParseEventTime parses the stored datetime string.
func ParseEventTime(raw string) (time.Time, error) {
	return time.Parse(layout, raw)
}

// DisplayDate formats an event time the way the pages and emails show it,
// e.g. "Saturday, October 4, 2025".
func DisplayDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// DisplayTime formats the time-of-day portion, e.g. "11:00 AM".
func DisplayTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// BuildLinks generates the calendar links for an event. A datetime that
// fails to parse yields zero-value Links.
func BuildLinks(title, description, datetime, location string) Links {
	start, err := ParseEventTime(datetime)
	if err != nil {
		return Links{}
	}

	compactStart := start.Format("20060102T150405")
	compactEnd := start.Add(icsDuration).Format("20060102T150405")

	google := "https://calendar.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + url.QueryEscape(title) +
		"&dates=" + compactStart + "/" + compactEnd +
		"&details=" + url.QueryEscape(description) +
		"&location=" + url.QueryEscape(location)

	outlook := "https://outlook.live.com/calendar/0/deeplink/compose" +
		"?subject=" + url.QueryEscape(title) +
		"&startdt=" + start.Format(layout) +
		"&enddt=" + start.Add(outlookDuration).Format(layout) +
		"&body=" + url.QueryEscape(description) +
		"&location=" + url.QueryEscape(location)

	ics := buildICS(title, description, location, compactStart, compactEnd)

	return Links{
		Google:  google,
		Outlook: outlook,
		Apple:   "data:text/calendar;charset=utf-8," + url.QueryEscape(ics),
		ICS:     ics,
	}
}

func buildICS(title, description, location, start, end string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//evite//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s@evite\r\n", xid.New().String())
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start)
	fmt.Fprintf(&b, "DTEND:%s\r\n", end)
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(title))
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(description))
	fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICS(location))
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// escapeICS escapes the characters RFC 5545 treats specially in text values.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}
