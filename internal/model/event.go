package model

// Event is the invitation being shown to guests.
//
// Datetime is stored as a local ISO-8601 string ("2006-01-02T15:04:05")
// exactly as it is entered in the admin form. Parsing and formatting for
// display happens in the calendar package; an unparseable value degrades to
// showing the raw string, never to an error page.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Host        string `json:"host"`
	Datetime    string `json:"datetime"`
	Location    string `json:"location"`
	Registry1   string `json:"registry1"`
	Registry2   string `json:"registry2"`
	HeaderImage string `json:"headerImage"`
	CardTheme   string `json:"cardTheme"`
}

// DefaultCardTheme is applied when an event has no theme set.
const DefaultCardTheme = "ocean"
