package model

// RSVP responses. An empty string means the guest has not responded yet.
const (
	RSVPYes = "yes"
	RSVPNo  = "no"
)

// Invite is one guest's standing with respect to one event. It covers both
// registered guests (UserID set) and anonymous walk-ins (Anonymous set,
// identified by GuestPhone).
//
// WHY UserID int64 AND NOT A NULLABLE TYPE?
// Row IDs start at 1, so 0 is free to mean "no user". The sqlite layer
// translates 0 to NULL on write and NULL to 0 on read. This keeps the model
// free of sql.Null* types, which would leak storage concerns everywhere.
//
// INVARIANTS:
//   - An invite belongs to exactly one event.
//   - At most one anonymous invite per (event, phone) pair; a repeat
//     submission with the same phone updates the existing row.
type Invite struct {
	ID         int64  `json:"id"`
	EventID    int64  `json:"eventId"`
	UserID     int64  `json:"userId"`
	RSVP       string `json:"rsvp"`
	AdultsQty  int    `json:"adultsQty"`
	KidsQty    int    `json:"kidsQty"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
	GuestPhone string `json:"guestPhone"`
	Anonymous  bool   `json:"anonymous"`
}

// Guest is a row of the admin guest list: an invite joined with the user
// account when one exists. Name and Email fall back to the guest_* fields
// for anonymous invites.
type Guest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RSVP      string `json:"rsvp"`
	AdultsQty int    `json:"adultsQty"`
	KidsQty   int    `json:"kidsQty"`
	Anonymous bool   `json:"anonymous"`
}

// RSVPStats aggregates the guest list for the admin page. TotalAdults and
// TotalKids only count guests who answered yes.
type RSVPStats struct {
	Attending    int `json:"attending"`
	NotAttending int `json:"notAttending"`
	NoResponse   int `json:"noResponse"`
	TotalAdults  int `json:"totalAdults"`
	TotalKids    int `json:"totalKids"`
}
