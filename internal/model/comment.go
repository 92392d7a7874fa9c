package model

import "time"

// Comment is a guestbook entry on an event page. UserID is 0 for comments
// left without an account; DisplayName is what the commenter typed into the
// name field either way. When a user account exists its current name takes
// precedence over DisplayName at read time.
type Comment struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"eventId"`
	UserID      int64     `json:"userId"`
	Text        string    `json:"text"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
