// Package model defines the data structures used throughout the application.
package model

// User represents a registered guest account.
//
// WHY IsAdmin ON THE USER?
// The app has exactly one host. The first account to register becomes the
// admin, and RSVP notifications are routed to that account's email. There is
// no separate roles table because the data model doesn't need one.
//
// PasswordHash holds a bcrypt hash, never the plaintext. It is excluded from
// JSON so a serialized user can never leak it.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
}
