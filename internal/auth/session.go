package auth

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie that carries the session ID.
const SessionCookieName = "session_id"

// SessionStore maps random session IDs to user IDs, in process memory.
//
// WHY IN-MEMORY?
// The app runs as a single process serving one event's worth of guests.
// Sessions being lost on restart just means guests log in again, which is
// fine for this scale. The store is guarded by a RWMutex because the HTTP
// server calls into it from concurrent request goroutines.
//
// Session IDs are random v4 UUIDs drawn from crypto/rand. The ID is the
// whole credential, so it must be unguessable; time-ordered generators
// (xid and friends) are off the table here.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]int64)}
}

// Create registers a new session for the given user and returns its ID.
func (s *SessionStore) Create(userID int64) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = userID
	s.mu.Unlock()
	return id
}

// Get returns the user ID for a session, or (0, false) when the session
// does not exist.
func (s *SessionStore) Get(sessionID string) (int64, bool) {
	s.mu.RLock()
	userID, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	return userID, ok
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len reports the number of live sessions. Used by tests.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetCookie writes the session cookie on a response. HttpOnly keeps the
// token away from page JavaScript; SameSite=Lax still sends it on the
// top-level navigations this form-driven app is made of.
func SetCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the browser to drop the session cookie immediately.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
