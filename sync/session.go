// Package sync implements the client side of the messaging contract: a typed
// API client, an explicit session context, and the polling loops that keep an
// open chat view reconciled with the server.
package sync

import (
	"encoding/json"
	"errors"
	"log"
	"os"
)

// Session is the logged-in identity, created at login and passed explicitly
// to everything that needs it. It is never a hidden global.
type Session struct {
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	Gender    string `json:"gender"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// SessionStore persists the session as a single JSON blob in one file,
// mirroring the single persistent key the mobile client uses.
type SessionStore struct {
	Path string
}

// Load returns the stored session, or nil when there is none. A malformed
// blob degrades to logged-out rather than failing.
func (s *SessionStore) Load() *Session {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to read session file: %v", err)
		}
		return nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Phone == "" {
		log.Printf("Malformed session blob, treating as logged out")
		return nil
	}
	return &sess
}

// Save writes the session at login.
func (s *SessionStore) Save(sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o600)
}

// Clear removes the session at logout.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
