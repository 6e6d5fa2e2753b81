package domain

import "time"

// SessionRecord is the single durable record backing a browser session.
// It carries the only expiry; the profile lives and dies with it.
type SessionRecord struct {
	Key       string    `json:"key"`
	User      *User     `json:"user,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its absolute expiry at now.
func (r *SessionRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Remaining is the lifetime left at now, never negative.
func (r *SessionRecord) Remaining(now time.Time) time.Duration {
	d := r.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
