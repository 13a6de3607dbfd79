package session

import "time"

// Session is one authenticated dashboard user, persisted so logins survive
// process restarts. ID is the opaque value carried by the browser cookie.
type Session struct {
	ID        string
	Username  string
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// malformed reports a stored row that cannot represent a usable login. Such
// rows are treated as "no session" and purged.
func (s Session) malformed() bool {
	return s.Username == "" || s.Token == ""
}
