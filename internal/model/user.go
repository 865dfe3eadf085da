package model

// UserID uniquely identifies a user across the system
type UserID string

// User represents a registered identity with its cumulative score and
// moderation flags. Users live for the process lifetime and are never
// deleted.
type User struct {
	ID             UserID
	Username       string
	CredentialHash string // bcrypt hash of the login credential
	Score          int
	IsAdmin        bool
	IsBlocked      bool
}

// RosterEntry is the admin-facing view of a non-admin user.
type RosterEntry struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	IsBlocked bool   `json:"isBlocked"`
}

// RosterView renders the user as a roster entry.
func (u *User) RosterView() RosterEntry {
	return RosterEntry{
		ID:        u.ID,
		Username:  u.Username,
		Score:     u.Score,
		IsBlocked: u.IsBlocked,
	}
}
