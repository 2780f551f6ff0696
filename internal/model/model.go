// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// TokenTypeBearer is the only token type issued by the service.
const TokenTypeBearer = "bearer"

// Tokens collects an issued access token.
type Tokens struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account. PwdHash is a self-describing Argon2id hash, never the password.
type User struct {
	ID        uuid.UUID // PK
	Name      string
	Username  string // unique
	PwdHash   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the acting user passed explicitly to ownership-scoped operations.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// Identity returns the user's identity value.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}

// Tag is a global label; names are unique.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// Note is a single user-owned record with its associated tags.
type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID // FK -> users.id
	Title     string
	Content   string
	Locked    bool
	Tags      []Tag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote is a creation intent. TagNames are resolved (and created if missing) on insert.
type NewNote struct {
	Title    string
	Content  string
	Locked   bool
	TagNames []string
}

// NoteUpdate overwrites title and content. A nil Locked keeps the stored value.
type NoteUpdate struct {
	Title   string
	Content string
	Locked  *bool
}
