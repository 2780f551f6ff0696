// Package api defines the JSON wire types shared by the HTTP server and the CLI client.
package api

import "time"

// RegisterRequest is the body of POST {auth}/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginRequest is the body of POST {auth}/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is returned by registration.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// TokenResponse is returned by login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateNoteRequest is the body of POST {notes}.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"max=100000"`
	Locked  bool     `json:"locked"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=50"`
}

// UpdateNoteRequest is the body of PUT {notes}/{id}. Omitted locked keeps the stored value.
type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"max=100000"`
	Locked  *bool  `json:"locked,omitempty"`
}

// NoteResponse is a note as seen by its owner.
type NoteResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Locked    bool          `json:"locked"`
	Tags      []TagResponse `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TagRequest is the body of POST {tags} and PUT {tags}/{id}.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// TagResponse is a tag record.
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DetailResponse carries a human-readable message (errors and deletions).
type DetailResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
