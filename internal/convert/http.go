// Package convert maps domain models to and from the JSON wire types.
package convert

import (
	"github.com/and161185/notekeeper/internal/api"
	"github.com/and161185/notekeeper/internal/model"
)

// ToUserResponse maps a user to its public view. The password hash is never exposed.
func ToUserResponse(u model.User) api.UserResponse {
	return api.UserResponse{ID: u.ID.String(), Username: u.Username, Name: u.Name}
}

// ToTokenResponse maps issued tokens.
func ToTokenResponse(t model.Tokens) api.TokenResponse {
	typ := t.TokenType
	if typ == "" {
		typ = model.TokenTypeBearer
	}
	return api.TokenResponse{AccessToken: t.AccessToken, TokenType: typ}
}

// ToTagResponse maps a tag.
func ToTagResponse(t model.Tag) api.TagResponse {
	return api.TagResponse{ID: t.ID.String(), Name: t.Name}
}

// ToTagResponses maps tags; never returns nil so JSON renders [].
func ToTagResponses(ts []model.Tag) []api.TagResponse {
	out := make([]api.TagResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTagResponse(t))
	}
	return out
}

// ToNoteResponse maps a note with its tags.
func ToNoteResponse(n model.Note) api.NoteResponse {
	return api.NoteResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Locked:    n.Locked,
		Tags:      ToTagResponses(n.Tags),
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

// ToNoteResponses maps notes; never returns nil.
func ToNoteResponses(ns []model.Note) []api.NoteResponse {
	out := make([]api.NoteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToNoteResponse(n))
	}
	return out
}

// FromCreateNoteRequest builds a creation intent.
func FromCreateNoteRequest(r api.CreateNoteRequest) model.NewNote {
	return model.NewNote{
		Title:    r.Title,
		Content:  r.Content,
		Locked:   r.Locked,
		TagNames: append([]string(nil), r.Tags...),
	}
}

// FromUpdateNoteRequest builds an update intent.
func FromUpdateNoteRequest(r api.UpdateNoteRequest) model.NoteUpdate {
	upd := model.NoteUpdate{Title: r.Title, Content: r.Content}
	if r.Locked != nil {
		v := *r.Locked
		upd.Locked = &v
	}
	return upd
}
