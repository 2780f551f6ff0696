package httpapi

import (
	"errors"
	"net/http"

	"github.com/and161185/notekeeper/internal/api"
	"github.com/and161185/notekeeper/internal/convert"
	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
)

// owner returns the identity set by RequireAuth.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	}
	return id, ok
}

func (s *Server) noteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, errs.ErrInvalidArgument):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.internal(w, r, err)
	}
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	me, ok := s.owner(w, r)
	if !ok {
		return
	}
	var req api.CreateNoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.notes.Create(r.Context(), me, convert.FromCreateNoteRequest(req))
	if err != nil {
		s.noteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToNoteResponse(n))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	me, ok := s.owner(w, r)
	if !ok {
		return
	}
	ns, err := s.notes.List(r.Context(), me)
	if err != nil {
		s.noteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToNoteResponses(ns))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	me, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := s.notes.Get(r.Context(), me, id)
	if err != nil {
		s.noteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToNoteResponse(n))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	me, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.UpdateNoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.notes.Update(r.Context(), me, id, convert.FromUpdateNoteRequest(req))
	if err != nil {
		s.noteError(w, r, err)
		return
	}
	if n == nil {
		writeDetail(w, http.StatusNotFound, "Note not found")
		return
	}
	writeJSON(w, http.StatusOK, convert.ToNoteResponse(*n))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	me, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := s.notes.Delete(r.Context(), me, id)
	if err != nil {
		s.noteError(w, r, err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Note not found")
		return
	}
	writeDetail(w, http.StatusOK, "Note deleted successfully")
}
