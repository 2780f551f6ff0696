package httpapi

import (
	"errors"
	"net/http"

	"github.com/and161185/notekeeper/internal/api"
	"github.com/and161185/notekeeper/internal/convert"
	"github.com/and161185/notekeeper/internal/errs"
)

func (s *Server) tagError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Tag not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeDetail(w, http.StatusBadRequest, "Tag already exists")
	case errors.Is(err, errs.ErrInvalidArgument):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.internal(w, r, err)
	}
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req api.TagRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.tags.Create(r.Context(), req.Name)
	if err != nil {
		s.tagError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTagResponse(t))
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tags.List(r.Context())
	if err != nil {
		s.tagError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTagResponses(ts))
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.tags.Get(r.Context(), id)
	if err != nil {
		s.tagError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTagResponse(t))
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.TagRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.tags.Update(r.Context(), id, req.Name)
	if err != nil {
		s.tagError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTagResponse(t))
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := s.tags.Delete(r.Context(), id)
	if err != nil {
		s.tagError(w, r, err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Tag not found")
		return
	}
	writeDetail(w, http.StatusOK, "Tag deleted successfully")
}
