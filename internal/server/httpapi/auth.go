package httpapi

import (
	"errors"
	"net"
	"net/http"

	"github.com/and161185/notekeeper/internal/api"
	"github.com/and161185/notekeeper/internal/convert"
	"github.com/and161185/notekeeper/internal/errs"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.auth.Register(r.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAlreadyExists):
			writeDetail(w, http.StatusBadRequest, "Username already registered")
		case errors.Is(err, errs.ErrInvalidArgument):
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.internal(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, convert.ToUserResponse(u))
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	tok, err := s.auth.LoginWithIP(r.Context(), req.Username, req.Password, remoteIP(r))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnauthorized):
			writeDetail(w, http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, errs.ErrRateLimited):
			writeDetail(w, http.StatusTooManyRequests, "Too many login attempts")
		default:
			s.internal(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTokenResponse(tok))
}
