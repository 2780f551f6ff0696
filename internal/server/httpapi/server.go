// Package httpapi exposes the notes API over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/notekeeper/internal/service"
)

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes holds the mount points of each resource group.
type Routes struct {
	AuthPrefix  string
	NotesPrefix string
	TagsPrefix  string
}

// DefaultRoutes mirrors the default configuration.
var DefaultRoutes = Routes{AuthPrefix: "/api/auth", NotesPrefix: "/api/notes", TagsPrefix: "/api/tags"}

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	notes    service.NoteService
	tags     service.TagService
	health   Pinger
	routes   Routes
	log      *zap.Logger
	validate *validator.Validate
}

// New constructs an HTTP server with injected services. health may be nil.
func New(auth service.AuthService, notes service.NoteService, tags service.TagService, health Pinger, routes Routes, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Server{
		auth:     auth,
		notes:    notes,
		tags:     tags,
		health:   health,
		routes:   routes,
		log:      log,
		validate: v,
	}
}

// Handler builds the router with logging and panic recovery applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	r.Use(Recover(s.log), Logging(s.log))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	a := r.PathPrefix(s.routes.AuthPrefix).Subrouter()
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	n := r.PathPrefix(s.routes.NotesPrefix).Subrouter()
	n.Use(s.RequireAuth)
	collection(n, s.handleCreateNote, s.handleListNotes)
	n.HandleFunc("/{id}", s.handleGetNote).Methods(http.MethodGet)
	n.HandleFunc("/{id}", s.handleUpdateNote).Methods(http.MethodPut)
	n.HandleFunc("/{id}", s.handleDeleteNote).Methods(http.MethodDelete)

	t := r.PathPrefix(s.routes.TagsPrefix).Subrouter()
	collection(t, s.handleCreateTag, s.handleListTags)
	t.HandleFunc("/{id}", s.handleGetTag).Methods(http.MethodGet)
	t.HandleFunc("/{id}", s.handleUpdateTag).Methods(http.MethodPut)
	t.HandleFunc("/{id}", s.handleDeleteTag).Methods(http.MethodDelete)

	return r
}

// collection registers create/list on both the bare prefix and the prefix with a trailing slash.
func collection(r *mux.Router, create, list http.HandlerFunc) {
	for _, p := range []string{"", "/"} {
		r.HandleFunc(p, create).Methods(http.MethodPost)
		r.HandleFunc(p, list).Methods(http.MethodGet)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.Warn("health ping failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
