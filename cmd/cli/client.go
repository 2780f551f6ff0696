package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/and161185/notekeeper/internal/api"
)

type routes struct {
	auth, notes, tags string
}

// client is a thin JSON-over-HTTP client for the notes API.
type client struct {
	base   string
	routes routes
	token  string
	hc     *http.Client
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server: %d %s", e.Status, e.Detail)
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.base, "/")+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var d api.DetailResponse
		_ = json.NewDecoder(resp.Body).Decode(&d)
		return &apiError{Status: resp.StatusCode, Detail: d.Detail}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) Register(ctx context.Context, in api.RegisterRequest) (api.UserResponse, error) {
	var out api.UserResponse
	err := c.do(ctx, http.MethodPost, c.routes.auth+"/register", in, &out)
	return out, err
}

func (c *client) Login(ctx context.Context, in api.LoginRequest) (api.TokenResponse, error) {
	var out api.TokenResponse
	err := c.do(ctx, http.MethodPost, c.routes.auth+"/login", in, &out)
	return out, err
}

func (c *client) CreateNote(ctx context.Context, in api.CreateNoteRequest) (api.NoteResponse, error) {
	var out api.NoteResponse
	err := c.do(ctx, http.MethodPost, c.routes.notes, in, &out)
	return out, err
}

func (c *client) ListNotes(ctx context.Context) ([]api.NoteResponse, error) {
	var out []api.NoteResponse
	err := c.do(ctx, http.MethodGet, c.routes.notes, nil, &out)
	return out, err
}

func (c *client) GetNote(ctx context.Context, id string) (api.NoteResponse, error) {
	var out api.NoteResponse
	err := c.do(ctx, http.MethodGet, c.routes.notes+"/"+id, nil, &out)
	return out, err
}

func (c *client) UpdateNote(ctx context.Context, id string, in api.UpdateNoteRequest) (api.NoteResponse, error) {
	var out api.NoteResponse
	err := c.do(ctx, http.MethodPut, c.routes.notes+"/"+id, in, &out)
	return out, err
}

func (c *client) DeleteNote(ctx context.Context, id string) (api.DetailResponse, error) {
	var out api.DetailResponse
	err := c.do(ctx, http.MethodDelete, c.routes.notes+"/"+id, nil, &out)
	return out, err
}

func (c *client) CreateTag(ctx context.Context, name string) (api.TagResponse, error) {
	var out api.TagResponse
	err := c.do(ctx, http.MethodPost, c.routes.tags, api.TagRequest{Name: name}, &out)
	return out, err
}

func (c *client) ListTags(ctx context.Context) ([]api.TagResponse, error) {
	var out []api.TagResponse
	err := c.do(ctx, http.MethodGet, c.routes.tags, nil, &out)
	return out, err
}

func (c *client) GetTag(ctx context.Context, id string) (api.TagResponse, error) {
	var out api.TagResponse
	err := c.do(ctx, http.MethodGet, c.routes.tags+"/"+id, nil, &out)
	return out, err
}

func (c *client) RenameTag(ctx context.Context, id, name string) (api.TagResponse, error) {
	var out api.TagResponse
	err := c.do(ctx, http.MethodPut, c.routes.tags+"/"+id, api.TagRequest{Name: name}, &out)
	return out, err
}

func (c *client) DeleteTag(ctx context.Context, id string) (api.DetailResponse, error) {
	var out api.DetailResponse
	err := c.do(ctx, http.MethodDelete, c.routes.tags+"/"+id, nil, &out)
	return out, err
}
