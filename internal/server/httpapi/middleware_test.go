package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/notekeeper/internal/model"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   tok  ", "tok", true},
		{"Basic Zm9vOmJhcg==", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		got, err := bearerToken(r)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("%q: want %q, got %q (%v)", c.header, c.want, got, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%q: expected error, got %q", c.header, got)
		}
	}
}

func TestRecover_CatchesPanic(t *testing.T) {
	t.Parallel()

	h := Recover(zaptest.NewLogger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("oh no")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
}

func TestLogging_PassesStatusThrough(t *testing.T) {
	t.Parallel()

	h := Logging(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("want 418, got %d", rec.Code)
	}
}

func TestIdentityCtx_RoundTrip(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFromCtx(r.Context()); ok {
		t.Fatalf("unexpected identity in empty context")
	}
	want := model.Identity{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	got, ok := IdentityFromCtx(WithIdentity(r.Context(), want))
	if !ok || got != want {
		t.Fatalf("identity mismatch: %+v", got)
	}
}
