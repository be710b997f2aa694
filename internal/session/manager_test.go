package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saulo-duarte/strive/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainCodec uses the id itself as the token.
type plainCodec struct{}

func (plainCodec) Encode(id string, _ time.Duration) (string, error) { return "tok." + id, nil }

func (plainCodec) Decode(token string) (string, error) {
	if !strings.HasPrefix(token, "tok.") {
		return "", errors.New("bad token")
	}
	return strings.TrimPrefix(token, "tok."), nil
}

type failingStore struct{ session.Store }

func (failingStore) Load(context.Context, string) (session.Data, error) {
	return session.Data{}, errors.New("store down")
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestManagerFlashAcrossRedirect(t *testing.T) {
	store := session.NewMemoryStore()
	m := session.NewManager(store, plainCodec{}, session.Options{TTL: time.Hour})

	var taken []*session.Flash
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		switch r.URL.Path {
		case "/set":
			sess.Flash(session.FlashSuccess, "Category successfully added!")
			http.Redirect(w, r, "/show", http.StatusSeeOther)
		case "/show":
			taken = append(taken, sess.TakeFlash())
			w.WriteHeader(http.StatusOK)
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(t, rec.Result())
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, taken, 2)
	require.NotNil(t, taken[0])
	assert.Equal(t, "Category successfully added!", taken[0].Message)
	assert.Nil(t, taken[1])
}

func TestManagerRotationDeletesOldID(t *testing.T) {
	store := session.NewMemoryStore()
	m := session.NewManager(store, plainCodec{}, session.Options{TTL: time.Hour})

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		switch r.URL.Path {
		case "/login":
			sess.Renew()
			sess.SetUser(1, "alice")
		case "/logout":
			sess.Invalidate()
		case "/seed":
			sess.Set("k", "v")
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/seed", nil))
	first := sessionCookie(t, rec.Result())
	require.NotNil(t, first)
	require.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(first)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	second := sessionCookie(t, rec.Result())
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, 1, store.Len())

	_, err := store.Load(context.Background(), strings.TrimPrefix(first.Value, "tok."))
	assert.True(t, errors.Is(err, session.ErrNotFound))

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	cleared := sessionCookie(t, rec.Result())
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.Equal(t, 0, store.Len())
}

func TestManagerIgnoresForgedCookie(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), plainCodec{}, session.Options{})

	var authenticated bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated = session.FromContext(r.Context()).Authenticated()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestManagerStoreFailure(t *testing.T) {
	var handled error
	m := session.NewManager(failingStore{}, plainCodec{}, session.Options{
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	called := false
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "tok.abc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Error(t, handled)
	assert.False(t, called)
}

// readOnlyStore loads existing sessions but cannot persist anything.
type readOnlyStore struct{ *session.MemoryStore }

func (readOnlyStore) Save(context.Context, string, session.Data, time.Duration) error {
	return errors.New("store down")
}

func TestManagerSaveFailure(t *testing.T) {
	mem := session.NewMemoryStore()
	require.NoError(t, mem.Save(context.Background(), "abc", session.Data{UserID: 1, Username: "alice"}, time.Hour))

	var handled error
	m := session.NewManager(readOnlyStore{mem}, plainCodec{}, session.Options{
		TTL: time.Hour,
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if r.URL.Path == "/login" {
			sess.Renew()
			sess.SetUser(2, "bob")
			http.Redirect(w, r, "/goals", http.StatusSeeOther)
			return
		}
		_, _ = w.Write([]byte("goals for " + sess.Username()))
	}))

	t.Run("changed session replaces the response", func(t *testing.T) {
		handled = nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Nil(t, sessionCookie(t, rec.Result()))
		assert.Error(t, handled)
	})

	t.Run("unchanged session still gets its page", func(t *testing.T) {
		handled = nil
		req := httptest.NewRequest(http.MethodGet, "/goals", nil)
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "tok.abc"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "goals for alice", rec.Body.String())
		assert.NoError(t, handled)
	})
}
