package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/saulo-duarte/strive/internal/config"
)

const DefaultCookieName = "strive_session"

// TokenCodec signs session ids for the cookie and verifies them on return.
type TokenCodec interface {
	Encode(sessionID string, ttl time.Duration) (string, error)
	Decode(token string) (string, error)
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	// ErrorHandler renders a failure to reach the store. Defaults to a plain 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

type Manager struct {
	store Store
	codec TokenCodec
	opts  Options
}

func NewManager(store Store, codec TokenCodec, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	return &Manager{store: store, codec: codec, opts: opts}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Middleware loads the visitor's session into the request context and
// persists it right before the response header goes out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, hadCookie, err := m.load(r)
		if err != nil {
			config.WithContext(r.Context()).WithError(err).Error("Failed to load session")
			m.opts.ErrorHandler(w, r, err)
			return
		}

		cw := &commitWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) bool {
			if err := m.commit(w, r, sess, hadCookie); err != nil {
				// The handler's response assumed the session change stuck.
				for k := range w.Header() {
					delete(w.Header(), k)
				}
				m.opts.ErrorHandler(w, r, err)
				return false
			}
			return true
		}}
		next.ServeHTTP(cw, r.WithContext(NewContext(r.Context(), sess)))
		cw.flush()
	})
}

func (m *Manager) load(r *http.Request) (*Session, bool, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return New(), false, nil
	}

	id, err := m.codec.Decode(c.Value)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Debug("Ignoring invalid session cookie")
		return New(), true, nil
	}

	data, err := m.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return New(), true, nil
		}
		return nil, true, err
	}
	return restore(id, data), true, nil
}

// commit persists the session and sets the cookie. It returns an error only
// when a change made during this request could not be stored; a failed
// refresh of an unchanged session is just logged.
func (m *Manager) commit(w http.ResponseWriter, r *http.Request, sess *Session, hadCookie bool) error {
	ctx := r.Context()
	log := config.WithContext(ctx)
	id, previousID, data, dirty := sess.snapshot()

	if previousID != "" {
		if err := m.store.Delete(ctx, previousID); err != nil {
			log.WithError(err).Warn("Failed to delete rotated session")
		}
	}

	if data.IsEmpty() {
		if dirty {
			if err := m.store.Delete(ctx, id); err != nil {
				log.WithError(err).Warn("Failed to delete empty session")
			}
		}
		if hadCookie {
			http.SetCookie(w, m.cookie("", -1))
		}
		return nil
	}

	if err := m.store.Save(ctx, id, data, m.opts.TTL); err != nil {
		log.WithError(err).Error("Failed to save session")
		if dirty {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}
	token, err := m.codec.Encode(id, m.opts.TTL)
	if err != nil {
		log.WithError(err).Error("Failed to sign session cookie")
		if dirty {
			return fmt.Errorf("sign session cookie: %w", err)
		}
		return nil
	}
	http.SetCookie(w, m.cookie(token, int(m.opts.TTL.Seconds())))
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// commitWriter runs commit exactly once, before the first byte of the
// response header is written. When commit reports that it replaced the
// response, the handler's own output is discarded.
type commitWriter struct {
	http.ResponseWriter
	once     sync.Once
	commit   func(w http.ResponseWriter) bool
	replaced bool
}

func (c *commitWriter) flush() {
	c.once.Do(func() { c.replaced = !c.commit(c.ResponseWriter) })
}

func (c *commitWriter) WriteHeader(status int) {
	c.flush()
	if c.replaced {
		return
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *commitWriter) Write(b []byte) (int, error) {
	c.flush()
	if c.replaced {
		return len(b), nil
	}
	return c.ResponseWriter.Write(b)
}

func (c *commitWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
