// Package session keeps per-visitor state on the server. The browser only
// holds a signed token naming the session id.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Kind string

const (
	FlashSuccess Kind = "success"
	FlashError   Kind = "error"
)

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (f *Flash) IsError() bool {
	return f != nil && f.Kind == FlashError
}

// Data is the persisted part of a session.
type Data struct {
	UserID   uint              `json:"user_id,omitempty"`
	Username string            `json:"username,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
	Flash    *Flash            `json:"flash,omitempty"`
}

func (d Data) IsEmpty() bool {
	return d.UserID == 0 && d.Username == "" && len(d.Values) == 0 && d.Flash == nil
}

func (d Data) clone() Data {
	out := d
	if d.Values != nil {
		out.Values = make(map[string]string, len(d.Values))
		for k, v := range d.Values {
			out.Values[k] = v
		}
	}
	if d.Flash != nil {
		f := *d.Flash
		out.Flash = &f
	}
	return out
}

type Session struct {
	mu         sync.Mutex
	id         string
	previousID string
	data       Data
	dirty      bool
}

func New() *Session {
	return &Session{id: newID()}
}

func restore(id string, data Data) *Session {
	return &Session{id: id, data: data}
}

func newID() string {
	return uuid.NewString()
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Values == nil {
		s.data.Values = make(map[string]string)
	}
	s.data.Values[key] = value
	s.dirty = true
}

func (s *Session) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Values[key]; !ok {
		return
	}
	delete(s.data.Values, key)
	s.dirty = true
}

func (s *Session) SetUser(id uint, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserID = id
	s.data.Username = username
	s.dirty = true
}

func (s *Session) UserID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UserID
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Username
}

func (s *Session) Authenticated() bool {
	return s.UserID() != 0
}

// Flash replaces any pending message; a session holds at most one.
func (s *Session) Flash(kind Kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Flash = &Flash{Kind: kind, Message: message}
	s.dirty = true
}

// TakeFlash returns the pending message and clears it.
func (s *Session) TakeFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.data.Flash
	if f != nil {
		s.data.Flash = nil
		s.dirty = true
	}
	return f
}

// Invalidate drops all data and moves the session to a fresh id.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotate()
	s.data = Data{}
	s.dirty = true
}

// Renew keeps the data under a fresh id. Called on login so a pre-login id
// cannot be reused.
func (s *Session) Renew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotate()
	s.dirty = true
}

func (s *Session) rotate() {
	if s.previousID == "" {
		s.previousID = s.id
	}
	s.id = newID()
}

// snapshot returns what must be persisted and resets the dirty marker.
func (s *Session) snapshot() (id, previousID string, data Data, dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, previousID, data, dirty = s.id, s.previousID, s.data.clone(), s.dirty
	s.previousID = ""
	s.dirty = false
	return
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
