package session_test

import (
	"testing"

	"github.com/saulo-duarte/strive/internal/session"
)

func TestSessionFlash(t *testing.T) {
	s := session.New()

	if f := s.TakeFlash(); f != nil {
		t.Fatalf("expected no flash, got %+v", f)
	}

	s.Flash(session.FlashSuccess, "first")
	s.Flash(session.FlashError, "second")

	f := s.TakeFlash()
	if f == nil || f.Message != "second" || !f.IsError() {
		t.Fatalf("expected only the latest flash, got %+v", f)
	}
	if again := s.TakeFlash(); again != nil {
		t.Errorf("flash should be consumed once, got %+v", again)
	}
}

func TestSessionUser(t *testing.T) {
	s := session.New()
	if s.Authenticated() {
		t.Fatal("new session should be anonymous")
	}

	s.SetUser(3, "alice")
	if !s.Authenticated() || s.UserID() != 3 || s.Username() != "alice" {
		t.Fatalf("unexpected identity: %d %q", s.UserID(), s.Username())
	}

	t.Run("renew keeps identity under a new id", func(t *testing.T) {
		before := s.ID()
		s.Renew()
		if s.ID() == before {
			t.Error("expected a fresh id")
		}
		if s.UserID() != 3 {
			t.Error("renew should keep the user")
		}
	})

	t.Run("invalidate clears everything", func(t *testing.T) {
		s.Set("k", "v")
		before := s.ID()
		s.Invalidate()
		if s.ID() == before {
			t.Error("expected a fresh id")
		}
		if s.Authenticated() {
			t.Error("invalidate should drop the user")
		}
		if _, ok := s.Get("k"); ok {
			t.Error("invalidate should drop values")
		}
	})
}

func TestSessionValues(t *testing.T) {
	s := session.New()
	s.Set("filter", "4")

	v, ok := s.Get("filter")
	if !ok || v != "4" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	s.Remove("filter")
	if _, ok := s.Get("filter"); ok {
		t.Error("value should be removed")
	}
}
