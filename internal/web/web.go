// Package web holds the helpers shared by the form handlers: action
// dispatch, Post/Redirect/Get and the generic error page.
package web

import (
	"net/http"
	"strings"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/session"
	"github.com/saulo-duarte/strive/internal/view"
)

const MsgInvalidAction = "Invalid action requested."

// Action reads the action parameter from the query or form body.
func Action(r *http.Request, fallback string) string {
	if a := strings.TrimSpace(r.FormValue("action")); a != "" {
		return a
	}
	return fallback
}

func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// FlashRedirect records exactly one message and redirects.
func FlashRedirect(w http.ResponseWriter, r *http.Request, kind session.Kind, message, url string) {
	if sess := session.FromContext(r.Context()); sess != nil {
		sess.Flash(kind, message)
	}
	Redirect(w, r, url)
}

func Success(w http.ResponseWriter, r *http.Request, message, url string) {
	FlashRedirect(w, r, session.FlashSuccess, message, url)
}

func Fail(w http.ResponseWriter, r *http.Request, message, url string) {
	FlashRedirect(w, r, session.FlashError, message, url)
}

// TakeFlash drains the pending message so it is shown once.
func TakeFlash(r *http.Request) *session.Flash {
	sess := session.FromContext(r.Context())
	if sess == nil {
		return nil
	}
	return sess.TakeFlash()
}

// Page builds view data with the signed in user's name filled in.
func Page(r *http.Request, title string, page interface{}) view.Data {
	data := view.Data{Title: title, Page: page}
	if sess := session.FromContext(r.Context()); sess != nil {
		data.Username = sess.Username()
	}
	return data
}

// Render writes a page, falling back to the generic error page when the
// template fails.
func Render(w http.ResponseWriter, r *http.Request, renderer view.Renderer, status int, name string, data view.Data) {
	if err := renderer.Render(w, status, name, data); err != nil {
		ServerError(w, r, renderer, err)
	}
}

// ServerError logs err and shows the generic error page without details.
func ServerError(w http.ResponseWriter, r *http.Request, renderer view.Renderer, err error) {
	config.WithContext(r.Context()).WithError(err).Error("Unexpected error while handling request")

	if renderer != nil {
		if rerr := renderer.Render(w, http.StatusInternalServerError, view.Error, view.Data{Title: "Error"}); rerr == nil {
			return
		}
	}
	http.Error(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
}
