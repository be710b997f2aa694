package auth

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/session"
	"github.com/saulo-duarte/strive/internal/user"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

const (
	HomePath = "/goals"

	MsgInvalidCredentials  = "Invalid username or password."
	MsgRegistrationFailed  = "Registration failed. Username or Email might already be taken."
	MsgRegistrationSuccess = "Registration successful! Please log in."
)

type LoginPage struct {
	Username string
}

type RegisterPage struct {
	Form user.RegisterForm
}

type Handler struct {
	users    user.Service
	renderer view.Renderer
}

func NewHandler(users user.Service, renderer view.Renderer) *Handler {
	return &Handler{users: users, renderer: renderer}
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	data := web.Page(r, "Log in", LoginPage{})
	data.Flash = web.TakeFlash(r)
	web.Render(w, r, h.renderer, http.StatusOK, view.Login, data)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	form := user.LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	u, err := h.users.Authenticate(r.Context(), form)
	if err != nil {
		msg := ""
		if verr, ok := validation.As(err); ok {
			msg = verr.Message
		} else if errors.Is(err, user.ErrInvalidCredentials) {
			msg = MsgInvalidCredentials
		} else {
			web.ServerError(w, r, h.renderer, err)
			return
		}

		data := web.Page(r, "Log in", LoginPage{Username: form.Username})
		data.Error = msg
		web.Render(w, r, h.renderer, http.StatusOK, view.Login, data)
		return
	}

	sess := session.FromContext(r.Context())
	if sess == nil {
		web.ServerError(w, r, h.renderer, errors.New("session middleware not installed"))
		return
	}
	sess.Renew()
	sess.SetUser(u.ID, u.Username)

	log.WithField("user_id", u.ID).Info("User logged in")
	web.Redirect(w, r, HomePath)
}

func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, h.renderer, http.StatusOK, view.Register, web.Page(r, "Register", RegisterPage{}))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := user.RegisterForm{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}

	if _, err := h.users.Register(r.Context(), form); err != nil {
		msg := ""
		if verr, ok := validation.As(err); ok {
			msg = verr.Message
		} else if errors.Is(err, user.ErrDuplicate) {
			msg = MsgRegistrationFailed
		} else {
			web.ServerError(w, r, h.renderer, err)
			return
		}

		form.Password, form.ConfirmPassword = "", ""
		data := web.Page(r, "Register", RegisterPage{Form: form})
		data.Error = msg
		web.Render(w, r, h.renderer, http.StatusOK, view.Register, data)
		return
	}

	web.Success(w, r, MsgRegistrationSuccess, LoginPath)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		config.WithContext(r.Context()).WithField("user_id", sess.UserID()).Info("User logged out")
		sess.Invalidate()
	}
	web.Redirect(w, r, LoginPath)
}
