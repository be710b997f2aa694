package auth

import "github.com/go-chi/chi/v5"

func Mount(r chi.Router, h *Handler) {
	r.Get("/login", h.ShowLogin)
	r.Post("/login", h.Login)
	r.Get("/register", h.ShowRegister)
	r.Post("/register", h.Register)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
}
