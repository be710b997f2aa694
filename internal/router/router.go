package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/strive/internal/auth"
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/middlewares"
	"github.com/saulo-duarte/strive/internal/milestone"
	"github.com/saulo-duarte/strive/internal/session"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

type RouterConfig struct {
	Sessions         *session.Manager
	Renderer         view.Renderer
	Metrics          *middlewares.Metrics
	AuthHandler      *auth.Handler
	CategoryHandler  *category.Handler
	GoalHandler      *goal.Handler
	MilestoneHandler *milestone.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	r.Use(middlewares.Recoverer(cfg.Renderer))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.Middleware)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			web.Redirect(w, r, goal.ListPath)
		})
		auth.Mount(r, cfg.AuthHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)

			r.Mount("/categories", category.Routes(cfg.CategoryHandler))
			r.Mount("/goals", goal.Routes(cfg.GoalHandler))
			r.Mount("/milestones", milestone.Routes(cfg.MilestoneHandler))
		})
	})
	return r
}
