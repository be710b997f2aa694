package goal

import (
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(gw *storage.Gateway, categories category.Service, today validation.Clock, renderer view.Renderer) *Container {
	repo := NewRepository(gw)
	service := NewService(repo, categories, today)
	handler := NewHandler(service, renderer)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
