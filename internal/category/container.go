package category

import (
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/view"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(gw *storage.Gateway, renderer view.Renderer) *Container {
	repo := NewRepository(gw)
	service := NewService(repo)
	handler := NewHandler(service, renderer)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
