package milestone

import (
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/view"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(gw *storage.Gateway, goals goal.Service, renderer view.Renderer) *Container {
	repo := NewRepository(gw)
	service := NewService(repo, goals)
	handler := NewHandler(service, renderer)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
