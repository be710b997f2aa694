package user

import "github.com/saulo-duarte/strive/internal/storage"

type UserContainer struct {
	Repo    Repository
	Service Service
}

// NewUserContainer wires the user stack. A zero hashCost selects the bcrypt
// default.
func NewUserContainer(gw *storage.Gateway, hashCost int) *UserContainer {
	repo := NewRepository(gw)

	var service Service
	if hashCost == 0 {
		service = NewService(repo)
	} else {
		service = NewServiceWithCost(repo, hashCost)
	}

	return &UserContainer{
		Repo:    repo,
		Service: service,
	}
}
