package goal

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Post("/", h.Post)

	return r
}

// MilestonesPath is the milestone list of one goal.
func MilestonesPath(goalID uint) string {
	return fmt.Sprintf("/milestones?action=list&goalId=%d", goalID)
}
