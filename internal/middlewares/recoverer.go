package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

// Recoverer turns a panic into the generic error page.
func Recoverer(renderer view.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				config.WithContext(r.Context()).
					WithField("stack", string(debug.Stack())).
					Error("Recovered from panic")
				web.ServerError(w, r, renderer, fmt.Errorf("panic: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
