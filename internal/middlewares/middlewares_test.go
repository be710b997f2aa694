package middlewares_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/strive/internal/middlewares"
	"github.com/saulo-duarte/strive/internal/view"
)

func TestRecoverer(t *testing.T) {
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	h := middlewares.Recoverer(renderer)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("database exploded")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "database exploded") {
		t.Error("panic value leaked into the page")
	}
	if !strings.Contains(body, "An unexpected error occurred") {
		t.Error("generic error page not rendered")
	}
}

func TestMetrics(t *testing.T) {
	m := middlewares.NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/goals", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, path := range []string{"/goals", "/goals", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out, _ := io.ReadAll(rec.Body)
	text := string(out)

	for _, want := range []string{
		`strive_http_requests_total{method="GET",route="/goals",status="200"} 2`,
		`strive_http_requests_total{method="GET",route="/missing",status="404"} 1`,
		"strive_http_request_duration_seconds",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	h := middlewares.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
