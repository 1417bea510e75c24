package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mycarts/internal/logger"

	"github.com/gin-gonic/gin"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestBuildRouterRequiresServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logger.Discard(), nil, Deps{}, Options{}); err == nil {
		t.Fatalf("expected error when services are missing")
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, Options{})
	rec := api.do(t, http.MethodGet, "/healthz", "", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeObject(t, rec)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %v", got)
	}
}

func TestReadyzMemoryStorage(t *testing.T) {
	api := newTestAPI(t, Options{})
	rec := api.do(t, http.MethodGet, "/readyz", "", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeObject(t, rec)["storage"]; got != "memory" {
		t.Fatalf("expected memory storage, got %v", got)
	}
}

func TestReadyzPinger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "reachable", want: http.StatusOK},
		{name: "unreachable", err: errors.New("dial tcp: refused"), want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/readyz", readyHandler(stubPinger{err: tc.err}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			expectStatus(t, rec, tc.want)
		})
	}
}

func TestMetricsExposeRequestsAndRejections(t *testing.T) {
	api := newTestAPI(t, Options{})
	alice := api.login(t, "alice")
	api.registry.Before("create", "cart", rejectWith(http.StatusTeapot, "no"))

	expectStatus(t, api.do(t, http.MethodPost, "/my/carts", alice, `{"a":1}`), http.StatusTeapot)

	rec := api.do(t, http.MethodGet, "/metrics", "", "")
	expectStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, want := range []string{
		`mycarts_http_requests_total{method="POST",route="/my/carts",status="418"} 1`,
		`mycarts_intent_rejections_total{code="418",route="/my/carts"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})

	expectStatus(t, api.do(t, http.MethodGet, "/healthz", "", ""), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodGet, "/healthz", "", ""), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodGet, "/healthz", "", ""), http.StatusTooManyRequests)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, Options{AllowedOrigins: []string{"https://shop.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/my/carts", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allow-origin header, got %q", got)
	}
}
