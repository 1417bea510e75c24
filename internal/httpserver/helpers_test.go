package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mycarts/internal/intent"
	"mycarts/internal/logger"
	activityrepo "mycarts/internal/repository/activity"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
	cartsvc "mycarts/internal/service/cart"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-gonic/gin"
)

const testAdminKey = "admin-secret"

type testAPI struct {
	router   *gin.Engine
	registry *intent.Registry
	users    *usersvc.Service
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := intent.NewRegistry()
	activity := activityrepo.NewMemory()
	users := usersvc.New(userrepo.NewMemory(), []byte("test-secret"), time.Hour)
	carts := cartsvc.New(cartrepo.NewMemory(), registry, activity, logger.Discard())

	router, err := buildRouter(logger.Discard(), nil, Deps{
		CartSvc:  carts,
		UserSvc:  users,
		Activity: activity,
	}, opts)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testAPI{router: router, registry: registry, users: users}
}

// login creates a user and returns a bearer token for it.
func (a *testAPI) login(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := a.users.Create(ctx, usersvc.CreateInput{Username: username}); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	token, err := a.users.IssueToken(ctx, username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func rejectWith(code int, reason string) intent.Handler {
	return func(context.Context, intent.Intent) intent.Verdict {
		return intent.Reject(code, reason)
	}
}
