package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mycarts/internal/domain"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type cartService interface {
	Create(ctx context.Context, subject domain.User, attrs map[string]interface{}) (*domain.Cart, error)
	ListMine(ctx context.Context, subject domain.User) ([]domain.Cart, error)
	GetMine(ctx context.Context, subject domain.User, id string) (*domain.Cart, error)
	UpdateMine(ctx context.Context, subject domain.User, id string, patch map[string]interface{}) (*domain.Cart, error)
	CloseMine(ctx context.Context, subject domain.User, id string) (*domain.Cart, error)
}

type userService interface {
	Create(ctx context.Context, in usersvc.CreateInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	IssueToken(ctx context.Context, username string) (string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	ReapGuests(ctx context.Context, age time.Duration) (int64, error)
	TokenTTLSeconds() int
}

type activityLister interface {
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ActivityLog, error)
}

// Deps holds the services routes dispatch to. Activity is optional.
type Deps struct {
	CartSvc  cartService
	UserSvc  userService
	Activity activityLister
}

// Options tunes the router's cross-cutting behaviour. Admin routes are mounted only when
// AdminKey is set; RateLimitRPS <= 0 disables rate limiting.
type Options struct {
	AdminKey       string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	GuestMaxAge    time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *slog.Logger, db Pinger, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.UserSvc == nil {
		return nil, errors.New("cart and user services are required")
	}

	m := newMetrics()
	h := &handlers{deps: deps, opts: opts, logger: logger, metrics: m}

	router := gin.New()
	router.Use(gin.Recovery(), m.middleware(), requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", adminKeyHeader},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	if opts.RateLimitRPS > 0 {
		router.Use(rateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", m.handler())

	my := router.Group("/my", authMiddleware(deps.UserSvc))
	my.POST("/carts", h.createCart)
	my.GET("/carts", h.listCarts)
	my.GET("/carts/:id", h.getCart)
	my.PUT("/carts/:id", h.updateCart)
	my.DELETE("/carts/:id", h.closeCart)
	if deps.Activity != nil {
		my.GET("/activity", h.listActivity)
	}

	if opts.AdminKey != "" {
		admin := router.Group("/admin", adminMiddleware(opts.AdminKey))
		admin.POST("/users", h.createUser)
		admin.DELETE("/users/:username", h.deleteUser)
		admin.POST("/users/:username/tokens", h.issueToken)
		admin.POST("/guests/reap", h.reapGuests)
	}

	return router, nil
}
