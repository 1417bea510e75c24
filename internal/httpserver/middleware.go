package httpserver

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mycarts/internal/domain"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	subjectKey     = "subject"
	adminKeyHeader = "X-Admin-Key"
)

// authMiddleware resolves the bearer token to the acting user and stores it on the context.
func authMiddleware(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		u, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidToken) {
				abortWithError(c, http.StatusUnauthorized, "invalid token")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.Set(subjectKey, *u)
		c.Next()
	}
}

func subjectFrom(c *gin.Context) domain.User {
	if v, ok := c.Get(subjectKey); ok {
		if u, ok := v.(domain.User); ok {
			return u
		}
	}
	return domain.User{}
}

func adminMiddleware(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(adminKeyHeader))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			abortWithError(c, http.StatusUnauthorized, "invalid admin key")
			return
		}
		c.Next()
	}
}

func rateLimit(rps float64, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			abortWithError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if u := subjectFrom(c); u.Username != "" {
			attrs = append(attrs, "subject", u.Username)
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request", attrs...)
	}
}
