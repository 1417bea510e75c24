package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mycarts/internal/domain"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type handlers struct {
	deps    Deps
	opts    Options
	logger  *slog.Logger
	metrics *metrics
}

func (h *handlers) createCart(c *gin.Context) {
	attrs, ok := bindObject(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Create(c.Request.Context(), subjectFrom(c), attrs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handlers) listCarts(c *gin.Context) {
	carts, err := h.deps.CartSvc.ListMine(c.Request.Context(), subjectFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(carts))
	for _, cart := range carts {
		out = append(out, toCartResponse(cart))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.GetMine(c.Request.Context(), subjectFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handlers) updateCart(c *gin.Context) {
	patch, ok := bindObject(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.UpdateMine(c.Request.Context(), subjectFrom(c), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handlers) closeCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.CloseMine(c.Request.Context(), subjectFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handlers) listActivity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}
	entries, err := h.deps.Activity.ListBySubject(c.Request.Context(), subjectFrom(c).ID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type createUserResponse struct {
	User domain.User `json:"user"`
	tokenResponse
}

func (h *handlers) createUser(c *gin.Context) {
	var req usersvc.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid body")
		return
	}
	ctx := c.Request.Context()
	u, err := h.deps.UserSvc.Create(ctx, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	token, err := h.deps.UserSvc.IssueToken(ctx, u.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createUserResponse{
		User:          *u,
		tokenResponse: tokenResponse{Token: token, ExpiresIn: h.deps.UserSvc.TokenTTLSeconds()},
	})
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.deps.UserSvc.Delete(c.Request.Context(), c.Param("username")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) issueToken(c *gin.Context) {
	token, err := h.deps.UserSvc.IssueToken(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresIn: h.deps.UserSvc.TokenTTLSeconds()})
}

func (h *handlers) reapGuests(c *gin.Context) {
	age := h.opts.GuestMaxAge
	if raw := c.Query("age"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "age must be a duration such as 24h")
			return
		}
		age = parsed
	}
	removed, err := h.deps.UserSvc.ReapGuests(c.Request.Context(), age)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "age": age.String()})
}

// bindObject decodes a JSON object body. Arrays, scalars and null are rejected with 400.
func bindObject(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		abortWithError(c, http.StatusBadRequest, "body must be a JSON object")
		return nil, false
	}
	return body, true
}
