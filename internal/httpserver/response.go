package httpserver

import (
	"errors"
	"net/http"

	"mycarts/internal/domain"
	"mycarts/internal/intent"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{StatusCode: status, Message: message})
}

// writeError maps service errors to responses. Not-owned and missing resources are both 404.
func (h *handlers) writeError(c *gin.Context, err error) {
	var rej *intent.RejectionError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &rej):
		status := rej.StatusCode()
		h.metrics.rejected(c, status)
		msg := rej.Reason
		if msg == "" {
			msg = "rejected"
		}
		abortWithError(c, status, msg)
	case errors.Is(err, domain.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		abortWithError(c, http.StatusConflict, "already exists")
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, usersvc.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, "invalid token")
	default:
		h.logger.Error("request failed", "route", routeLabel(c), "err", err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}

// toCartResponse flattens attributes and metadata into one object; metadata wins on conflicts.
func toCartResponse(c domain.Cart) gin.H {
	out := make(gin.H, len(c.Attributes)+6)
	for k, v := range c.Attributes {
		out[k] = v
	}
	out["uuid"] = c.ID
	out["type"] = domain.CartType
	out["state"] = c.State
	out["created"] = c.CreatedAt
	out["modified"] = c.UpdatedAt
	if c.OwnerID != nil {
		out["owner"] = *c.OwnerID
	} else {
		out["owner"] = nil
	}
	return out
}
