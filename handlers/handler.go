package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"food-ordering-api/apperr"
	"food-ordering-api/chat"
	"food-ordering-api/services"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Handler serves every HTTP route on top of the service layer.
type Handler struct {
	svc *services.Services
	hub *chat.Hub
	log *slog.Logger
}

func New(svc *services.Services, hub *chat.Hub, log *slog.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, log: log}
}

// respondError is the one place a service error becomes an HTTP response.
func (h *Handler) respondError(c *gin.Context, err error) {
	var te *statemachine.TransitionError
	if errors.As(err, &te) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"code":              apperr.KindInvalidTransition.String(),
			"current_status":    te.From,
			"requested":         te.To,
			"reason":            te.Error(),
			"valid_next_states": te.Valid,
		})
		return
	}

	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	msg := "Internal server error"
	var ae *apperr.Error
	if kind != apperr.KindInternal && errors.As(err, &ae) {
		msg = ae.Message()
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "code", kind.String(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg, "code": kind.String()})
}

// bindJSON decodes the body into req, answering 400 when it does not bind.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.respondError(c, apperr.Validation("%s", err.Error()))
		return false
	}
	return true
}

// idParam parses a positive numeric path parameter.
func (h *Handler) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.respondError(c, apperr.Validation("%s must be a positive integer", name))
		return 0, false
	}
	return uint(id), true
}
