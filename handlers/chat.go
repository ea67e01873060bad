package handlers

import (
	"context"
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	Text string `json:"text"`
}

// ListMessages returns an order's conversation, oldest first
func (h *Handler) ListMessages(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.svc.Chat.List(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(msgs), "messages": msgs})
}

func (h *Handler) SendMessage(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.svc.Chat.Send(c.Request.Context(), middleware.GetUserID(c), orderID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ChatSocket upgrades to a WebSocket that receives the full conversation on
// connect and after every new message. Frames sent by the client are
// stored as messages from the caller.
func (h *Handler) ChatSocket(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	if _, err := h.svc.Chat.Authorize(c.Request.Context(), userID, orderID); err != nil {
		h.respondError(c, err)
		return
	}
	load := func(ctx context.Context) ([]models.ChatMessage, error) {
		return h.svc.Chat.List(ctx, userID, orderID)
	}
	h.hub.Serve(c, orderID, userID, load, func(ctx context.Context, orderID, userID uint, text string) error {
		_, err := h.svc.Chat.Send(ctx, userID, orderID, text)
		return err
	})
}
