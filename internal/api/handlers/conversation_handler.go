package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/services"
)

// ConversationHandler handles buyer/seller messaging endpoints.
type ConversationHandler struct {
	conversationService services.IConversationService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversationService services.IConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// List handles GET /v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	conversations, err := h.conversationService.ListForUser(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, conversations)
}

// Messages handles GET /v1/conversations/:id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		limit = 100
	}
	messages, err := h.conversationService.ListMessages(c.Request.Context(), c.Param("id"), principal.UserID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, messages)
}

type postMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostMessage handles POST /v1/conversations/:id/messages
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	message, err := h.conversationService.PostMessage(c.Request.Context(), c.Param("id"), principal.UserID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, message)
}

// Close handles POST /v1/conversations/:id/close
func (h *ConversationHandler) Close(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if err := h.conversationService.CloseConversation(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"closed": true})
}
