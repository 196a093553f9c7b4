package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/services"
)

// ModerationHandler handles the moderation endpoints. Routes are guarded by
// the moderator middleware; the service re-checks authorization anyway.
type ModerationHandler struct {
	moderationService services.IModerationService
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(moderationService services.IModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

type moderationRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

func bindModerationRequest(c *gin.Context) moderationRequest {
	var req moderationRequest
	// Reason and notes are optional for approve/unflag; an empty body is fine.
	_ = c.ShouldBindJSON(&req)
	return req
}

// Approve handles POST /v1/moderation/properties/:id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	req := bindModerationRequest(c)
	property, err := h.moderationService.ApproveProperty(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, property)
}

// Reject handles POST /v1/moderation/properties/:id/reject
func (h *ModerationHandler) Reject(c *gin.Context) {
	req := bindModerationRequest(c)
	property, err := h.moderationService.RejectProperty(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Reason, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, property)
}

// Flag handles POST /v1/moderation/properties/:id/flag
func (h *ModerationHandler) Flag(c *gin.Context) {
	req := bindModerationRequest(c)
	property, err := h.moderationService.FlagProperty(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Reason, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, property)
}

// Unflag handles POST /v1/moderation/properties/:id/unflag
func (h *ModerationHandler) Unflag(c *gin.Context) {
	req := bindModerationRequest(c)
	property, err := h.moderationService.UnflagProperty(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, property)
}

// Queue handles GET /v1/moderation/queue
func (h *ModerationHandler) Queue(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}
	properties, err := h.moderationService.PendingQueue(c.Request.Context(), middleware.GetPrincipal(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, properties)
}

// Reviews handles GET /v1/moderation/properties/:id/reviews
func (h *ModerationHandler) Reviews(c *gin.Context) {
	reviews, err := h.moderationService.ListReviews(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, reviews)
}
