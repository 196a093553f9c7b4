package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/services"
)

// InquiryHandler handles buyer inquiry endpoints.
type InquiryHandler struct {
	inquiryService services.IInquiryService
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(inquiryService services.IInquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

type submitInquiryRequest struct {
	PropertyID       string `json:"property_id"`
	Message          string `json:"message"`
	PhoneNumber      string `json:"phone_number"`
	PreferredContact string `json:"preferred_contact"`
}

// SubmitInquiry handles POST /v1/inquiries. The route uses optional auth:
// anonymous callers reach the service and get its authentication error so
// the response wording matches every other authentication failure.
func (h *InquiryHandler) SubmitInquiry(c *gin.Context) {
	var req submitInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid inquiry payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	result, err := h.inquiryService.SubmitInquiry(c.Request.Context(), principal, services.InquiryInput{
		PropertyID:       req.PropertyID,
		Message:          req.Message,
		PhoneNumber:      req.PhoneNumber,
		PreferredContact: req.PreferredContact,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// ListMine handles GET /v1/inquiries/mine (inquiries the caller submitted).
func (h *InquiryHandler) ListMine(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	inquiries, err := h.inquiryService.ListForBuyer(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, inquiries)
}

// ListReceived handles GET /v1/inquiries/received (inquiries about the
// caller's listings).
func (h *InquiryHandler) ListReceived(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	inquiries, err := h.inquiryService.ListForSeller(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, inquiries)
}

// MarkResponded handles POST /v1/inquiries/:id/responded
func (h *InquiryHandler) MarkResponded(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if err := h.inquiryService.MarkResponded(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"status": "responded"})
}

// MarkProceeded handles POST /v1/inquiries/:id/proceeded
func (h *InquiryHandler) MarkProceeded(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if err := h.inquiryService.MarkProceededToTransaction(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"status": "proceeded_to_transaction"})
}
