package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/notify"
	"fairhold/marketplace/internal/services"
	"fairhold/marketplace/internal/storage"
	"fairhold/marketplace/internal/tasks"
)

// PropertyHandler handles property listing endpoints.
type PropertyHandler struct {
	propertyService services.IPropertyService
	photoStorage    storage.IPhotoStorage
	taskClient      notify.IAsynqClient
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.IPropertyService, photoStorage storage.IPhotoStorage, taskClient notify.IAsynqClient) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		photoStorage:    photoStorage,
		taskClient:      taskClient,
	}
}

type createPropertyRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Suburb      string              `json:"suburb"`
	City        string              `json:"city" binding:"required"`
	Province    string              `json:"province" binding:"required"`
	Bedrooms    int                 `json:"bedrooms"`
	Bathrooms   int                 `json:"bathrooms"`
	ErfSizeSqm  int                 `json:"erf_size_sqm"`
	AskingPrice *models.AskingPrice `json:"asking_price"`
}

// Create handles POST /v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid property payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	property, err := h.propertyService.CreateProperty(c.Request.Context(), principal.UserID, services.PropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Suburb:      req.Suburb,
		City:        req.City,
		Province:    req.Province,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		ErfSizeSqm:  req.ErfSizeSqm,
		AskingPrice: req.AskingPrice,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, property)
}

// Get handles GET /v1/properties/:id. Sellers see their own listings in any
// state; everyone else only sees publicly visible ones.
func (h *PropertyHandler) Get(c *gin.Context) {
	propertyID := c.Param("id")
	principal := middleware.GetPrincipal(c)

	property, err := h.propertyService.FindPropertyByID(c.Request.Context(), propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !property.PubliclyVisible() {
		isOwner := principal != nil && principal.UserID == property.SellerID
		isModerator := principal != nil && principal.Role.CanModerate()
		if !isOwner && !isModerator {
			respondServiceError(c, services.ErrPropertyNotFound)
			return
		}
	}

	respondOK(c, http.StatusOK, property)
}

// Search handles GET /v1/properties
func (h *PropertyHandler) Search(c *gin.Context) {
	var filter services.PropertySearchFilter
	if city := c.Query("city"); city != "" {
		filter.City = &city
	}
	if province := c.Query("province"); province != "" {
		filter.Province = &province
	}
	if v := c.Query("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.MinBedrooms = &n
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			filter.MaxPrice = &f
		}
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	properties, err := h.propertyService.SearchPublic(c.Request.Context(), filter, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, properties)
}

// Mine handles GET /v1/properties/mine/all
func (h *PropertyHandler) Mine(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	properties, err := h.propertyService.FindBySellerID(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, properties)
}

type listingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetListingStatus handles PATCH /v1/properties/:id/status
func (h *PropertyHandler) SetListingStatus(c *gin.Context) {
	var req listingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid status payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	err := h.propertyService.SetListingStatus(c.Request.Context(), c.Param("id"), principal.UserID, models.ListingStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"status": req.Status})
}

// Delete handles DELETE /v1/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if err := h.propertyService.DeleteProperty(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}

type presignPhotoRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignPhoto handles POST /v1/properties/:id/photos/presign. Only the
// owning seller can request an upload URL.
func (h *PropertyHandler) PresignPhoto(c *gin.Context) {
	var req presignPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid photo payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	property, err := h.propertyService.FindPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if property.SellerID != principal.UserID {
		respondServiceError(c, services.ErrNotAuthorized)
		return
	}

	url, key, err := h.photoStorage.GeneratePresignedPutURL(c.Request.Context(), principal.UserID, property.ID, req.Filename, req.ContentType)
	if err != nil {
		log.Printf("presign failed for property %s: %v", property.ID, err)
		respondError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"upload_url": url, "key": key})
}

type processPhotoRequest struct {
	Key string `json:"key" binding:"required"`
}

// ProcessPhoto handles POST /v1/properties/:id/photos. Called after the
// client finishes the presigned upload; queues normalization in the photo
// worker.
func (h *PropertyHandler) ProcessPhoto(c *gin.Context) {
	var req processPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid photo payload")
		return
	}

	principal := middleware.GetPrincipal(c)
	property, err := h.propertyService.FindPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if property.SellerID != principal.UserID {
		respondServiceError(c, services.ErrNotAuthorized)
		return
	}

	payload, err := json.Marshal(tasks.PhotoTaskPayload{S3Key: req.Key, PropertyID: property.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to queue photo")
		return
	}
	task := asynq.NewTask(tasks.TypePhotoProcess, payload)
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task, asynq.Queue("photos")); err != nil {
		log.Printf("failed to enqueue photo task for property %s: %v", property.ID, err)
		respondError(c, http.StatusInternalServerError, "Failed to queue photo")
		return
	}

	respondOK(c, http.StatusAccepted, gin.H{"queued": true})
}
