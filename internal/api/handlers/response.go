package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairhold/marketplace/internal/services"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError writes the standard error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps a service-layer error onto an HTTP status and
// writes it. Sentinel error text is surfaced verbatim; persistence errors
// are logged with their cause and reported generically.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   vErr.Error(),
			"fields":  vErr.Fields,
		})
		return
	}

	var pErr *services.PersistenceError
	if errors.As(err, &pErr) {
		log.Printf("persistence error on %s %s: %v", c.Request.Method, c.FullPath(), pErr.Unwrap())
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInquiryNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateInquiry):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrSelfInquiry),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrMessageTooLong):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
