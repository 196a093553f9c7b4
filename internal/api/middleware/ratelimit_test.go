package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/auth"
	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/models"
)

const testJWTSecret = "test-secret-for-ratelimit"

func setupTestEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.GET("/ping",
		middleware.OptionalAuthMiddleware(testJWTSecret),
		rateLimiter.Limit(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	return r
}

func TestRateLimiter_SoftLimitThrottlesAnonymous(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 3,
		RateLimitSoftRefillRate: 1,
		RateLimitHardBucketSize: 100,
		RateLimitHardRefillRate: 100,
	}
	r := setupTestEngine(cfg)

	var lastCode int
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		lastCode = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)

	// A different client has its own bucket.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_AuthenticatedSkipsSoftLimit(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 1,
		RateLimitSoftRefillRate: 1,
		RateLimitHardBucketSize: 100,
		RateLimitHardRefillRate: 100,
	}
	r := setupTestEngine(cfg)

	token, err := auth.GenerateJWT("user-1", models.RoleBuyer, testJWTSecret, time.Hour)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_HardLimitAppliesToEveryone(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 100,
		RateLimitSoftRefillRate: 100,
		RateLimitHardBucketSize: 2,
		RateLimitHardRefillRate: 1,
	}
	r := setupTestEngine(cfg)

	token, err := auth.GenerateJWT("user-2", models.RoleSeller, testJWTSecret, time.Hour)
	require.NoError(t, err)

	var lastCode int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.4:1234"
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		lastCode = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
