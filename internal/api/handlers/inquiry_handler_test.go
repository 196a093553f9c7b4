package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fairhold/marketplace/internal/api/handlers"
	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/auth"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/services"
	"fairhold/marketplace/internal/validate"
)

const testSecret = "handler-test-secret"

func setupInquiryRouter(svc services.IInquiryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := handlers.NewInquiryHandler(svc)
	r.POST("/v1/inquiries", middleware.OptionalAuthMiddleware(testSecret), handler.SubmitInquiry)
	return r
}

func postInquiry(r *gin.Engine, token string, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/inquiries", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func bearerToken(t *testing.T, userID string, role models.Role) string {
	token, err := auth.GenerateJWT(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func validInquiryBody() map[string]interface{} {
	return map[string]interface{}{
		"property_id":       "5f0c4b7e-1111-4222-8333-444455556666",
		"message":           "Is this still available?",
		"phone_number":      "+27 82 555 1234",
		"preferred_contact": "email",
	}
}

func TestSubmitInquiry_Handler_Success(t *testing.T) {
	mockSvc := new(MockInquiryService)
	r := setupInquiryRouter(mockSvc)

	result := &services.SubmitInquiryResult{
		Inquiry: &models.Inquiry{ID: "inq-1", PropertyID: "prop-1", BuyerID: "buyer-1", Status: models.InquiryNew},
	}
	mockSvc.On("SubmitInquiry", mock.Anything, mock.MatchedBy(func(p *services.Principal) bool {
		return p != nil && p.UserID == "buyer-1"
	}), mock.Anything).Return(result, nil)

	w := postInquiry(r, bearerToken(t, "buyer-1", models.RoleBuyer), validInquiryBody())

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	mockSvc.AssertExpectations(t)
}

func TestSubmitInquiry_Handler_Anonymous(t *testing.T) {
	mockSvc := new(MockInquiryService)
	r := setupInquiryRouter(mockSvc)

	mockSvc.On("SubmitInquiry", mock.Anything, (*services.Principal)(nil), mock.Anything).
		Return(nil, services.ErrAuthenticationRequired)

	w := postInquiry(r, "", validInquiryBody())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Regexp(t, regexp.MustCompile(`(?i)authentication required`), envelope["error"])
}

func TestSubmitInquiry_Handler_ErrorContract(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantRegex  string
	}{
		{"property missing", services.ErrPropertyNotFound, http.StatusNotFound, `(?i)property not found`},
		{"own listing", services.ErrSelfInquiry, http.StatusBadRequest, `(?i)cannot inquire.*own property`},
		{"cooldown", services.ErrDuplicateInquiry, http.StatusConflict, `(?i)already submitted.*recently`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := new(MockInquiryService)
			r := setupInquiryRouter(mockSvc)
			mockSvc.On("SubmitInquiry", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.serviceErr)

			w := postInquiry(r, bearerToken(t, "buyer-1", models.RoleBuyer), validInquiryBody())

			assert.Equal(t, tc.wantStatus, w.Code)
			envelope := decodeEnvelope(t, w)
			assert.Equal(t, false, envelope["success"])
			assert.Regexp(t, regexp.MustCompile(tc.wantRegex), envelope["error"])
		})
	}
}

func TestSubmitInquiry_Handler_ValidationFields(t *testing.T) {
	mockSvc := new(MockInquiryService)
	r := setupInquiryRouter(mockSvc)

	vErr := &services.ValidationError{Fields: []validate.FieldError{{Field: "message", Message: "message must not be blank"}}}
	mockSvc.On("SubmitInquiry", mock.Anything, mock.Anything, mock.Anything).Return(nil, vErr)

	w := postInquiry(r, bearerToken(t, "buyer-1", models.RoleBuyer), validInquiryBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "message must not be blank", envelope["error"])
	assert.NotNil(t, envelope["fields"])
}

func TestSubmitInquiry_Handler_MalformedBody(t *testing.T) {
	mockSvc := new(MockInquiryService)
	r := setupInquiryRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/inquiries", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "buyer-1", models.RoleBuyer))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SubmitInquiry", mock.Anything, mock.Anything, mock.Anything)
}
