package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/notify"
	"fairhold/marketplace/internal/tasks"
)

// --- Mocks ---

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

// MockEmailTemplateService
type MockEmailTemplateService struct {
	mock.Mock
}

func (m *MockEmailTemplateService) GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	args := m.Called(ctx, templateID, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateService) SaveTemplate(ctx context.Context, template *models.EmailTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// --- Tests ---

func TestHandleEmailDeliveryTask_Success(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	mockTmplService := new(MockEmailTemplateService)
	cfg := &config.Config{DefaultLocale: "en-US", SmtpFromAddress: "noreply@fairhold.example.com"}

	p := tasks.NewTaskProcessor(cfg, mockEmailSender, nil, mockTmplService, nil)

	payloadData := map[string]interface{}{
		"seller_name":    "Thandi",
		"buyer_name":     "Sipho",
		"property_title": "3 Bed House in Rondebosch",
		"message":        "Is it still available?",
		"property_link":  "http://example.com/properties/p1",
	}
	payloadBytes, _ := json.Marshal(notify.EmailTaskPayload{
		To:         "seller@example.com",
		TemplateID: "inquiry_received",
		Locale:     "en-US",
		Data:       payloadData,
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	expectedTemplate := &models.EmailTemplate{
		Subject: "New inquiry about {{.property_title}}",
		Body:    "Hi {{.seller_name}}, {{.buyer_name}} says: {{.message}} ({{.property_link}})",
	}
	mockTmplService.On("GetTemplate", mock.Anything, "inquiry_received", "en-US").Return(expectedTemplate, nil)

	expectedSubject := "New inquiry about 3 Bed House in Rondebosch"
	mockEmailSender.On("Send",
		mock.Anything,
		[]string{"seller@example.com"},
		expectedSubject,
		mock.MatchedBy(func(raw []byte) bool {
			body := string(raw)
			return strings.Contains(body, "Hi Thandi, Sipho says: Is it still available?") &&
				strings.Contains(body, "To: seller@example.com") &&
				strings.Contains(body, "From: noreply@fairhold.example.com")
		}),
	).Return(nil)

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.NoError(t, err)
	mockTmplService.AssertExpectations(t)
	mockEmailSender.AssertExpectations(t)
}

func TestHandleEmailDeliveryTask_TemplateMissingSkipsRetry(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	mockTmplService := new(MockEmailTemplateService)
	cfg := &config.Config{DefaultLocale: "en-US"}

	p := tasks.NewTaskProcessor(cfg, mockEmailSender, nil, mockTmplService, nil)

	payloadBytes, _ := json.Marshal(notify.EmailTaskPayload{
		To:         "seller@example.com",
		TemplateID: "no_such_template",
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	mockTmplService.On("GetTemplate", mock.Anything, "no_such_template", "en-US").
		Return(nil, errors.New("template not found"))

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "missing template should not be retried")
	mockEmailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEmailDeliveryTask_SenderFailureRetries(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	mockTmplService := new(MockEmailTemplateService)
	cfg := &config.Config{DefaultLocale: "en-US"}

	p := tasks.NewTaskProcessor(cfg, mockEmailSender, nil, mockTmplService, nil)

	payloadBytes, _ := json.Marshal(notify.EmailTaskPayload{
		To:         "seller@example.com",
		TemplateID: "property_approved",
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	mockTmplService.On("GetTemplate", mock.Anything, "property_approved", "en-US").
		Return(&models.EmailTemplate{Subject: "Approved", Body: "Done"}, nil)
	mockEmailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp timeout"))

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient send failures should be retried")
}

func TestHandleEmailDeliveryTask_BadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, new(MockEmailSender), nil, new(MockEmailTemplateService), nil)

	task := asynq.NewTask(tasks.TypeEmailDelivery, []byte("{not json"))
	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandlePhotoProcessTask_BadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, nil, nil, nil, nil)

	task := asynq.NewTask(tasks.TypePhotoProcess, []byte("{not json"))
	err := p.HandlePhotoProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	// Missing property ID is equally terminal.
	payloadBytes, _ := json.Marshal(tasks.PhotoTaskPayload{S3Key: "photos/x.jpg"})
	task = asynq.NewTask(tasks.TypePhotoProcess, payloadBytes)
	err = p.HandlePhotoProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
