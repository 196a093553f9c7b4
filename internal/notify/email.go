package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// TypeEmailDelivery is the asynq task type for templated email delivery.
// The task handler lives in internal/tasks; the payload is defined here so
// both the enqueuing and processing sides share one shape.
const TypeEmailDelivery = "email:deliver"

// EmailTaskPayload is the queued request to send one templated email.
type EmailTaskPayload struct {
	To         string                 `json:"to"`
	TemplateID string                 `json:"template_id"`
	Locale     string                 `json:"locale,omitempty"`
	Data       map[string]interface{} `json:"data"`
}

// IAsynqClient is the slice of the asynq client used for enqueuing.
// An interface keeps dispatchers and handlers mockable in tests.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EmailDispatcher enqueues an email delivery task for each notification.
// Enqueue failures are logged and dropped; the mail queue being down must
// never fail the business operation.
type EmailDispatcher struct {
	taskClient IAsynqClient
	locale     string
}

func NewEmailDispatcher(taskClient IAsynqClient, locale string) *EmailDispatcher {
	return &EmailDispatcher{taskClient: taskClient, locale: locale}
}

func (d *EmailDispatcher) Send(ctx context.Context, kind Kind, payload interface{}) {
	to, templateID, data, ok := emailTask(kind, payload)
	if !ok {
		log.Printf("notify: unsupported payload %T for kind %s", payload, kind)
		return
	}
	if to == "" {
		log.Printf("notify: no recipient address for %s, dropping", kind)
		return
	}

	payloadBytes, err := json.Marshal(EmailTaskPayload{
		To:         to,
		TemplateID: templateID,
		Locale:     d.locale,
		Data:       data,
	})
	if err != nil {
		log.Printf("notify: failed to marshal %s email payload: %v", kind, err)
		return
	}

	task := asynq.NewTask(TypeEmailDelivery, payloadBytes)
	if _, err := d.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("notify: failed to enqueue %s email task: %v", kind, err)
	}
}

func emailTask(kind Kind, payload interface{}) (to, templateID string, data map[string]interface{}, ok bool) {
	switch kind {
	case KindInquiryReceived:
		p, isType := payload.(InquiryReceived)
		if !isType {
			return "", "", nil, false
		}
		return p.SellerEmail, "inquiry_received", map[string]interface{}{
			"inquiry_id":      p.InquiryID,
			"conversation_id": p.ConversationID,
			"property_id":     p.PropertyID,
			"property_title":  p.PropertyTitle,
			"property_link":   p.PropertyLink,
			"message":         p.Message,
			"buyer_name":      p.BuyerName,
			"seller_name":     p.SellerName,
		}, true
	case KindPropertyApproved, KindPropertyRejected:
		p, isType := payload.(PropertyModerated)
		if !isType {
			return "", "", nil, false
		}
		templateID := "property_approved"
		if kind == KindPropertyRejected {
			templateID = "property_rejected"
		}
		return p.SellerEmail, templateID, map[string]interface{}{
			"property_id":    p.PropertyID,
			"property_title": p.PropertyTitle,
			"status":         string(p.Status),
			"reason":         p.Reason,
			"seller_name":    p.SellerName,
		}, true
	}
	return "", "", nil, false
}
