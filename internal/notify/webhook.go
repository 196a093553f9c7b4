package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"fairhold/marketplace/internal/config"
)

// inquiryWebhookBody is the JSON body for inquiry-received emails.
type inquiryWebhookBody struct {
	InquiryID      string `json:"inquiryId"`
	ConversationID string `json:"conversationId"`
}

// verificationWebhookBody is the JSON body for property-verification emails.
type verificationWebhookBody struct {
	To            string `json:"to"`
	PropertyTitle string `json:"propertyTitle"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
}

// WebhookDispatcher POSTs notification payloads to the configured
// templated-email endpoint. Failures are logged, never propagated.
type WebhookDispatcher struct {
	url        string
	httpClient *http.Client
}

// NewWebhookDispatcher creates a dispatcher for the configured endpoint.
// With no endpoint configured it logs and drops every notification.
func NewWebhookDispatcher(cfg *config.Config) *WebhookDispatcher {
	timeout := cfg.NotifyWebhookTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookDispatcher{
		url:        cfg.NotifyWebhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts the JSON body for the given kind. A non-2xx response counts as
// a failure but, like every other failure here, is only logged.
func (d *WebhookDispatcher) Send(ctx context.Context, kind Kind, payload interface{}) {
	if d.url == "" {
		log.Printf("notify: webhook endpoint not configured, dropping %s", kind)
		return
	}

	body, ok := webhookBody(kind, payload)
	if !ok {
		log.Printf("notify: unsupported payload %T for kind %s", payload, kind)
		return
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		log.Printf("notify: failed to marshal %s payload: %v", kind, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(jsonData))
	if err != nil {
		log.Printf("notify: failed to create %s request: %v", kind, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		log.Printf("notify: %s webhook call failed: %v", kind, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("notify: %s webhook returned status %d", kind, resp.StatusCode)
		return
	}
}

func webhookBody(kind Kind, payload interface{}) (interface{}, bool) {
	switch kind {
	case KindInquiryReceived:
		p, ok := payload.(InquiryReceived)
		if !ok {
			return nil, false
		}
		return inquiryWebhookBody{InquiryID: p.InquiryID, ConversationID: p.ConversationID}, true
	case KindPropertyApproved, KindPropertyRejected:
		p, ok := payload.(PropertyModerated)
		if !ok {
			return nil, false
		}
		return verificationWebhookBody{
			To:            p.SellerEmail,
			PropertyTitle: p.PropertyTitle,
			Status:        string(p.Status),
			Reason:        p.Reason,
		}, true
	}
	return nil, false
}
