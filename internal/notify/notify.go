// Package notify delivers best-effort notifications for marketplace events.
// Dispatch is fire-and-forget: no implementation ever returns an error to the
// caller, and the business operation that triggered the notification must
// never observe a delivery failure.
package notify

import (
	"context"
	"log"
	"time"

	"fairhold/marketplace/internal/models"
)

// Kind identifies the notification being sent.
type Kind string

const (
	KindInquiryReceived  Kind = "inquiry_received"
	KindPropertyApproved Kind = "property_approved"
	KindPropertyRejected Kind = "property_rejected"
)

// InquiryReceived is the payload for a new-inquiry notification to a seller.
type InquiryReceived struct {
	InquiryID      string
	ConversationID string
	PropertyID     string
	PropertyTitle  string
	PropertyLink   string
	Message        string
	BuyerName      string
	SellerName     string
	SellerEmail    string
}

// PropertyModerated is the payload for approval/rejection notifications to a
// seller. Reason carries the already-resolved human-readable text.
type PropertyModerated struct {
	PropertyID    string
	PropertyTitle string
	Status        models.ModerationStatus
	Reason        string
	SellerName    string
	SellerEmail   string
}

// Dispatcher sends a notification of the given kind. Implementations swallow
// and log their own failures.
type Dispatcher interface {
	Send(ctx context.Context, kind Kind, payload interface{})
}

// Multi fans a notification out to several dispatchers.
type Multi []Dispatcher

func (m Multi) Send(ctx context.Context, kind Kind, payload interface{}) {
	for _, d := range m {
		d.Send(ctx, kind, payload)
	}
}

// Nop discards all notifications. Used when no delivery channel is configured.
type Nop struct{}

func (Nop) Send(ctx context.Context, kind Kind, payload interface{}) {}

// Async wraps a dispatcher so each Send runs detached from the caller: in its
// own goroutine, on a context independent of the request, with panics
// recovered. The caller holds no handle to completion.
type Async struct {
	Inner   Dispatcher
	Timeout time.Duration
}

func NewAsync(inner Dispatcher, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{Inner: inner, Timeout: timeout}
}

func (a *Async) Send(ctx context.Context, kind Kind, payload interface{}) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notify: recovered panic dispatching %s: %v", kind, r)
			}
		}()
		detached, cancel := context.WithTimeout(context.Background(), a.Timeout)
		defer cancel()
		a.Inner.Send(detached, kind, payload)
	}()
}
