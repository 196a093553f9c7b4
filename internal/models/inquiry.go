package models

import (
	"time"
)

// ContactMethod is the buyer's preferred way of being contacted by the seller.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactPhone    ContactMethod = "phone"
	ContactWhatsApp ContactMethod = "whatsapp"
)

// Valid reports whether m is one of the supported contact methods.
func (m ContactMethod) Valid() bool {
	switch m {
	case ContactEmail, ContactPhone, ContactWhatsApp:
		return true
	}
	return false
}

// InquiryStatus tracks what happened to an inquiry after submission.
type InquiryStatus string

const (
	InquiryNew        InquiryStatus = "new"
	InquiryResponded  InquiryStatus = "responded"
	InquiryProceedsTx InquiryStatus = "proceeded_to_transaction"
)

// Inquiry represents a buyer's message expressing interest in a property,
// addressed to the seller. Inquiries are never deleted in normal operation.
type Inquiry struct {
	ID               string        `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyID       string        `bson:"property_id" json:"property_id"`
	BuyerID          string        `bson:"buyer_id" json:"buyer_id"`
	SellerID         string        `bson:"seller_id" json:"seller_id"` // Denormalized from Property
	Message          string        `bson:"message" json:"message"`
	PhoneNumber      string        `bson:"phone_number" json:"phone_number"`
	PreferredContact ContactMethod `bson:"preferred_contact" json:"preferred_contact"`
	Status           InquiryStatus `bson:"status" json:"status"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
}
