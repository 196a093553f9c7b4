package models

import (
	"time"
)

// ConversationStatus is the lifecycle state of a buyer/seller conversation.
type ConversationStatus string

const (
	ConversationOpen   ConversationStatus = "open"
	ConversationClosed ConversationStatus = "closed"
)

// Conversation hosts the messaging between a buyer and a seller. One is
// created as a side effect of each successful inquiry.
type Conversation struct {
	ID         string             `bson:"_id,omitempty" json:"id,omitempty"`
	InquiryID  string             `bson:"inquiry_id" json:"inquiry_id"`
	PropertyID string             `bson:"property_id" json:"property_id"`
	BuyerID    string             `bson:"buyer_id" json:"buyer_id"`
	SellerID   string             `bson:"seller_id" json:"seller_id"`
	Status     ConversationStatus `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether userID is one of the two conversation parties.
func (c *Conversation) IsParticipant(userID string) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// ConversationMessage is a single message within a conversation.
type ConversationMessage struct {
	ID             string    `bson:"_id,omitempty" json:"id,omitempty"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	Body           string    `bson:"body" json:"body"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
