package models

import (
	"time"
)

// ModerationStatus is the review state of a property listing. It controls
// public visibility: only approved properties are ever listed or searchable.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
	ModerationFlagged  ModerationStatus = "flagged"
)

// ListingStatus is the seller-controlled lifecycle state, independent of
// moderation.
type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
	ListingSold     ListingStatus = "sold"
)

// AskingPrice defines the structure for monetary values.
type AskingPrice struct {
	Value        float64 `bson:"value" json:"value"`
	CurrencyCode string  `bson:"currency_code" json:"currency_code"`
}

// Property represents a listing on the marketplace.
type Property struct {
	ID               string           `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID         string           `bson:"seller_id" json:"seller_id"`
	Title            string           `bson:"title" json:"title"`
	Description      string           `bson:"description" json:"description"`
	Suburb           string           `bson:"suburb,omitempty" json:"suburb,omitempty"`
	City             string           `bson:"city" json:"city"`
	Province         string           `bson:"province,omitempty" json:"province,omitempty"`
	Bedrooms         int              `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms        int              `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	ErfSizeSqm       int              `bson:"erf_size_sqm,omitempty" json:"erf_size_sqm,omitempty"`
	AskingPrice      *AskingPrice     `bson:"asking_price,omitempty" json:"asking_price,omitempty"`
	Photos           []string         `bson:"photos" json:"photos"` // S3 keys
	ListingStatus    ListingStatus    `bson:"listing_status" json:"listing_status"`
	ModerationStatus ModerationStatus `bson:"moderation_status" json:"moderation_status"`
	ModerationNotes  string           `bson:"moderation_notes,omitempty" json:"moderation_notes,omitempty"`
	ModeratedAt      *time.Time       `bson:"moderated_at,omitempty" json:"moderated_at,omitempty"`
	CreatedAt        time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `bson:"updated_at" json:"updated_at"`
	Deleted          bool             `bson:"deleted" json:"-"` // Soft delete flag
}

// PubliclyVisible reports whether the property may appear in public listings
// and search results.
func (p *Property) PubliclyVisible() bool {
	return !p.Deleted &&
		p.ModerationStatus == ModerationApproved &&
		p.ListingStatus == ListingActive
}
