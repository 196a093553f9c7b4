package models

import (
	"time"
)

// ModerationAction identifies which transition a moderator performed.
type ModerationAction string

const (
	ActionApproved  ModerationAction = "approved"
	ActionRejected  ModerationAction = "rejected"
	ActionFlagged   ModerationAction = "flagged"
	ActionUnflagged ModerationAction = "unflagged"
)

// Review is an immutable audit record of one moderation action on one
// property. Reviews are append-only: one record per action, in chronological
// order, never updated or deleted.
type Review struct {
	ID         string           `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyID string           `bson:"property_id" json:"property_id"`
	ReviewerID string           `bson:"reviewer_id" json:"reviewer_id"`
	Action     ModerationAction `bson:"action" json:"action"`
	Reason     string           `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes      string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time        `bson:"created_at" json:"created_at"`
}
