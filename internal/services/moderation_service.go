package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/db"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/notify"
)

// IModerationService defines the interface for property moderation.
type IModerationService interface {
	ApproveProperty(ctx context.Context, principal *Principal, propertyID, notes string) (*models.Property, error)
	RejectProperty(ctx context.Context, principal *Principal, propertyID, reasonCode, notes string) (*models.Property, error)
	FlagProperty(ctx context.Context, principal *Principal, propertyID, reasonCode, notes string) (*models.Property, error)
	UnflagProperty(ctx context.Context, principal *Principal, propertyID, notes string) (*models.Property, error)
	PendingQueue(ctx context.Context, principal *Principal, limit int) ([]models.Property, error)
	ListReviews(ctx context.Context, principal *Principal, propertyID string) ([]models.Review, error)
}

const reviewsCollection = "moderation_reviews"

// moderationService implements IModerationService.
type moderationService struct {
	db         *mongo.Database
	cfg        *config.Config
	properties IPropertyService
	users      IUserService
	notifier   notify.Dispatcher
}

// NewModerationService creates a new ModerationService.
func NewModerationService(db *mongo.Database, cfg *config.Config, properties IPropertyService, users IUserService, notifier notify.Dispatcher) IModerationService {
	return &moderationService{db: db, cfg: cfg, properties: properties, users: users, notifier: notifier}
}

// Allowed moderation transitions, keyed by action.
var moderationTransitions = map[models.ModerationAction]struct {
	from []models.ModerationStatus
	to   models.ModerationStatus
}{
	models.ActionApproved:  {from: []models.ModerationStatus{models.ModerationPending}, to: models.ModerationApproved},
	models.ActionRejected:  {from: []models.ModerationStatus{models.ModerationPending}, to: models.ModerationRejected},
	models.ActionFlagged:   {from: []models.ModerationStatus{models.ModerationPending, models.ModerationApproved}, to: models.ModerationFlagged},
	models.ActionUnflagged: {from: []models.ModerationStatus{models.ModerationFlagged}, to: models.ModerationPending},
}

// ApproveProperty moves a pending listing to approved and notifies the seller.
func (s *moderationService) ApproveProperty(ctx context.Context, principal *Principal, propertyID, notes string) (*models.Property, error) {
	property, err := s.act(ctx, principal, propertyID, models.ActionApproved, "", notes)
	if err != nil {
		return nil, err
	}
	s.notifySeller(ctx, property, notify.KindPropertyApproved, "")
	return property, nil
}

// RejectProperty moves a pending listing to rejected. A reason is required
// and the seller is told which one.
func (s *moderationService) RejectProperty(ctx context.Context, principal *Principal, propertyID, reasonCode, notes string) (*models.Property, error) {
	if strings.TrimSpace(reasonCode) == "" {
		return nil, ErrReasonRequired
	}
	property, err := s.act(ctx, principal, propertyID, models.ActionRejected, reasonCode, notes)
	if err != nil {
		return nil, err
	}
	s.notifySeller(ctx, property, notify.KindPropertyRejected, notify.ReasonText(reasonCode))
	return property, nil
}

// FlagProperty pulls a pending or approved listing out of circulation for
// review. A reason is required. The seller is not notified; flags are an
// internal state pending a final decision.
func (s *moderationService) FlagProperty(ctx context.Context, principal *Principal, propertyID, reasonCode, notes string) (*models.Property, error) {
	if strings.TrimSpace(reasonCode) == "" {
		return nil, ErrReasonRequired
	}
	return s.act(ctx, principal, propertyID, models.ActionFlagged, reasonCode, notes)
}

// UnflagProperty returns a flagged listing to the pending queue for a fresh
// review rather than restoring whatever status it had before the flag.
func (s *moderationService) UnflagProperty(ctx context.Context, principal *Principal, propertyID, notes string) (*models.Property, error) {
	return s.act(ctx, principal, propertyID, models.ActionUnflagged, "", notes)
}

// act runs one moderation action: authorize, check the transition is legal
// for the property's current status, apply it, and append a review record.
func (s *moderationService) act(ctx context.Context, principal *Principal, propertyID string, action models.ModerationAction, reasonCode, notes string) (*models.Property, error) {
	if err := Authorize(principal, models.RoleModerator); err != nil {
		return nil, err
	}

	property, err := s.properties.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	transition := moderationTransitions[action]
	legal := false
	for _, from := range transition.from {
		if property.ModerationStatus == from {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrInvalidTransition
	}

	// The reason, not the optional free text, is what the property record
	// must retain for rejected and flagged listings.
	storedNotes := notes
	if reasonCode != "" {
		storedNotes = notify.ReasonText(reasonCode)
		if notes != "" {
			storedNotes += ": " + notes
		}
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"moderation_status": transition.to,
		"moderation_notes":  storedNotes,
		"moderated_at":      now,
		"updated_at":        now,
	}}
	// Re-check the status in the filter so two moderators racing on the
	// same property cannot both win.
	filter := bson.M{"_id": propertyID, "moderation_status": property.ModerationStatus, "deleted": false}
	res, err := s.db.Collection(propertiesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, persistence("update moderation status", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrInvalidTransition
	}

	property.ModerationStatus = transition.to
	property.ModerationNotes = storedNotes
	property.ModeratedAt = &now
	property.UpdatedAt = now

	// Review records are append-only: one per action taken, never updated.
	review := &models.Review{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		ReviewerID: principal.UserID,
		Action:     action,
		Reason:     reasonCode,
		Notes:      notes,
		CreatedAt:  now,
	}
	operation := func() error {
		_, insertErr := s.db.Collection(reviewsCollection).InsertOne(ctx, review)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, persistence("insert review record", err)
	}

	return property, nil
}

// notifySeller dispatches a moderation outcome notification. Lookup failures
// only shrink the payload; the moderation action has already committed.
func (s *moderationService) notifySeller(ctx context.Context, property *models.Property, kind notify.Kind, reason string) {
	payload := notify.PropertyModerated{
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		Status:        property.ModerationStatus,
		Reason:        reason,
	}
	if seller, err := s.users.FindUserByID(ctx, property.SellerID); err == nil {
		payload.SellerName = seller.Name
		payload.SellerEmail = seller.Email
	}
	s.notifier.Send(ctx, kind, payload)
}

// PendingQueue returns listings awaiting a moderation decision, oldest
// first so nothing languishes at the back of the queue. Flagged listings
// are included: a flag is an open question, not a final state.
func (s *moderationService) PendingQueue(ctx context.Context, principal *Principal, limit int) ([]models.Property, error) {
	if err := Authorize(principal, models.RoleModerator); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	filter := bson.M{
		"moderation_status": bson.M{"$in": []models.ModerationStatus{models.ModerationPending, models.ModerationFlagged}},
		"deleted":           false,
	}
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, persistence("list pending queue", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, persistence("decode pending queue", err)
	}
	return properties, nil
}

// ListReviews returns the full moderation history of a property in the
// order the actions were taken.
func (s *moderationService) ListReviews(ctx context.Context, principal *Principal, propertyID string) ([]models.Review, error) {
	if err := Authorize(principal, models.RoleModerator); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(reviewsCollection).Find(ctx, bson.M{"property_id": propertyID}, opts)
	if err != nil {
		return nil, persistence("list reviews", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, persistence("decode reviews", err)
	}
	return reviews, nil
}
