package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/db"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/notify"
	"fairhold/marketplace/internal/validate"
)

// IInquiryService defines the interface for buyer inquiry operations.
type IInquiryService interface {
	SubmitInquiry(ctx context.Context, principal *Principal, input InquiryInput) (*SubmitInquiryResult, error)
	FindInquiryByID(ctx context.Context, inquiryID string) (*models.Inquiry, error)
	ListForSeller(ctx context.Context, sellerID string) ([]models.Inquiry, error)
	ListForBuyer(ctx context.Context, buyerID string) ([]models.Inquiry, error)
	MarkResponded(ctx context.Context, inquiryID, sellerID string) error
	MarkProceededToTransaction(ctx context.Context, inquiryID, sellerID string) error
}

// InquiryInput carries the buyer-supplied fields of an inquiry.
type InquiryInput struct {
	PropertyID       string
	Message          string
	PhoneNumber      string
	PreferredContact string
}

// SubmitInquiryResult is the outcome of a successful submission.
type SubmitInquiryResult struct {
	Inquiry      *models.Inquiry      `json:"inquiry"`
	Conversation *models.Conversation `json:"conversation,omitempty"`
}

const inquiriesCollection = "inquiries"

// inquiryService implements IInquiryService.
type inquiryService struct {
	db            *mongo.Database
	cfg           *config.Config
	properties    IPropertyService
	users         IUserService
	conversations IConversationService
	notifier      notify.Dispatcher
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(db *mongo.Database, cfg *config.Config, properties IPropertyService, users IUserService, conversations IConversationService, notifier notify.Dispatcher) IInquiryService {
	return &inquiryService{
		db:            db,
		cfg:           cfg,
		properties:    properties,
		users:         users,
		conversations: conversations,
		notifier:      notifier,
	}
}

// SubmitInquiry runs the full submission workflow: the caller must be
// authenticated, the property must be publicly visible, sellers cannot
// inquire about their own listings, the fields must validate, and the
// same buyer cannot inquire about the same property twice within the
// cooldown window. On success a conversation thread is opened and the
// seller is notified; neither side effect can fail the submission once
// the inquiry record exists.
func (s *inquiryService) SubmitInquiry(ctx context.Context, principal *Principal, input InquiryInput) (*SubmitInquiryResult, error) {
	if principal == nil || principal.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	property, err := s.properties.FindVisibleByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	if property.SellerID == principal.UserID {
		return nil, ErrSelfInquiry
	}

	if ferr := validate.Inquiry(validate.InquiryFields{
		PropertyID:       input.PropertyID,
		Message:          input.Message,
		PhoneNumber:      input.PhoneNumber,
		PreferredContact: input.PreferredContact,
	}); ferr != nil {
		return nil, &ValidationError{Fields: []validate.FieldError{*ferr}}
	}

	recent, err := s.hasRecentInquiry(ctx, principal.UserID, property.ID)
	if err != nil {
		return nil, err
	}
	if recent {
		return nil, ErrDuplicateInquiry
	}

	now := time.Now().UTC()
	collection := s.db.Collection(inquiriesCollection)

	var inquiry *models.Inquiry
	operation := func() error {
		inquiry = &models.Inquiry{
			ID:               uuid.NewString(),
			PropertyID:       property.ID,
			BuyerID:          principal.UserID,
			SellerID:         property.SellerID,
			Message:          input.Message,
			PhoneNumber:      input.PhoneNumber,
			PreferredContact: models.ContactMethod(input.PreferredContact),
			Status:           models.InquiryNew,
			CreatedAt:        now,
		}
		_, insertErr := collection.InsertOne(ctx, inquiry)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, persistence("insert inquiry", err)
	}

	result := &SubmitInquiryResult{Inquiry: inquiry}

	// The inquiry is committed at this point. The conversation is best
	// effort and the notification is fire-and-forget.
	conv, convErr := s.conversations.CreateForInquiry(ctx, inquiry)
	if convErr != nil {
		log.Printf("inquiry %s: could not open conversation: %v", inquiry.ID, convErr)
	} else {
		result.Conversation = conv
	}

	s.notifier.Send(ctx, notify.KindInquiryReceived, s.buildInquiryNotification(ctx, inquiry, conv, property))

	return result, nil
}

// hasRecentInquiry reports whether the buyer already inquired about this
// property within the cooldown window. The check races with concurrent
// submissions from the same buyer; a rare duplicate is tolerated.
func (s *inquiryService) hasRecentInquiry(ctx context.Context, buyerID, propertyID string) (bool, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.InquiryCooldown)
	filter := bson.M{
		"buyer_id":    buyerID,
		"property_id": propertyID,
		"created_at":  bson.M{"$gte": cutoff},
	}
	count, err := s.db.Collection(inquiriesCollection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, persistence("check inquiry cooldown", err)
	}
	return count > 0, nil
}

// buildInquiryNotification assembles the notification payload. Name and
// email lookups are best effort; a missing party still yields a payload.
func (s *inquiryService) buildInquiryNotification(ctx context.Context, inquiry *models.Inquiry, conv *models.Conversation, property *models.Property) notify.InquiryReceived {
	payload := notify.InquiryReceived{
		InquiryID:     inquiry.ID,
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		PropertyLink:  fmt.Sprintf("%s/properties/%s", s.cfg.BaseURL, property.ID),
		Message:       inquiry.Message,
	}
	if conv != nil {
		payload.ConversationID = conv.ID
	}
	if buyer, err := s.users.FindUserByID(ctx, inquiry.BuyerID); err == nil {
		payload.BuyerName = buyer.Name
	}
	if seller, err := s.users.FindUserByID(ctx, inquiry.SellerID); err == nil {
		payload.SellerName = seller.Name
		payload.SellerEmail = seller.Email
	}
	return payload
}

// FindInquiryByID finds an inquiry by ID.
func (s *inquiryService) FindInquiryByID(ctx context.Context, inquiryID string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Collection(inquiriesCollection).FindOne(ctx, bson.M{"_id": inquiryID}).Decode(&inquiry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInquiryNotFound
		}
		return nil, persistence("find inquiry", err)
	}
	return &inquiry, nil
}

// ListForSeller returns inquiries addressed to the seller, newest first.
func (s *inquiryService) ListForSeller(ctx context.Context, sellerID string) ([]models.Inquiry, error) {
	return s.list(ctx, bson.M{"seller_id": sellerID})
}

// ListForBuyer returns inquiries the buyer submitted, newest first.
func (s *inquiryService) ListForBuyer(ctx context.Context, buyerID string) ([]models.Inquiry, error) {
	return s.list(ctx, bson.M{"buyer_id": buyerID})
}

func (s *inquiryService) list(ctx context.Context, filter bson.M) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(inquiriesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, persistence("list inquiries", err)
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, persistence("decode inquiries", err)
	}
	return inquiries, nil
}

// MarkResponded records that the seller replied to the inquiry.
func (s *inquiryService) MarkResponded(ctx context.Context, inquiryID, sellerID string) error {
	return s.transition(ctx, inquiryID, sellerID, []models.InquiryStatus{models.InquiryNew}, models.InquiryResponded)
}

// MarkProceededToTransaction records that the inquiry led to a sale process.
func (s *inquiryService) MarkProceededToTransaction(ctx context.Context, inquiryID, sellerID string) error {
	return s.transition(ctx, inquiryID, sellerID,
		[]models.InquiryStatus{models.InquiryNew, models.InquiryResponded}, models.InquiryProceedsTx)
}

func (s *inquiryService) transition(ctx context.Context, inquiryID, sellerID string, from []models.InquiryStatus, to models.InquiryStatus) error {
	inquiry, err := s.FindInquiryByID(ctx, inquiryID)
	if err != nil {
		return err
	}
	if inquiry.SellerID != sellerID {
		return ErrNotAuthorized
	}

	filter := bson.M{"_id": inquiryID, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to}}
	res, err := s.db.Collection(inquiriesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return persistence("update inquiry status", err)
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}
