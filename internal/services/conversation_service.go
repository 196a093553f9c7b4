package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/db"
	"fairhold/marketplace/internal/models"
)

// IConversationService defines the interface for buyer/seller messaging.
type IConversationService interface {
	CreateForInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Conversation, error)
	FindConversationByID(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	PostMessage(ctx context.Context, conversationID, senderID, body string) (*models.ConversationMessage, error)
	ListMessages(ctx context.Context, conversationID, userID string, limit int) ([]models.ConversationMessage, error)
	CloseConversation(ctx context.Context, conversationID, userID string) error
}

const (
	conversationsCollection        = "conversations"
	conversationMessagesCollection = "conversation_messages"
)

// conversationService implements IConversationService.
type conversationService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *mongo.Database, cfg *config.Config) IConversationService {
	return &conversationService{db: db, cfg: cfg}
}

// CreateForInquiry opens a conversation thread between the inquiring buyer
// and the seller, seeded with the inquiry message as the first entry.
func (s *conversationService) CreateForInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Conversation, error) {
	now := time.Now().UTC()

	var conv *models.Conversation
	operation := func() error {
		conv = &models.Conversation{
			ID:         uuid.NewString(),
			InquiryID:  inquiry.ID,
			PropertyID: inquiry.PropertyID,
			BuyerID:    inquiry.BuyerID,
			SellerID:   inquiry.SellerID,
			Status:     models.ConversationOpen,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		_, insertErr := s.db.Collection(conversationsCollection).InsertOne(ctx, conv)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, persistence("insert conversation", err)
	}

	// First message mirrors the inquiry text so the thread is self-contained.
	seed := &models.ConversationMessage{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       inquiry.BuyerID,
		Body:           inquiry.Message,
		CreatedAt:      now,
	}
	if _, err := s.db.Collection(conversationMessagesCollection).InsertOne(ctx, seed); err != nil {
		return nil, persistence("insert seed message", err)
	}
	return conv, nil
}

// FindConversationByID finds a conversation by ID.
func (s *conversationService) FindConversationByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Collection(conversationsCollection).FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConversationNotFound
		}
		return nil, persistence("find conversation", err)
	}
	return &conv, nil
}

// ListForUser returns all conversations the user participates in, most
// recently active first.
func (s *conversationService) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	filter := bson.M{"$or": []bson.M{{"buyer_id": userID}, {"seller_id": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.db.Collection(conversationsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, persistence("list conversations", err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, persistence("decode conversations", err)
	}
	return conversations, nil
}

// PostMessage appends a message to an open conversation. Only participants
// may post.
func (s *conversationService) PostMessage(ctx context.Context, conversationID, senderID, body string) (*models.ConversationMessage, error) {
	conv, err := s.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(senderID) {
		return nil, ErrNotAuthorized
	}
	if conv.Status != models.ConversationOpen {
		return nil, ErrInvalidTransition
	}
	if s.cfg.MaxMessageLength > 0 && len(body) > s.cfg.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	now := time.Now().UTC()
	msg := &models.ConversationMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      now,
	}
	if _, err := s.db.Collection(conversationMessagesCollection).InsertOne(ctx, msg); err != nil {
		return nil, persistence("insert message", err)
	}

	update := bson.M{"$set": bson.M{"updated_at": now}}
	if _, err := s.db.Collection(conversationsCollection).UpdateOne(ctx, bson.M{"_id": conversationID}, update); err != nil {
		return nil, persistence("touch conversation", err)
	}

	// A seller reply means the inquiry has been responded to.
	if senderID == conv.SellerID {
		filter := bson.M{"_id": conv.InquiryID, "status": models.InquiryNew}
		statusUpdate := bson.M{"$set": bson.M{"status": models.InquiryResponded}}
		if _, err := s.db.Collection(inquiriesCollection).UpdateOne(ctx, filter, statusUpdate); err != nil {
			return nil, persistence("mark inquiry responded", err)
		}
	}
	return msg, nil
}

// ListMessages returns the messages of a conversation in chronological order.
// Only participants may read.
func (s *conversationService) ListMessages(ctx context.Context, conversationID, userID string, limit int) ([]models.ConversationMessage, error) {
	conv, err := s.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(userID) {
		return nil, ErrNotAuthorized
	}

	if limit <= 0 || limit > 200 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := s.db.Collection(conversationMessagesCollection).Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, persistence("list messages", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ConversationMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, persistence("decode messages", err)
	}
	return messages, nil
}

// CloseConversation closes a thread. Either participant may close it.
func (s *conversationService) CloseConversation(ctx context.Context, conversationID, userID string) error {
	conv, err := s.FindConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.IsParticipant(userID) {
		return ErrNotAuthorized
	}
	update := bson.M{"$set": bson.M{"status": models.ConversationClosed, "updated_at": time.Now().UTC()}}
	if _, err := s.db.Collection(conversationsCollection).UpdateOne(ctx, bson.M{"_id": conversationID}, update); err != nil {
		return persistence("close conversation", err)
	}
	return nil
}
