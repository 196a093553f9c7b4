package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/notify"
	"fairhold/marketplace/internal/utils"
)

func setupTestDBConversation(t *testing.T, dbName string) *mongo.Database {
	return utils.SetupTestDB(t, dbName,
		"conversations", "conversation_messages", "inquiries", "properties", "users")
}

// conversationFixture submits a real inquiry so the conversation under test
// has the same shape it would in production.
func conversationFixture(t *testing.T, dbName string) (*mongo.Database, IConversationService, IInquiryService, *models.User, *models.User, *SubmitInquiryResult) {
	db := setupTestDBConversation(t, dbName)
	cfg := testConfig()
	properties := NewPropertyService(db, cfg)
	users := NewUserService(db, cfg)
	conversations := NewConversationService(db, cfg)
	inquiries := NewInquiryService(db, cfg, properties, users, conversations, notify.Nop{})

	seller := insertTestUser(t, db, models.RoleSeller)
	buyer := insertTestUser(t, db, models.RoleBuyer)
	property := insertTestProperty(t, db, seller.ID, models.ModerationApproved)

	result, err := inquiries.SubmitInquiry(context.Background(),
		&Principal{UserID: buyer.ID, Role: buyer.Role}, validInput(property.ID))
	require.NoError(t, err)
	require.NotNil(t, result.Conversation)

	return db, conversations, inquiries, buyer, seller, result
}

func TestConversation_PostMessage(t *testing.T) {
	_, conversations, inquiries, buyer, seller, result := conversationFixture(t, "testdb_conversation_post")
	ctx := context.Background()
	convID := result.Conversation.ID

	// The buyer's inquiry message seeds the thread.
	messages, err := conversations.ListMessages(ctx, convID, buyer.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, buyer.ID, messages[0].SenderID)
	assert.Equal(t, result.Inquiry.Message, messages[0].Body)

	// Outsiders cannot post or read.
	stranger := uuid.NewString()
	_, err = conversations.PostMessage(ctx, convID, stranger, "let me in")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = conversations.ListMessages(ctx, convID, stranger, 0)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// A seller reply lands in the thread and marks the inquiry responded.
	_, err = conversations.PostMessage(ctx, convID, seller.ID, "Yes, still available. When would you like to view?")
	require.NoError(t, err)

	messages, err = conversations.ListMessages(ctx, convID, seller.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	inquiry, err := inquiries.FindInquiryByID(ctx, result.Inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryResponded, inquiry.Status)

	// A buyer message does not change the inquiry status again.
	_, err = conversations.PostMessage(ctx, convID, buyer.ID, "Saturday morning works for me.")
	require.NoError(t, err)
	inquiry, err = inquiries.FindInquiryByID(ctx, result.Inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryResponded, inquiry.Status)
}

func TestConversation_Close(t *testing.T) {
	_, conversations, _, buyer, seller, result := conversationFixture(t, "testdb_conversation_close")
	ctx := context.Background()
	convID := result.Conversation.ID

	err := conversations.CloseConversation(ctx, convID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = conversations.CloseConversation(ctx, convID, seller.ID)
	require.NoError(t, err)

	// No posting into a closed thread.
	_, err = conversations.PostMessage(ctx, convID, buyer.ID, "hello?")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConversation_ListForUser(t *testing.T) {
	_, conversations, _, buyer, seller, result := conversationFixture(t, "testdb_conversation_list")
	ctx := context.Background()

	forBuyer, err := conversations.ListForUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, forBuyer, 1)
	assert.Equal(t, result.Conversation.ID, forBuyer[0].ID)

	forSeller, err := conversations.ListForUser(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, forSeller, 1)

	none, err := conversations.ListForUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConversation_NotFound(t *testing.T) {
	db := setupTestDBConversation(t, "testdb_conversation_missing")
	conversations := NewConversationService(db, testConfig())

	_, err := conversations.FindConversationByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
