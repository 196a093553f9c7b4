package services

import (
	"context"
	"fmt"

	"fairhold/marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default email templates used as fallback when not found in database
var defaultEmailTemplates = map[string]models.EmailTemplate{
	"inquiry_received": {
		TemplateID: "inquiry_received",
		Locale:     "en-US",
		Subject:    "New inquiry about {{.property_title}}",
		Body:       "Hi {{.seller_name}},\n\n{{.buyer_name}} has sent an inquiry about your listing {{.property_title}}:\n\n{{.message}}\n\nReply from your dashboard: {{.property_link}}",
	},
	"property_approved": {
		TemplateID: "property_approved",
		Locale:     "en-US",
		Subject:    "Your listing {{.property_title}} is live",
		Body:       "Hi {{.seller_name}},\n\nGood news: your listing {{.property_title}} has been approved and is now visible to buyers.",
	},
	"property_rejected": {
		TemplateID: "property_rejected",
		Locale:     "en-US",
		Subject:    "Your listing {{.property_title}} was not approved",
		Body:       "Hi {{.seller_name}},\n\nUnfortunately your listing {{.property_title}} could not be approved.\n\nReason: {{.reason}}\n\nYou can edit the listing and resubmit it for review.",
	},
}

// IEmailTemplateService defines the interface for email template operations.
type IEmailTemplateService interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, template *models.EmailTemplate) error
}

const emailTemplatesCollection = "email_templates"

// EmailTemplateService handles operations related to email templates
type EmailTemplateService struct {
	db *mongo.Database
}

// NewEmailTemplateService creates a new instance of EmailTemplateService
func NewEmailTemplateService(db *mongo.Database) *EmailTemplateService {
	return &EmailTemplateService{
		db: db,
	}
}

// GetTemplate retrieves an email template by ID and locale
func (s *EmailTemplateService) GetTemplate(ctx context.Context, templateID string, locale string) (*models.EmailTemplate, error) {
	collection := s.db.Collection(emailTemplatesCollection)
	filter := bson.M{
		"template_id": templateID,
		"locale":      locale,
	}

	var template models.EmailTemplate
	err := collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// If template not found in DB, try to get from defaults
			if defaultTemplate, ok := defaultEmailTemplates[templateID]; ok {
				return &defaultTemplate, nil
			}
			return nil, fmt.Errorf("template not found: %s (locale: %s)", templateID, locale)
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}

	return &template, nil
}

// SaveTemplate saves an email template to the database
func (s *EmailTemplateService) SaveTemplate(ctx context.Context, template *models.EmailTemplate) error {
	collection := s.db.Collection(emailTemplatesCollection)
	filter := bson.M{
		"template_id": template.TemplateID,
		"locale":      template.Locale,
	}

	update := bson.M{"$set": template}
	opts := options.Update().SetUpsert(true)

	_, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}
	return nil
}
