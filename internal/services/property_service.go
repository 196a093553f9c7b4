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

// IPropertyService defines the interface for property listing operations.
type IPropertyService interface {
	CreateProperty(ctx context.Context, sellerID string, input PropertyInput) (*models.Property, error)
	FindPropertyByID(ctx context.Context, propertyID string) (*models.Property, error)
	FindVisibleByID(ctx context.Context, propertyID string) (*models.Property, error)
	FindBySellerID(ctx context.Context, sellerID string) ([]models.Property, error)
	SearchPublic(ctx context.Context, filter PropertySearchFilter, limit int) ([]models.Property, error)
	SetListingStatus(ctx context.Context, propertyID, sellerID string, status models.ListingStatus) error
	AddPhoto(ctx context.Context, propertyID, photoKey string) error
	DeleteProperty(ctx context.Context, propertyID, sellerID string) error
}

// PropertyInput carries the seller-supplied fields of a new listing.
type PropertyInput struct {
	Title       string
	Description string
	Suburb      string
	City        string
	Province    string
	Bedrooms    int
	Bathrooms   int
	ErfSizeSqm  int
	AskingPrice *models.AskingPrice
}

// PropertySearchFilter narrows a public search.
type PropertySearchFilter struct {
	City        *string
	Province    *string
	MinBedrooms *int
	MaxPrice    *float64
}

const propertiesCollection = "properties"

// propertyService implements IPropertyService.
type propertyService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(db *mongo.Database, cfg *config.Config) IPropertyService {
	return &propertyService{db: db, cfg: cfg}
}

// CreateProperty inserts a new listing. Every new listing starts in the
// pending moderation state and is not publicly visible until approved.
func (s *propertyService) CreateProperty(ctx context.Context, sellerID string, input PropertyInput) (*models.Property, error) {
	collection := s.db.Collection(propertiesCollection)
	now := time.Now().UTC()

	var newProperty *models.Property
	operation := func() error {
		newProperty = &models.Property{
			ID:               uuid.NewString(),
			SellerID:         sellerID,
			Title:            input.Title,
			Description:      input.Description,
			Suburb:           input.Suburb,
			City:             input.City,
			Province:         input.Province,
			Bedrooms:         input.Bedrooms,
			Bathrooms:        input.Bathrooms,
			ErfSizeSqm:       input.ErfSizeSqm,
			AskingPrice:      input.AskingPrice,
			Photos:           []string{},
			ListingStatus:    models.ListingActive,
			ModerationStatus: models.ModerationPending,
			CreatedAt:        now,
			UpdatedAt:        now,
			Deleted:          false,
		}
		_, insertErr := collection.InsertOne(ctx, newProperty)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, persistence("insert property", err)
	}
	return newProperty, nil
}

// FindPropertyByID finds a non-deleted property by ID regardless of its
// moderation state. It does NOT check ownership or visibility.
func (s *propertyService) FindPropertyByID(ctx context.Context, propertyID string) (*models.Property, error) {
	var property models.Property
	collection := s.db.Collection(propertiesCollection)
	err := collection.FindOne(ctx, bson.M{"_id": propertyID, "deleted": false}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPropertyNotFound
		}
		return nil, persistence("find property", err)
	}
	return &property, nil
}

// FindVisibleByID finds a property that is publicly visible: approved,
// actively listed and not deleted. Anything else reads as not found.
func (s *propertyService) FindVisibleByID(ctx context.Context, propertyID string) (*models.Property, error) {
	property, err := s.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.PubliclyVisible() {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

// FindBySellerID returns all of a seller's non-deleted listings, newest first.
func (s *propertyService) FindBySellerID(ctx context.Context, sellerID string) ([]models.Property, error) {
	collection := s.db.Collection(propertiesCollection)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{"seller_id": sellerID, "deleted": false}, opts)
	if err != nil {
		return nil, persistence("find seller properties", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, persistence("decode seller properties", err)
	}
	return properties, nil
}

// SearchPublic returns approved, active listings matching the filter.
// Pending, rejected and flagged listings never appear in results.
func (s *propertyService) SearchPublic(ctx context.Context, filter PropertySearchFilter, limit int) ([]models.Property, error) {
	query := bson.M{
		"deleted":           false,
		"moderation_status": models.ModerationApproved,
		"listing_status":    models.ListingActive,
	}
	if filter.City != nil && *filter.City != "" {
		query["city"] = *filter.City
	}
	if filter.Province != nil && *filter.Province != "" {
		query["province"] = *filter.Province
	}
	if filter.MinBedrooms != nil {
		query["bedrooms"] = bson.M{"$gte": *filter.MinBedrooms}
	}
	if filter.MaxPrice != nil {
		query["asking_price.value"] = bson.M{"$lte": *filter.MaxPrice}
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	collection := s.db.Collection(propertiesCollection)
	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, persistence("search properties", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, persistence("decode search results", err)
	}
	return properties, nil
}

// SetListingStatus lets the owning seller change the listing status
// (active, inactive, sold). Moderation status is untouched.
func (s *propertyService) SetListingStatus(ctx context.Context, propertyID, sellerID string, status models.ListingStatus) error {
	switch status {
	case models.ListingActive, models.ListingInactive, models.ListingSold:
	default:
		return ErrInvalidTransition
	}
	collection := s.db.Collection(propertiesCollection)
	filter := bson.M{"_id": propertyID, "seller_id": sellerID, "deleted": false}
	update := bson.M{"$set": bson.M{"listing_status": status, "updated_at": time.Now().UTC()}}
	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return persistence("update listing status", err)
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// AddPhoto appends a processed photo key to the property.
func (s *propertyService) AddPhoto(ctx context.Context, propertyID, photoKey string) error {
	collection := s.db.Collection(propertiesCollection)
	update := bson.M{
		"$push": bson.M{"photos": photoKey},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := collection.UpdateOne(ctx, bson.M{"_id": propertyID, "deleted": false}, update)
	if err != nil {
		return persistence("add property photo", err)
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// DeleteProperty soft-deletes a listing owned by the seller.
func (s *propertyService) DeleteProperty(ctx context.Context, propertyID, sellerID string) error {
	collection := s.db.Collection(propertiesCollection)
	filter := bson.M{"_id": propertyID, "seller_id": sellerID, "deleted": false}
	update := bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}}
	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return persistence("delete property", err)
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
