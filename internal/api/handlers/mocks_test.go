package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/services"
)

// --- Mocks ---

// MockInquiryService
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) SubmitInquiry(ctx context.Context, principal *services.Principal, input services.InquiryInput) (*services.SubmitInquiryResult, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmitInquiryResult), args.Error(1)
}

func (m *MockInquiryService) FindInquiryByID(ctx context.Context, inquiryID string) (*models.Inquiry, error) {
	args := m.Called(ctx, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListForSeller(ctx context.Context, sellerID string) ([]models.Inquiry, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListForBuyer(ctx context.Context, buyerID string) ([]models.Inquiry, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) MarkResponded(ctx context.Context, inquiryID, sellerID string) error {
	args := m.Called(ctx, inquiryID, sellerID)
	return args.Error(0)
}

func (m *MockInquiryService) MarkProceededToTransaction(ctx context.Context, inquiryID, sellerID string) error {
	args := m.Called(ctx, inquiryID, sellerID)
	return args.Error(0)
}

// MockModerationService
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) ApproveProperty(ctx context.Context, principal *services.Principal, propertyID, notes string) (*models.Property, error) {
	args := m.Called(ctx, principal, propertyID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockModerationService) RejectProperty(ctx context.Context, principal *services.Principal, propertyID, reasonCode, notes string) (*models.Property, error) {
	args := m.Called(ctx, principal, propertyID, reasonCode, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockModerationService) FlagProperty(ctx context.Context, principal *services.Principal, propertyID, reasonCode, notes string) (*models.Property, error) {
	args := m.Called(ctx, principal, propertyID, reasonCode, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockModerationService) UnflagProperty(ctx context.Context, principal *services.Principal, propertyID, notes string) (*models.Property, error) {
	args := m.Called(ctx, principal, propertyID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockModerationService) PendingQueue(ctx context.Context, principal *services.Principal, limit int) ([]models.Property, error) {
	args := m.Called(ctx, principal, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockModerationService) ListReviews(ctx context.Context, principal *services.Principal, propertyID string) ([]models.Review, error) {
	args := m.Called(ctx, principal, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, sellerID string, input services.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, sellerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindPropertyByID(ctx context.Context, propertyID string) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindVisibleByID(ctx context.Context, propertyID string) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindBySellerID(ctx context.Context, sellerID string) ([]models.Property, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) SearchPublic(ctx context.Context, filter services.PropertySearchFilter, limit int) ([]models.Property, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) SetListingStatus(ctx context.Context, propertyID, sellerID string, status models.ListingStatus) error {
	args := m.Called(ctx, propertyID, sellerID, status)
	return args.Error(0)
}

func (m *MockPropertyService) AddPhoto(ctx context.Context, propertyID, photoKey string) error {
	args := m.Called(ctx, propertyID, photoKey)
	return args.Error(0)
}

func (m *MockPropertyService) DeleteProperty(ctx context.Context, propertyID, sellerID string) error {
	args := m.Called(ctx, propertyID, sellerID)
	return args.Error(0)
}
