package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fairhold/marketplace/internal/auth"
	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/db"
	"fairhold/marketplace/internal/models"
)

// IUserService defines the interface for user account operations.
type IUserService interface {
	CreateUser(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error)
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	SetSuspended(ctx context.Context, userID string, suspended bool) error
}

const usersCollection = "users"

// userService implements IUserService.
type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: db, cfg: cfg}
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, errors.New("invalid role")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, persistence("hash password", err)
	}

	collection := s.db.Collection(usersCollection)
	now := time.Now().UTC()

	var newUser *models.User
	operation := func() error {
		newUser = &models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Phone:        phone,
			PasswordHash: hash,
			Role:         role,
			Suspended:    false,
			CreatedAt:    now,
			UpdatedAt:    now,
			Deleted:      false,
		}
		_, insertErr := collection.InsertOne(ctx, newUser)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, persistence("insert user", err)
	}
	return newUser, nil
}

// FindUserByID finds a non-deleted user by ID.
func (s *userService) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	collection := s.db.Collection(usersCollection)
	err := collection.FindOne(ctx, bson.M{"_id": userID, "deleted": false}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("find user", err)
	}
	return &user, nil
}

// FindUserByEmail finds a non-deleted user by email (case-insensitive).
func (s *userService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	collection := s.db.Collection(usersCollection)
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email)), "deleted": false}
	err := collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("find user by email", err)
	}
	return &user, nil
}

// Authenticate verifies the email/password pair and returns the matching user.
// Suspended accounts cannot log in.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Suspended {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SetSuspended toggles the suspended flag on an account.
func (s *userService) SetSuspended(ctx context.Context, userID string, suspended bool) error {
	collection := s.db.Collection(usersCollection)
	update := bson.M{"$set": bson.M{"suspended": suspended, "updated_at": time.Now().UTC()}}
	res, err := collection.UpdateOne(ctx, bson.M{"_id": userID, "deleted": false}, update)
	if err != nil {
		return persistence("update user suspension", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
