package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/utils"
)

func setupTestDBUser(t *testing.T, dbName string) *mongo.Database {
	return utils.SetupTestDB(t, dbName, "users")
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	db := setupTestDBUser(t, "testdb_user_create")
	svc := NewUserService(db, testConfig())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Thandi Nkosi", "Thandi@Example.com", "+27 82 555 0000", "s3cret-pass", models.RoleSeller)
	require.NoError(t, err)
	require.NotNil(t, user)

	// Emails are normalized and passwords never stored in the clear.
	assert.Equal(t, "thandi@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "thandi@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Lookup by email is case-insensitive.
	_, err = svc.Authenticate(ctx, "THANDI@example.com", "s3cret-pass")
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, "thandi@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SuspendedCannotLogIn(t *testing.T) {
	db := setupTestDBUser(t, "testdb_user_suspend")
	svc := NewUserService(db, testConfig())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Sipho M", "sipho@example.com", "", "hunter22", models.RoleBuyer)
	require.NoError(t, err)

	require.NoError(t, svc.SetSuspended(ctx, user.ID, true))
	_, err = svc.Authenticate(ctx, "sipho@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.SetSuspended(ctx, user.ID, false))
	_, err = svc.Authenticate(ctx, "sipho@example.com", "hunter22")
	assert.NoError(t, err)

	err = svc.SetSuspended(ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Lookups(t *testing.T) {
	db := setupTestDBUser(t, "testdb_user_lookup")
	svc := NewUserService(db, testConfig())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Lerato K", "lerato@example.com", "", "pw123456", models.RoleModerator)
	require.NoError(t, err)

	byID, err := svc.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, byID.Role)

	_, err = svc.FindUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.FindUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.CreateUser(ctx, "Bad Role", "bad@example.com", "", "pw123456", models.Role("superuser"))
	assert.Error(t, err)
}
