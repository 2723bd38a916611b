package services_test

import (
	"context"
	"testing"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := services.NewUserService(newMemUsers())
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Alice", " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.HashedPassword)

	_, err = svc.RegisterUser(ctx, "Alice2", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, services.ErrConflict)

	got, err := svc.AuthenticateUser(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = svc.AuthenticateUser(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestRegisterUser_Validation(t *testing.T) {
	svc := services.NewUserService(newMemUsers())
	ctx := context.Background()

	for _, tc := range []struct{ name, email, password string }{
		{"", "a@b.co", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "a@b.co", "123"},
	} {
		_, err := svc.RegisterUser(ctx, tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, services.ErrBadRequest, "%+v", tc)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := services.NewUserService(newMemUsers())
	_, err := svc.GetUser(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRegisterUser_LogsThroughConfiguredLogger(t *testing.T) {
	prev := logger.Log
	testLogger, hook := test.NewNullLogger()
	logger.Log = testLogger
	defer func() { logger.Log = prev }()

	svc := services.NewUserService(newMemUsers())
	_, err := svc.RegisterUser(context.Background(), "", "a@b.co", "secret1")
	require.ErrorIs(t, err, services.ErrBadRequest)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	hook.Reset()
	user, err := svc.RegisterUser(context.Background(), "Alice", "alice@b.co", "secret1")
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "User registered successfully", hook.LastEntry().Message)
	assert.Equal(t, user.ID.Hex(), hook.LastEntry().Data["userID"])
}
