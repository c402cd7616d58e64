package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/store/memstore"
)

func newUserEnv(t *testing.T) (*UserService, *memstore.MemStore) {
	t.Helper()
	st := memstore.New()
	return NewUserService(st, testLogger()), st
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newUserEnv(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Ana Ruiz", "aruiz", "ana@example.com", "s3cret!")
	require.NoError(t, err)
	assert.False(t, user.Id.IsZero())
	assert.NotEqual(t, "s3cret!", user.Password, "password must be stored hashed")

	got, err := svc.Login(ctx, "aruiz", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)

	_, err = svc.Login(ctx, "aruiz", "wrong pass")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserEnv(t)
	ctx := context.Background()

	tests := []struct {
		name, display, username, email, password string
	}{
		{"empty name", "", "aruiz", "ana@example.com", "s3cret!"},
		{"empty username", "Ana", "", "ana@example.com", "s3cret!"},
		{"empty email", "Ana", "aruiz", "", "s3cret!"},
		{"empty password", "Ana", "aruiz", "ana@example.com", ""},
		{"short password", "Ana", "aruiz", "ana@example.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.display, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrEmptyInput)
		})
	}
}

func TestSignupUniqueness(t *testing.T) {
	svc, _ := newUserEnv(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ana Ruiz", "aruiz", "ana@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Another Ana", "aruiz", "other@example.com", "s3cret!")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = svc.Signup(ctx, "Another Ana", "ana2", "ana@example.com", "s3cret!")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestResolve(t *testing.T) {
	svc, st := newUserEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana Ruiz", "aruiz")

	byID, err := svc.ResolveByID(ctx, ana.Id)
	require.NoError(t, err)
	assert.Equal(t, "aruiz", byID.Username)

	byHandle, err := svc.ResolveByHandle(ctx, "aruiz")
	require.NoError(t, err)
	assert.Equal(t, ana.Id, byHandle.Id)

	_, err = svc.ResolveByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.ResolveByHandle(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSearch(t *testing.T) {
	svc, st := newUserEnv(t)
	ctx := context.Background()
	seedUser(t, st, "Ana Ruiz", "aruiz")
	seedUser(t, st, "Anatoly K", "anak")
	seedUser(t, st, "Bob Stone", "bstone")

	got, err := svc.Search(ctx, "ana", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, "STONE", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bstone", got[0].Username)

	got, err = svc.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
