package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/testutil"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

func TestAPIKeyService_CreateAPIKey(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	key, plaintext, err := env.apiKeys.CreateAPIKey(ctx, CreateAPIKeyInput{UserID: owner.ID, Name: " ci ", Description: "pipeline"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, constants.APIKeyPrefix))
	assert.Len(t, plaintext, 67)
	assert.Equal(t, "ci", key.Name)
	assert.Equal(t, plaintext[:11], key.Prefix)
	assert.Equal(t, utils.HashAPIKey(plaintext), key.KeyHash)
	assert.True(t, key.IsActive)

	var stored models.APIKey
	require.NoError(t, env.db.First(&stored, key.ID).Error)
	assert.NotEqual(t, plaintext, stored.KeyHash)
	assert.NotContains(t, stored.Prefix+stored.KeyHash+stored.Name+stored.Description, plaintext)

	_, _, err = env.apiKeys.CreateAPIKey(ctx, CreateAPIKeyInput{UserID: owner.ID, Name: "  "})
	assert.ErrorIs(t, err, ErrAPIKeyNameRequired)
}

func TestAPIKeyService_Authenticate(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env.apiKeys.now = func() time.Time { return fixed }

	key, plaintext, err := env.apiKeys.CreateAPIKey(ctx, CreateAPIKeyInput{UserID: owner.ID, Name: "ci"})
	require.NoError(t, err)

	authed, err := env.apiKeys.Authenticate(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, key.ID, authed.ID)
	assert.Equal(t, owner.ID, authed.UserID)

	var stored models.APIKey
	require.NoError(t, env.db.First(&stored, key.ID).Error)
	require.NotNil(t, stored.LastUsedAt)
	assert.True(t, fixed.Equal(stored.LastUsedAt.UTC()))

	_, err = env.apiKeys.Authenticate(ctx, plaintext+"0")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
	assert.ErrorIs(t, err, apierrors.ErrUnauthenticated)

	_, err = env.apiKeys.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAPIKeyService_Authenticate_InactiveKey(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	key, plaintext, err := env.apiKeys.CreateAPIKey(ctx, CreateAPIKeyInput{UserID: owner.ID, Name: "ci"})
	require.NoError(t, err)

	// is_active has a database default, so deactivate with an explicit update
	require.NoError(t, env.db.Model(&models.APIKey{}).Where("id = ?", key.ID).Update("is_active", false).Error)

	_, err = env.apiKeys.Authenticate(ctx, plaintext)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAPIKeyService_ListAndDelete(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	other := testutil.CreateUser(t, env.db, "other", "other@example.com")

	key, _, err := env.apiKeys.CreateAPIKey(ctx, CreateAPIKeyInput{UserID: owner.ID, Name: "ci"})
	require.NoError(t, err)

	keys, err := env.apiKeys.ListAPIKeys(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	keys, err = env.apiKeys.ListAPIKeys(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)

	err = env.apiKeys.DeleteAPIKey(ctx, other.ID, key.ID)
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)

	require.NoError(t, env.apiKeys.DeleteAPIKey(ctx, owner.ID, key.ID))

	err = env.apiKeys.DeleteAPIKey(ctx, owner.ID, key.ID)
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)
}
