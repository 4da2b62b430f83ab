package service

import (
	"context"
	"strings"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_OnePerUser(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := env.user(t, "alice@example.com")

	err := env.svc.Profiles.Create(ctx, &models.Profile{UserID: user.ID})
	assertCode(t, models.CodeConflict, err)

	p, err := env.svc.Profiles.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Profile.ID, p.ID)
	assert.Equal(t, models.DefaultUserImage, p.ImageOrDefault())
}

func TestProfileService_Update(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := env.user(t, "alice@example.com")

	p, err := env.svc.Profiles.Get(ctx, user.Profile.ID)
	require.NoError(t, err)

	long := strings.Repeat("b", 101)
	p.Bio = &long
	assertCode(t, models.CodeValidation, env.svc.Profiles.Update(ctx, p))

	bio := "Writes about Go"
	p.Bio = &bio
	p.Author = true
	require.NoError(t, env.svc.Profiles.Update(ctx, p))

	again, err := env.svc.Profiles.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, again.Bio)
	assert.Equal(t, bio, *again.Bio)
	assert.True(t, again.Author)

	list, err := env.svc.Profiles.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProfileService_UpdateAfterDeleteIsNotFound(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := env.user(t, "alice@example.com")
	require.NoError(t, env.svc.Profiles.Delete(ctx, user.Profile.ID))

	bio := "back"
	user.Profile.Bio = &bio
	assertCode(t, models.CodeNotFound, env.svc.Profiles.Update(ctx, user.Profile))
	assert.Zero(t, env.count(t, "profiles"))
}

func TestProfileService_DeleteRemovesItsPosts(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := env.user(t, "alice@example.com")
	post := env.post(t, user, env.category(t, "Go"), "Filed under profile", models.PostStatusPublished)

	require.NoError(t, env.svc.Profiles.Delete(ctx, user.Profile.ID))
	assert.Contains(t, env.indexer.removed, post.ID)
	assert.Zero(t, env.count(t, "posts"))

	_, err := env.svc.Users.Get(ctx, user.ID)
	require.NoError(t, err, "the user outlives its profile")
	assertCode(t, models.CodeNotFound, env.svc.Profiles.Delete(ctx, user.Profile.ID))
}
