package repository

import (
	"context"
	"testing"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		cache.SetClient(nil)
		mr.Close()
	})
	return mr
}

func TestPostCache_CategoryRenameDropsPosts(t *testing.T) {
	mr := setupCache(t)
	repos := New(setupTestDB(t))
	ctx := context.Background()

	owner := seedUser(t, repos, "o@example.com")
	cat := seedCategory(t, repos, "Old Title")
	post := seedPost(t, repos, owner, cat, "Hello", models.PostStatusPublished)

	got, err := repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Old Title", got.Category.Title)
	_, err = repos.Posts.GetBySlug(ctx, post.Slug)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	cat.Title = "New Title"
	require.NoError(t, repos.Categories.Update(ctx, cat))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))
	assert.False(t, mr.Exists(cache.PostSlugKey(post.Slug)))

	got, err = repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Category.Title)
	got, err = repos.Posts.GetBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Category.Title)
}

func TestPostCache_AuthorEditsDropPosts(t *testing.T) {
	mr := setupCache(t)
	repos := New(setupTestDB(t))
	ctx := context.Background()

	owner := seedUser(t, repos, "alice@example.com")
	post := seedPost(t, repos, owner, seedCategory(t, repos, "Go"), "Hello", models.PostStatusPublished)

	got, err := repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.User.FullName)

	owner.FullName = "Alice Liddell"
	require.NoError(t, repos.Users.Update(ctx, owner, owner.Profile))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err = repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.User.FullName)

	profile := got.Profile
	require.NotNil(t, profile)
	profile.FullName = "A. Liddell"
	require.NoError(t, repos.Profiles.Update(ctx, profile))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err = repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "A. Liddell", got.Profile.FullName)
}
