package service

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkService_SamePostTwiceIsAccepted(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	reader := env.user(t, "bob@example.com")
	post := env.post(t, owner, env.category(t, "Go"), "Post", models.PostStatusPublished)

	first, err := env.svc.Bookmarks.Add(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	second, err := env.svc.Bookmarks.Add(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := env.svc.Bookmarks.ListByUser(ctx, reader.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	notes, err := env.svc.Notifications.ListForUser(ctx, owner.ID, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, models.NotificationBookmark, n.Type)
	}

	require.NoError(t, env.svc.Bookmarks.Delete(ctx, first.ID))
	_, err = env.svc.Bookmarks.Get(ctx, first.ID)
	assertCode(t, models.CodeNotFound, err)

	_, err = env.svc.Bookmarks.Add(ctx, reader.ID, 999)
	assertCode(t, models.CodeNotFound, err)
}
