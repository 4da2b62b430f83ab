package seed

import (
	"context"
	"testing"

	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Factory) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	svc := service.New(repository.New(db), nil, service.Options{})
	return db, NewFactory(svc, 42)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFactory_Run(t *testing.T) {
	db, f := setup(t)

	sum, err := f.Run(context.Background(), Options{Users: 4, Categories: 2, Posts: 6, CommentsPerPost: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 2, sum.Categories)
	assert.Equal(t, 6, sum.Posts)
	assert.Equal(t, 6, sum.Likes)
	assert.Equal(t, int64(4), count(t, db, &models.User{}))
	assert.Equal(t, int64(4), count(t, db, &models.Profile{}), "every user gets a profile")
	assert.Equal(t, int64(6), count(t, db, &models.Post{}))
	assert.Equal(t, int64(sum.Comments), count(t, db, &models.Comment{}))
	assert.Equal(t, int64(sum.Bookmarks), count(t, db, &models.Bookmark{}))
}

func TestFactory_UserOverridesAndPassword(t *testing.T) {
	_, f := setup(t)
	ctx := context.Background()

	user, err := f.User(ctx, func(u *models.User) {
		u.Email = "demo@example.com"
		u.FullName = ""
	})
	require.NoError(t, err)
	assert.Equal(t, "demo", user.FullName)
	assert.Equal(t, "demo", user.Username)
	assert.True(t, user.CheckPassword(DemoPassword))
}

func TestFactory_PostDefaults(t *testing.T) {
	_, f := setup(t)
	ctx := context.Background()

	user, err := f.User(ctx)
	require.NoError(t, err)
	cat, err := f.Category(ctx, func(c *models.Category) { c.Title = "Demo Things" })
	require.NoError(t, err)
	assert.Equal(t, "demo-things", cat.Slug)

	post, err := f.Post(ctx, user, cat, func(p *models.Post) { p.Status = models.PostStatusPublished })
	require.NoError(t, err)
	assert.NotEmpty(t, post.Slug)
	assert.Equal(t, user.Profile.ID, post.ProfileID)
	assert.LessOrEqual(t, len(post.Title), 100)
	assert.True(t, post.Status.Valid())
}
