package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create_Defaults(t *testing.T) {
	env := setupServices(t)
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	post := env.post(t, owner, cat, "Hello World", "")
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, owner.Profile.ID, post.ProfileID)
	assert.Zero(t, post.Views)
	assert.True(t, strings.HasPrefix(post.Slug, "hello-world-"))
	assert.Len(t, post.Slug, len("hello-world-")+2)
	assert.Contains(t, env.indexer.indexed, post.ID)
}

func TestPostService_IndexesPostWithCategoryAndAuthor(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	post := env.post(t, owner, cat, "Hello", models.PostStatusPublished)
	doc := env.indexer.doc(post.ID)
	require.NotNil(t, doc)
	require.NotNil(t, doc.Category)
	assert.Equal(t, "Go", doc.Category.Title)
	require.NotNil(t, doc.Profile)
	assert.Equal(t, "alice", doc.Profile.FullName)
	require.NotNil(t, doc.User)
	assert.Equal(t, owner.ID, doc.User.ID)

	rust := env.category(t, "Rust")
	post.CategoryID = rust.ID
	post.Category = nil
	require.NoError(t, env.svc.Posts.Update(ctx, post))
	doc = env.indexer.doc(post.ID)
	require.NotNil(t, doc.Category)
	assert.Equal(t, "Rust", doc.Category.Title)
}

func TestPostService_RejectsForeignProfile(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice@example.com")
	bob := env.user(t, "bob@example.com")
	cat := env.category(t, "Go")

	post := &models.Post{UserID: alice.ID, ProfileID: bob.Profile.ID, CategoryID: cat.ID, Title: "Borrowed"}
	assertCode(t, models.CodeValidation, env.svc.Posts.Create(ctx, post))
	assert.Zero(t, env.count(t, "posts"))

	post.ProfileID = 404
	assertCode(t, models.CodeValidation, env.svc.Posts.Create(ctx, post))

	own := env.post(t, alice, cat, "Mine", models.PostStatusDraft)
	own.ProfileID = bob.Profile.ID
	assertCode(t, models.CodeValidation, env.svc.Posts.Update(ctx, own))

	stored, err := env.svc.Posts.Get(ctx, own.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Profile.ID, stored.ProfileID)
}

func TestPostService_SameTitleGetsDistinctSlugs(t *testing.T) {
	env := setupServices(t)
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	a := env.post(t, owner, cat, "Same Title", models.PostStatusPublished)
	b := env.post(t, owner, cat, "Same Title", models.PostStatusPublished)
	assert.NotEqual(t, a.Slug, b.Slug)
	assert.Equal(t, a.Slug[:len(a.Slug)-2], b.Slug[:len(b.Slug)-2])
}

func TestPostService_DerivedSlugCollisionIsRedrawn(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	first := &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Dup", Slug: "dup-aa"}
	require.NoError(t, env.svc.Posts.Create(ctx, first))

	tokens := []string{"aa", "aa", "bb"}
	env.svc.Posts.newSlug = func(title string) string {
		tok := tokens[0]
		tokens = tokens[1:]
		return "dup-" + tok
	}

	second := &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Dup"}
	require.NoError(t, env.svc.Posts.Create(ctx, second))
	assert.Equal(t, "dup-bb", second.Slug)
}

func TestPostService_DerivedSlugGivesUpAfterAttempts(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")
	require.NoError(t, env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Dup", Slug: "dup-aa"}))

	calls := 0
	env.svc.Posts.newSlug = func(string) string {
		calls++
		return "dup-aa"
	}
	err := env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Dup"})
	assertCode(t, models.CodeConflict, err)
	assert.Equal(t, 3, calls)
}

func TestPostService_SuppliedSlugIsKeptAndCollides(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	post := &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Anything", Slug: "my-own-slug"}
	require.NoError(t, env.svc.Posts.Create(ctx, post))
	assert.Equal(t, "my-own-slug", post.Slug)

	err := env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Other", Slug: "my-own-slug"})
	assertCode(t, models.CodeConflict, err)
}

func TestPostService_Create_Failures(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")

	t.Run("missing category", func(t *testing.T) {
		err := env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, Title: "No category"})
		assertCode(t, models.CodeValidation, err)
	})

	t.Run("missing user", func(t *testing.T) {
		err := env.svc.Posts.Create(ctx, &models.Post{UserID: 999, ProfileID: owner.Profile.ID, CategoryID: cat.ID, Title: "Ghost"})
		assertCode(t, models.CodeValidation, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		err := env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "x", Status: "Archived"})
		assertCode(t, models.CodeValidation, err)
	})

	t.Run("title too long", func(t *testing.T) {
		err := env.svc.Posts.Create(ctx, &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: strings.Repeat("t", 101)})
		assertCode(t, models.CodeValidation, err)
	})

	assert.Zero(t, env.count(t, "posts"))
}

func TestPostService_ToggleLike(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := env.user(t, "alice@example.com")
	fan := env.user(t, "bob@example.com")
	post := env.post(t, owner, env.category(t, "Go"), "Likeable", models.PostStatusPublished)

	liked, err := env.svc.Posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	notes, err := env.svc.Notifications.ListForUser(ctx, owner.ID, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationLike, notes[0].Type)

	liked, err = env.svc.Posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	n, err := env.svc.Posts.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Liking your own post does not notify you.
	liked, err = env.svc.Posts.ToggleLike(ctx, post.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), env.count(t, "notifications"))

	_, err = env.svc.Posts.ToggleLike(ctx, 999, fan.ID)
	assertCode(t, models.CodeNotFound, err)
}

func TestPostService_IncrementViews(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.post(t, env.user(t, "alice@example.com"), env.category(t, "Go"), "Viewed", models.PostStatusPublished)

	views, err := env.svc.Posts.IncrementViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, views)

	loaded, err := env.svc.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Views)
}

func TestPostService_Listings(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice@example.com")
	bob := env.user(t, "bob@example.com")
	goCat := env.category(t, "Go")
	rust := env.category(t, "Rust")

	env.post(t, alice, goCat, "Published Go", models.PostStatusPublished)
	env.post(t, alice, goCat, "Draft Go", models.PostStatusDraft)
	env.post(t, bob, rust, "Published Rust", models.PostStatusPublished)

	published, err := env.svc.Posts.ListPublished(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, published, 2)

	inGo, err := env.svc.Posts.ListByCategory(ctx, goCat.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, inGo, 1)
	assert.Equal(t, "Published Go", inGo[0].Title)

	byAlice, err := env.svc.Posts.ListByUser(ctx, alice.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byAlice, 2)

	filtered, err := env.svc.Posts.List(ctx, repository.PostFilter{UserID: bob.ID, Status: models.PostStatusDraft})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestPostService_UpdateAndDelete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.post(t, env.user(t, "alice@example.com"), env.category(t, "Go"), "Before", models.PostStatusDraft)
	slug := post.Slug

	loaded, err := env.svc.Posts.GetBySlug(ctx, slug)
	require.NoError(t, err)
	loaded.Title = "After"
	loaded.Status = models.PostStatusPublished
	require.NoError(t, env.svc.Posts.Update(ctx, loaded))

	again, err := env.svc.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", again.Title)
	assert.Equal(t, slug, again.Slug, "the slug is kept on update")

	require.NoError(t, env.svc.Posts.Delete(ctx, post.ID))
	assert.Contains(t, env.indexer.removed, post.ID)
	assertCode(t, models.CodeNotFound, env.svc.Posts.Delete(ctx, post.ID))
}

type failingIndexer struct{}

func (failingIndexer) IndexPost(context.Context, *models.Post) error {
	return errors.New("search down")
}

func (failingIndexer) RemovePost(context.Context, uint) error {
	return errors.New("search down")
}

func TestPostService_IndexFailureDoesNotFailSave(t *testing.T) {
	env := setupServices(t)
	owner := env.user(t, "alice@example.com")
	cat := env.category(t, "Go")
	env.svc.Posts.indexer = failingIndexer{}

	post := &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: "Still saved", Status: models.PostStatusPublished}
	require.NoError(t, env.svc.Posts.Create(context.Background(), post))
	assert.NotZero(t, post.ID)
}
