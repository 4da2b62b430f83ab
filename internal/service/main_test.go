package service

import (
	"context"
	"sync"
	"testing"

	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingIndexer remembers which posts were indexed or removed, and the
// last post sent for each ID.
type recordingIndexer struct {
	mu      sync.Mutex
	indexed []uint
	removed []uint
	docs    map[uint]*models.Post
}

func (r *recordingIndexer) IndexPost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, post.ID)
	if r.docs == nil {
		r.docs = map[uint]*models.Post{}
	}
	r.docs[post.ID] = post
	return nil
}

func (r *recordingIndexer) doc(id uint) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id]
}

func (r *recordingIndexer) RemovePost(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return nil
}

type testEnv struct {
	db      *gorm.DB
	svc     *Services
	indexer *recordingIndexer
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	ix := &recordingIndexer{}
	return &testEnv{
		db:      db,
		svc:     New(repository.New(db), ix, Options{PostSlugAttempts: 3}),
		indexer: ix,
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email}
	require.NoError(t, e.svc.Users.Register(context.Background(), u, "secret"))
	return u
}

func (e *testEnv) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title}
	require.NoError(t, e.svc.Categories.Create(context.Background(), c))
	return c
}

func (e *testEnv) post(t *testing.T, owner *models.User, cat *models.Category, title string, status models.PostStatus) *models.Post {
	t.Helper()
	p := &models.Post{UserID: owner.ID, CategoryID: cat.ID, Title: title, Status: status}
	require.NoError(t, e.svc.Posts.Create(context.Background(), p))
	return p
}

func (e *testEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Count(&n).Error)
	return n
}

func assertCode(t *testing.T, code string, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err), "error: %v", err)
}
