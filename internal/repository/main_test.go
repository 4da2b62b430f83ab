package repository

import (
	"context"
	"testing"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func seedUser(t *testing.T, repos *Repositories, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, repos.Users.Create(context.Background(), user, &models.Profile{}))
	return user
}

func seedCategory(t *testing.T, repos *Repositories, title string) *models.Category {
	t.Helper()
	category := &models.Category{Title: title}
	require.NoError(t, repos.Categories.Create(context.Background(), category))
	return category
}

func seedPost(t *testing.T, repos *Repositories, owner *models.User, category *models.Category, title string, status models.PostStatus) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:     owner.ID,
		ProfileID:  owner.Profile.ID,
		CategoryID: category.ID,
		Title:      title,
		Status:     status,
	}
	require.NoError(t, repos.Posts.Create(context.Background(), post))
	return post
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
