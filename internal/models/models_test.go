package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ApplyDefaults(t *testing.T) {
	t.Run("derives both fields from email", func(t *testing.T) {
		u := &User{Email: "alice@example.com"}
		u.ApplyDefaults()
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "alice", u.FullName)
	})

	t.Run("keeps supplied values", func(t *testing.T) {
		u := &User{Email: "alice@example.com", Username: "al", FullName: "Alice Liddell"}
		u.ApplyDefaults()
		assert.Equal(t, "al", u.Username)
		assert.Equal(t, "Alice Liddell", u.FullName)
	})

	t.Run("repopulates cleared fields from the current email", func(t *testing.T) {
		u := &User{Email: "alice@example.com"}
		u.ApplyDefaults()
		u.Email = "bob@example.com"
		u.FullName = ""
		u.ApplyDefaults()
		assert.Equal(t, "bob", u.FullName)
		assert.Equal(t, "alice", u.Username)
	})
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "alice", EmailLocalPart("alice@example.com"))
	assert.Equal(t, "noat", EmailLocalPart("noat"))
	assert.Equal(t, "", EmailLocalPart("@example.com"))
}

func TestUser_Password(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword(""))

	require.NoError(t, u.SetPassword("s3cret"))
	assert.NotEqual(t, "s3cret", u.Password)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestProfile_ApplyDefaults(t *testing.T) {
	owner := &User{FullName: "Alice"}

	p := &Profile{}
	p.ApplyDefaults(owner)
	assert.Equal(t, "Alice", p.FullName)

	p = &Profile{FullName: "Pen Name"}
	p.ApplyDefaults(owner)
	assert.Equal(t, "Pen Name", p.FullName)

	p = &Profile{}
	p.ApplyDefaults(nil)
	assert.Empty(t, p.FullName)
}

func TestCategory_ApplyDefaults(t *testing.T) {
	c := &Category{Title: "My Category"}
	c.ApplyDefaults()
	assert.Equal(t, "my-category", c.Slug)

	c = &Category{Title: "My Category", Slug: "custom"}
	c.ApplyDefaults()
	assert.Equal(t, "custom", c.Slug)
}

func TestPost_ApplyDefaults(t *testing.T) {
	p := &Post{Title: "Hello World"}
	p.ApplyDefaults()
	assert.Equal(t, PostStatusDraft, p.Status)
	assert.True(t, strings.HasPrefix(p.Slug, "hello-world-"))
	assert.Len(t, p.Slug, len("hello-world-")+2)

	p = &Post{Title: "Hello World", Slug: "kept", Status: PostStatusPublished}
	p.ApplyDefaults()
	assert.Equal(t, "kept", p.Slug)
	assert.Equal(t, PostStatusPublished, p.Status)
}

func TestImageOrDefault(t *testing.T) {
	img := "image/posts/cover.png"
	empty := ""

	assert.Equal(t, DefaultPostImage, (&Post{}).ImageOrDefault())
	assert.Equal(t, DefaultPostImage, (&Post{Image: &empty}).ImageOrDefault())
	assert.Equal(t, img, (&Post{Image: &img}).ImageOrDefault())
	assert.Equal(t, DefaultCategoryImage, (&Category{}).ImageOrDefault())
	assert.Equal(t, DefaultUserImage, (&Profile{}).ImageOrDefault())
}

func TestPostStatus_Valid(t *testing.T) {
	for _, s := range PostStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, PostStatus("Archived").Valid())
	assert.False(t, PostStatus("").Valid())
}

func TestNotification_Label(t *testing.T) {
	n := &Notification{Type: NotificationComment}
	assert.Equal(t, "Intro to Go - Comment", n.Label("Intro to Go"))
	assert.True(t, NotificationBookmark.Valid())
	assert.False(t, NotificationType("Share").Valid())
}

func TestRelatedStrings(t *testing.T) {
	post := &Post{Title: "Intro to Go"}

	assert.Equal(t, "", (&Profile{}).String())
	assert.Equal(t, "alice", (&Profile{User: &User{Username: "alice"}}).String())
	assert.Equal(t, "", (&Comment{}).String())
	assert.Equal(t, "Intro to Go", (&Comment{Post: post}).String())
	assert.Equal(t, "Intro to Go", (&Bookmark{Post: post}).String())
	assert.Equal(t, "", (&Notification{Type: NotificationLike}).String())
	assert.Equal(t, "Intro to Go - Like", (&Notification{Post: post, Type: NotificationLike}).String())
}

func TestAppError(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := NewConflictError("User", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeConflict, ErrorCode(err))
	assert.Contains(t, err.Error(), "User already exists")
	assert.Equal(t, "", ErrorCode(cause))
	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("Post", 7)))
}
