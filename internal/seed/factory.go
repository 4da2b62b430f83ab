// Package seed creates demo data. It is meant for development databases and
// tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// Options sizes a seeding run.
type Options struct {
	Users      int
	Categories int
	Posts      int
	// CommentsPerPost is the maximum number of comments a post receives.
	CommentsPerPost int
}

func (o Options) withDefaults() Options {
	if o.Users <= 0 {
		o.Users = 10
	}
	if o.Categories <= 0 {
		o.Categories = 5
	}
	if o.Posts < 0 {
		o.Posts = 0
	}
	if o.CommentsPerPost < 0 {
		o.CommentsPerPost = 0
	}
	return o
}

// Summary counts what a run created.
type Summary struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
	Likes      int
	Bookmarks  int
}

// Factory builds entities with gofakeit and stores them through the services,
// so every derived field is filled the same way as for real data.
type Factory struct {
	svc   *service.Services
	faker *gofakeit.Faker
	rng   *rand.Rand
}

func NewFactory(svc *service.Services, seed int64) *Factory {
	return &Factory{
		svc:   svc,
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// User registers a user with a fake identity. Overrides run before saving.
func (f *Factory) User(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:    fmt.Sprintf("%s.%d@%s", strings.ToLower(f.faker.FirstName()), f.faker.Number(1000, 9999), f.faker.DomainName()),
		FullName: f.faker.Name(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.svc.Users.Register(ctx, user, DemoPassword); err != nil {
		return nil, err
	}
	return user, nil
}

// Category creates a category whose title is a fake hobby plus a number, so
// titles rarely collide.
func (f *Factory) Category(ctx context.Context, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Title: fmt.Sprintf("%s %d", f.faker.Hobby(), f.faker.Number(1, 999)),
	}
	for _, override := range overrides {
		override(category)
	}
	if err := f.svc.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Post creates a post by author in category with a random status, weighted
// towards Published.
func (f *Factory) Post(ctx context.Context, author *models.User, category *models.Category, overrides ...func(*models.Post)) (*models.Post, error) {
	title := strings.TrimSuffix(f.faker.Sentence(5), ".")
	if len(title) > 100 {
		title = title[:100]
	}
	post := &models.Post{
		UserID:      author.ID,
		CategoryID:  category.ID,
		Title:       title,
		Description: f.faker.Paragraph(2, 3, 8, "\n\n"),
		Status:      f.status(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.svc.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (f *Factory) status() models.PostStatus {
	switch n := f.rng.Intn(10); {
	case n < 7:
		return models.PostStatusPublished
	case n < 9:
		return models.PostStatusDraft
	default:
		return models.PostStatusDisabled
	}
}

// Comment adds a reader comment to post, half of them answered by the author.
func (f *Factory) Comment(ctx context.Context, post *models.Post) (*models.Comment, error) {
	body := f.faker.Sentence(12)
	comment := &models.Comment{
		PostID: post.ID,
		Name:   f.faker.Name(),
		Email:  f.faker.Email(),
		Body:   &body,
	}
	if err := f.svc.Comments.Add(ctx, comment); err != nil {
		return nil, err
	}
	if f.rng.Intn(2) == 0 {
		return f.svc.Comments.Reply(ctx, comment.ID, f.faker.Sentence(6))
	}
	return comment, nil
}

// Run seeds a full demo dataset: users, categories, posts, comments, and
// likes and bookmarks from random users.
func (f *Factory) Run(ctx context.Context, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	var sum Summary

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.User(ctx)
		if err != nil {
			return sum, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, u)
		sum.Users++
	}

	categories := make([]*models.Category, 0, opts.Categories)
	for i := 0; i < opts.Categories; i++ {
		c, err := f.Category(ctx)
		if err != nil {
			return sum, fmt.Errorf("seed category %d: %w", i, err)
		}
		categories = append(categories, c)
		sum.Categories++
	}

	for i := 0; i < opts.Posts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.Post(ctx, author, categories[f.rng.Intn(len(categories))])
		if err != nil {
			return sum, fmt.Errorf("seed post %d: %w", i, err)
		}
		sum.Posts++

		if opts.CommentsPerPost > 0 {
			for n := f.rng.Intn(opts.CommentsPerPost + 1); n > 0; n-- {
				if _, err := f.Comment(ctx, post); err != nil {
					return sum, fmt.Errorf("seed comment on post %d: %w", post.ID, err)
				}
				sum.Comments++
			}
		}

		reader := users[f.rng.Intn(len(users))]
		if _, err := f.svc.Posts.ToggleLike(ctx, post.ID, reader.ID); err != nil {
			return sum, fmt.Errorf("seed like on post %d: %w", post.ID, err)
		}
		sum.Likes++
		if f.rng.Intn(3) == 0 {
			if _, err := f.svc.Bookmarks.Add(ctx, reader.ID, post.ID); err != nil {
				return sum, fmt.Errorf("seed bookmark on post %d: %w", post.ID, err)
			}
			sum.Bookmarks++
		}
	}

	observability.Logger.InfoContext(ctx, "seed finished",
		slog.Int("users", sum.Users),
		slog.Int("categories", sum.Categories),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Int("bookmarks", sum.Bookmarks),
	)
	return sum, nil
}
