// Package search keeps the Meilisearch index of published posts.
package search

import (
	"context"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"quill/internal/models"
	"quill/internal/observability"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// PostsIndex is the Meilisearch index holding post documents.
const PostsIndex = "posts"

// Indexer mirrors posts into the search engine.
type Indexer interface {
	// IndexPost adds or refreshes a published post and removes any other.
	IndexPost(ctx context.Context, post *models.Post) error
	RemovePost(ctx context.Context, id uint) error
}

type postDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
	CategoryID  uint   `json:"category_id"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Views       int    `json:"views"`
	Date        int64  `json:"date"`
}

type meiliIndexer struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewMeiliIndexer connects to host. An empty host returns a nil Indexer,
// which callers treat as search being disabled.
func NewMeiliIndexer(host, apiKey string) Indexer {
	if host == "" {
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host
	}
	return NewIndexer(meilisearch.New(host, meilisearch.WithAPIKey(apiKey)))
}

// NewIndexer wraps an existing client and applies the index settings.
func NewIndexer(client meilisearch.ServiceManager) Indexer {
	ix := &meiliIndexer{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	ix.initIndex()
	return ix
}

func (ix *meiliIndexer) initIndex() {
	logger := observability.Logger
	filterable := []any{"category_id", "status"}
	if _, err := ix.client.Index(PostsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.Warn("Failed to update posts filterable attributes", slog.String("error", err.Error()))
	}
	sortable := []string{"date", "views"}
	if _, err := ix.client.Index(PostsIndex).UpdateSortableAttributes(&sortable); err != nil {
		logger.Warn("Failed to update posts sortable attributes", slog.String("error", err.Error()))
	}
}

// CleanText strips markup from s and collapses whitespace.
func (ix *meiliIndexer) CleanText(s string) string {
	return cleanText(ix.sanitizer, s)
}

func cleanText(p *bluemonday.Policy, s string) string {
	for _, tag := range []string{"</p>", "<br>", "<br/>", "</div>", "</li>"} {
		s = strings.ReplaceAll(s, tag, tag+" ")
	}
	s = html.UnescapeString(p.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func (ix *meiliIndexer) IndexPost(ctx context.Context, post *models.Post) error {
	if post.Status != models.PostStatusPublished {
		return ix.RemovePost(ctx, post.ID)
	}

	doc := postDoc{
		ID:          strconv.FormatUint(uint64(post.ID), 10),
		Title:       post.Title,
		Description: ix.CleanText(post.Description),
		Slug:        post.Slug,
		Status:      string(post.Status),
		CategoryID:  post.CategoryID,
		Views:       post.Views,
		Date:        post.CreatedAt.Unix(),
	}
	if post.Category != nil {
		doc.Category = post.Category.Title
	}
	if post.Profile != nil {
		doc.Author = post.Profile.FullName
	} else if post.User != nil {
		doc.Author = post.User.FullName
	}

	task, err := ix.client.Index(PostsIndex).AddDocuments([]postDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	observability.Logger.DebugContext(ctx, "Indexed post",
		slog.Uint64("post_id", uint64(post.ID)), slog.Any("task_uid", task.TaskUID))
	return nil
}

func (ix *meiliIndexer) RemovePost(ctx context.Context, id uint) error {
	_, err := ix.client.Index(PostsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

func strPtr(s string) *string {
	return &s
}
