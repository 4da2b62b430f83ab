package search

import (
	"context"
	"log/slog"

	"quill/internal/models"
	"quill/internal/observability"
)

// Refresh indexes post through ix. Failures are logged and counted, never
// returned: the store does not fail a save because of the index. A nil ix
// does nothing.
func Refresh(ctx context.Context, ix Indexer, post *models.Post) {
	if ix == nil || post == nil {
		return
	}
	if err := ix.IndexPost(ctx, post); err != nil {
		observability.SearchIndexErrors.WithLabelValues("index").Inc()
		observability.Logger.WarnContext(ctx, "search index update failed",
			slog.Uint64("post_id", uint64(post.ID)), slog.String("error", err.Error()))
	}
}

// Remove drops a post from the index, best-effort like Refresh.
func Remove(ctx context.Context, ix Indexer, id uint) {
	if ix == nil {
		return
	}
	if err := ix.RemovePost(ctx, id); err != nil {
		observability.SearchIndexErrors.WithLabelValues("remove").Inc()
		observability.Logger.WarnContext(ctx, "search index removal failed",
			slog.Uint64("post_id", uint64(id)), slog.String("error", err.Error()))
	}
}
