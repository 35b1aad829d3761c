package cache

import (
	"context"
	"log/slog"
)

// Keys shared between repositories
const (
	TallyKey       = "resultados"
	OpinionListKey = "list:*"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateVoteCache drops the cached tally after any vote write
func InvalidateVoteCache(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Stats, TallyKey)
}

// InvalidateOpinionCache drops every cached opinion listing
func InvalidateOpinionCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Opinions, OpinionListKey)
}
