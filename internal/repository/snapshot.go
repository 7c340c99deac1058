package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// Logical store keys.
const (
	KeyUsers            = "users"
	KeyCurrentUserEmail = "current-user-email"
	KeyVotedPolls       = "voted-polls"
	KeyCompletedSurveys = "completed-surveys"
	KeyForumIdeas       = "forum-ideas"
)

// loadSnapshot decodes the value at key into dst. An absent key leaves dst
// untouched; content that cannot be decoded is logged and treated as empty.
// Only backend failures are returned.
func loadSnapshot[T any](ctx context.Context, store persistence.Store, logger *zap.Logger, key string, dst *T) error {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found || raw == "" {
		return nil
	}

	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logger.Warn("discarding malformed stored content",
			zap.String("key", key),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return nil
	}
	*dst = decoded
	return nil
}

// saveSnapshot writes the full value of src to key.
func saveSnapshot[T any](ctx context.Context, store persistence.Store, logger *zap.Logger, key string, src T) error {
	encoded, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(encoded)); err != nil {
		logger.Error("snapshot write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
