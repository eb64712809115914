package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"artlink/internal/storage"
	"artlink/internal/tasks"
)

// objectDeleter is the part of *storage.Client the purge needs.
type objectDeleter interface {
	DeleteObjects(ctx context.Context, objectKeys []string) error
}

// MediaPurgeHandler 负责消费图片清理任务。
type MediaPurgeHandler struct {
	storage objectDeleter
	logger  *slog.Logger
}

// NewMediaPurgeHandler 创建任务处理器。
func NewMediaPurgeHandler(storage objectDeleter, logger *slog.Logger) *MediaPurgeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaPurgeHandler{storage: storage, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *MediaPurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.MediaPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// 载荷损坏时重试没有意义。
		return fmt.Errorf("decode media purge payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("task_type", t.Type()),
		slog.String("reason", payload.Reason),
		slog.String("correlation_id", payload.CorrelationID),
	)

	keys := make([]string, 0, len(payload.ObjectKeys))
	for _, key := range payload.ObjectKeys {
		if !storage.IsValidImageKey(key) {
			log.Warn("skip invalid object key", slog.String("object_key", key))
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := h.storage.DeleteObjects(ctx, keys); err != nil {
		if isFinalAsynqAttempt(ctx) {
			log.Error("media purge gave up", slog.Int("objects", len(keys)), slog.Any("error", err))
		} else {
			log.Warn("media purge failed, will retry", slog.Int("objects", len(keys)), slog.Any("error", err))
		}
		return err
	}

	log.Info("media purge completed", slog.Int("objects", len(keys)))
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
