package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"artlink/internal/storage"
)

// taskEnqueuer is the subset of *asynq.Client used here.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MediaPurger 把删除实体后遗留的图片路径转换为对象 key 并投递清理任务。
type MediaPurger struct {
	client taskEnqueuer
	logger *slog.Logger
}

func NewMediaPurger(client taskEnqueuer, logger *slog.Logger) *MediaPurger {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaPurger{client: client, logger: logger}
}

// PurgeMedia enqueues one task for all paths that point into our bucket.
// Paths served from elsewhere are skipped.
func (p *MediaPurger) PurgeMedia(ctx context.Context, reason string, paths ...string) error {
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		if key, ok := storage.KeyFromPublicPath(path); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	task, err := NewMediaPurgeTask(MediaPurgePayload{
		ObjectKeys:    keys,
		Reason:        reason,
		CorrelationID: correlationIDFromContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("build media purge task: %w", err)
	}
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue media purge: %w", err)
	}
	p.logger.InfoContext(ctx, "media purge enqueued",
		slog.String("task_id", info.ID),
		slog.String("reason", reason),
		slog.Int("objects", len(keys)),
	)
	return nil
}

type correlationKey struct{}

// WithCorrelationID 让入队的任务带上请求的 correlation id。
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
