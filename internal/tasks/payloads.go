package tasks

import (
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeMediaPurge = "media:purge"
)

// MediaPurgePayload 列出需要从对象存储删除的图片 key。
type MediaPurgePayload struct {
	ObjectKeys    []string `json:"object_keys"`
	Reason        string   `json:"reason"`
	CorrelationID string   `json:"correlation_id,omitempty"`
}

// NewMediaPurgeTask 构造一个图片清理任务。
func NewMediaPurgeTask(payload MediaPurgePayload) (*asynq.Task, error) {
	if len(payload.ObjectKeys) == 0 {
		return nil, errors.New("media purge task needs at least one object key")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMediaPurge, data, asynq.MaxRetry(5)), nil
}
