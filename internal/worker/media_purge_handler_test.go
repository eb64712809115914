package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/tasks"
)

type fakeDeleter struct {
	deleted [][]string
	err     error
}

func (f *fakeDeleter) DeleteObjects(_ context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys)
	return f.err
}

func TestMediaPurgeDeletesValidKeys(t *testing.T) {
	deleter := &fakeDeleter{}
	h := NewMediaPurgeHandler(deleter, nil)

	task, err := tasks.NewMediaPurgeTask(tasks.MediaPurgePayload{
		ObjectKeys: []string{"images/artworks/a.png", "../../etc/passwd", "images/profiles/b.webp"},
		Reason:     "artist deleted",
	})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, deleter.deleted, 1)
	assert.Equal(t, []string{"images/artworks/a.png", "images/profiles/b.webp"}, deleter.deleted[0])
}

func TestMediaPurgeSkipsRetryOnBadPayload(t *testing.T) {
	h := NewMediaPurgeHandler(&fakeDeleter{}, nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeMediaPurge, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestMediaPurgeReturnsStorageErrorForRetry(t *testing.T) {
	deleter := &fakeDeleter{err: errors.New("minio down")}
	h := NewMediaPurgeHandler(deleter, nil)

	task, err := tasks.NewMediaPurgeTask(tasks.MediaPurgePayload{ObjectKeys: []string{"images/artworks/a.png"}})
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), task)
	require.EqualError(t, err, "minio down")
}
