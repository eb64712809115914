package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/domain"
)

type capturedPublish struct {
	channel string
	message []byte
}

type fakePublisher struct {
	published []capturedPublish
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	data, _ := message.([]byte)
	f.published = append(f.published, capturedPublish{channel: channel, message: data})
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func TestNotifyContractPublishesToRecipientChannel(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedisNotifier(pub)

	recipient := uuid.New()
	prev := domain.ContractSend
	event := ContractEvent{
		Type:       EventContractStatusChanged,
		ContractID: uuid.New(),
		Status:     domain.ContractRead,
		Previous:   &prev,
		ActorID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, n.NotifyContract(context.Background(), recipient, event))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "user_notify:"+recipient.String(), pub.published[0].channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.published[0].message, &decoded))
	assert.Equal(t, "Read", decoded["status"])
	assert.Equal(t, "Send", decoded["previous_status"])
	assert.Equal(t, EventContractStatusChanged, decoded["type"])
}

func TestDecodeContractEvent(t *testing.T) {
	pub := &fakePublisher{}
	event := ContractEvent{
		Type:       EventContractCreated,
		ContractID: uuid.New(),
		Status:     domain.ContractDraft,
		ActorID:    uuid.New(),
		OccurredAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewRedisNotifier(pub).NotifyContract(context.Background(), uuid.New(), event))

	got, err := DecodeContractEvent(pub.published[0].message)
	require.NoError(t, err)
	assert.Equal(t, event, got)

	for _, payload := range []string{
		`not json`,
		`{"type":"resume.updated","contract_id":"` + uuid.NewString() + `","status":"Draft"}`,
		`{"type":"contract.created","status":"Draft"}`,
		`{"type":"contract.created","contract_id":"` + uuid.NewString() + `","status":"Pending"}`,
	} {
		_, err := DecodeContractEvent([]byte(payload))
		assert.Error(t, err, payload)
	}
}
