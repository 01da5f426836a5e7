package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	key   string
	value []byte
}

// loopback is an in-memory broker: Publish feeds ReadMessage.
type loopback struct {
	ch chan message

	mu       sync.Mutex
	failures int
}

func newLoopback() *loopback { return &loopback{ch: make(chan message, 16)} }

func (b *loopback) Publish(_ context.Context, key string, value []byte) error {
	b.ch <- message{key: key, value: value}
	return nil
}

func (b *loopback) ReadMessage(ctx context.Context) (kafka.Message, error) {
	b.mu.Lock()
	if b.failures > 0 {
		b.failures--
		b.mu.Unlock()
		return kafka.Message{}, errors.New("leader not available")
	}
	b.mu.Unlock()

	select {
	case m := <-b.ch:
		return kafka.Message{Key: []byte(m.key), Value: m.value}, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func TestKafkaNotifierEncodesChange(t *testing.T) {
	b := newLoopback()
	n := NewKafkaNotifier(b)

	require.NoError(t, n.Notify(context.Background(), Change{
		Table: TableOrderItems, StoreID: "s1", EAN: "7300156486101", Action: ActionPicked,
	}))

	m := <-b.ch
	assert.Equal(t, "order_items:s1", m.key)
	var got Change
	require.NoError(t, json.Unmarshal(m.value, &got))
	assert.Equal(t, ActionPicked, got.Action)
	assert.Equal(t, "7300156486101", got.EAN)
	assert.False(t, got.At.IsZero())
}

func TestListenerRelaysIntoHub(t *testing.T) {
	b := newLoopback()
	b.failures = 1
	hub := NewHub()
	sub, cancelSub := hub.Subscribe("s1")
	defer cancelSub()

	l := NewListener(b, hub, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	b.ch <- message{value: []byte("not json")}
	n := NewKafkaNotifier(b)
	require.NoError(t, n.Notify(ctx, Change{Table: TableOrderItems, StoreID: "other", Action: ActionUpsert}))
	require.NoError(t, n.Notify(ctx, Change{Table: TableOrderItems, StoreID: "s1", Action: ActionClear}))

	select {
	case got := <-sub:
		assert.Equal(t, ActionClear, got.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("change was not relayed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}
