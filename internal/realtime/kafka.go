package realtime

import (
	"context"
	"encoding/json"
	"time"
)

// Publisher is the producing side of a broker.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaNotifier publishes changes to the broker so every instance's Listener
// can fan them out to its own subscribers.
type KafkaNotifier struct {
	publisher Publisher
}

func NewKafkaNotifier(p Publisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: p}
}

func (n *KafkaNotifier) Notify(ctx context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	value, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, string(change.Table)+":"+change.StoreID, value)
}
