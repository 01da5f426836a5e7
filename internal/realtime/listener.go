package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the consuming side of a broker.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Listener relays changes from the broker into the local hub.
type Listener struct {
	reader  MessageReader
	sink    Notifier
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewListener(reader MessageReader, sink Notifier, log logger.ZapLogger) *Listener {
	return &Listener{reader: reader, sink: sink, logger: log, backoff: time.Second}
}

// Start blocks until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("Starting change feed listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping change feed listener")
			return
		default:
		}

		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Error("Failed to read change message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *Listener) processMessage(ctx context.Context, value []byte) {
	var change Change
	if err := json.Unmarshal(value, &change); err != nil {
		l.logger.Error("Failed to unmarshal change", zap.Error(err))
		return
	}
	if change.Table == "" {
		return
	}

	if err := l.sink.Notify(ctx, change); err != nil {
		l.logger.Warn("Failed to deliver change",
			zap.String("table", string(change.Table)),
			zap.String("store_id", change.StoreID),
			zap.Error(err),
		)
	}
}
