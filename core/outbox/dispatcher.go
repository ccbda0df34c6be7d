package outbox

import (
	"bytes"
	"context"
	"time"

	"irrigation-manager/core/broker"
	"irrigation-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher drains committed outbox events to the broker and the report
// archive. Both sinks are optional; a nil publisher or client simply skips
// that delivery leg.
type Dispatcher struct {
	db        *gorm.DB
	publisher broker.Publisher
	client    storage.Client
	bucket    string
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

// NewDispatcher creates a dispatcher polling at the given interval.
func NewDispatcher(db *gorm.DB, publisher broker.Publisher, client storage.Client, bucket string, logger *zap.Logger, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Dispatcher{
		db:        db,
		publisher: publisher,
		client:    client,
		bucket:    bucket,
		logger:    logger,
		interval:  interval,
		batchSize: 100,
	}
}

// Run polls for pending events until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.DispatchPending(ctx); err != nil {
				d.logger.Error("Outbox dispatch pass failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending delivers all currently pending events, oldest first.
// A failed event stays pending and is retried on the next pass.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	var events []Event
	err := d.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("id").
		Limit(d.batchSize).
		Find(&events).Error
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := d.deliver(ctx, &event); err != nil {
			d.logger.Warn("Event delivery failed, will retry",
				zap.String("event_id", event.EventID),
				zap.Int("attempts", event.Attempts+1),
				zap.Error(err))
			if err := d.db.WithContext(ctx).Model(&Event{}).
				Where("id = ?", event.ID).
				Update("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
				d.logger.Error("Failed to record delivery attempt",
					zap.String("event_id", event.EventID),
					zap.Error(err))
			}
			continue
		}

		now := time.Now()
		if err := d.db.WithContext(ctx).Model(&Event{}).
			Where("id = ?", event.ID).
			Updates(map[string]any{
				"dispatched_at": &now,
				"attempts":      gorm.Expr("attempts + 1"),
			}).Error; err != nil {
			return err
		}
		d.logger.Debug("Event dispatched",
			zap.String("event_id", event.EventID),
			zap.String("topic", event.Topic))
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, event *Event) error {
	payload := []byte(event.Payload)

	if d.client != nil && event.ObjectName != "" {
		_, err := d.client.PutObject(ctx, d.bucket, event.ObjectName,
			bytes.NewReader(payload), int64(len(payload)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return err
		}
	}

	if d.publisher != nil && event.Topic != "" {
		if err := d.publisher.Publish(event.Topic, payload); err != nil {
			return err
		}
	}

	return nil
}
