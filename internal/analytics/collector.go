// Package analytics publishes query and reload events to Kafka through a
// buffered collector so the request path never blocks on the broker.
package analytics

import (
	"context"
	"log/slog"

	"github.com/civic-records/registry-search/pkg/kafka"
)

// Collector buffers events and publishes them asynchronously. When the
// buffer is full, events are dropped rather than stalling requests.
type Collector struct {
	producer *kafka.Producer
	eventCh  chan kafka.Event
	logger   *slog.Logger
	done     chan struct{}
}

func NewCollector(producer *kafka.Producer, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan kafka.Event, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		done:     make(chan struct{}),
	}
}

func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				if err := c.producer.Publish(ctx, event); err != nil {
					c.logger.Error("failed to publish analytics event", "error", err)
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// TrackQuery enqueues a query event, keyed by event type for partitioning.
func (c *Collector) TrackQuery(event QueryEvent) {
	c.track(kafka.Event{Key: string(event.Type), Value: event})
}

// TrackReload enqueues a reload event.
func (c *Collector) TrackReload(event ReloadEvent) {
	c.track(kafka.Event{Key: string(event.Type), Value: event})
}

func (c *Collector) track(event kafka.Event) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			if err := c.producer.Publish(context.Background(), event); err != nil {
				c.logger.Error("failed to publish remaining event", "error", err)
			}
		default:
			return
		}
	}
}
