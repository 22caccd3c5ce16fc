package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// Bridge forwards bus events onto the external stream. It subscribes to
// the engine's topics and converts each payload into a framed Event.
type Bridge struct {
	bus       *pubsub.Bus
	publisher *Publisher
	logger    logging.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	running   bool
	runningMu sync.Mutex
}

// NewBridge connects a bus to a publisher. Call Start to begin forwarding.
func NewBridge(bus *pubsub.Bus, publisher *Publisher, logger logging.Logger) *Bridge {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Bridge{
		bus:       bus,
		publisher: publisher,
		logger:    logger,
	}
}

// Start subscribes to the engine topics and forwards until Stop.
func (b *Bridge) Start() error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()

	if b.running {
		return fmt.Errorf("stream bridge already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	topics := []string{pubsub.TopicReports, pubsub.TopicSimulations, pubsub.TopicGraph}
	for _, topic := range topics {
		sub, err := b.bus.Subscribe(ctx, topic)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		b.wg.Add(1)
		go b.forward(sub)
	}

	b.running = true
	return nil
}

// Stop ends forwarding. Events already queued in the publisher still drain.
func (b *Bridge) Stop() {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()

	if !b.running {
		return
	}
	b.cancel()
	b.wg.Wait()
	b.running = false
}

func (b *Bridge) forward(sub *pubsub.Subscription) {
	defer b.wg.Done()

	eventType := eventTypeFor(sub.Topic())
	for msg := range sub.Channel() {
		ev := Event{
			Type:      eventType,
			ID:        eventID(msg),
			Summary:   msg,
			Timestamp: time.Now().UTC(),
		}
		if err := b.publisher.Publish(ev); err != nil {
			// Publisher stopped; nothing left to forward to.
			b.logger.Debug("stream bridge halting", logging.String("topic", sub.Topic()))
			return
		}
	}
}

func eventTypeFor(topic string) EventType {
	switch topic {
	case pubsub.TopicReports:
		return EventReportCompleted
	case pubsub.TopicSimulations:
		return EventSimulationCompleted
	case pubsub.TopicGraph:
		return EventGraphLoaded
	}
	return EventType(topic)
}

func eventID(payload any) string {
	switch v := payload.(type) {
	case reports.ReportSummary:
		return v.ID
	case reports.SimulationSummary:
		return v.ID
	}
	return ""
}
