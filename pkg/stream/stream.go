// Package stream pushes completed-analysis events to external subscribers
// over a PUB socket. The engine never blocks on the stream: events queue
// into a bounded buffer and are dropped, with a warning, when it fills.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// EventType labels a stream event.
type EventType string

const (
	// EventReportCompleted fires after a cascade report persists.
	EventReportCompleted EventType = "report_completed"
	// EventSimulationCompleted fires after a simulation persists.
	EventSimulationCompleted EventType = "simulation_completed"
	// EventGraphLoaded fires after a graph snapshot installs.
	EventGraphLoaded EventType = "graph_loaded"
)

// Event is the wire payload. Summary carries the listing row of whatever
// completed; subscribers needing the full report fetch it over the API.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Summary   any       `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// topicPrefix maps an event type to its SUB-filterable frame prefix.
func topicPrefix(t EventType) []byte {
	switch t {
	case EventReportCompleted:
		return []byte("REPORT:")
	case EventSimulationCompleted:
		return []byte("SIMULATION:")
	case EventGraphLoaded:
		return []byte("GRAPH:")
	}
	return []byte("EVENT:")
}

// ErrPublisherStopped is returned by Publish after Stop.
var ErrPublisherStopped = errors.New("stream publisher stopped")

// PubSocket abstracts the underlying PUB transport so the publisher can
// run over NNG, ZeroMQ, or a test double.
type PubSocket interface {
	Listen(addr string) error
	Send(data []byte) error
	Close() error
}

// Config configures a stream publisher.
type Config struct {
	Address    string `yaml:"address" json:"address"`
	BufferSize int    `yaml:"buffer_size" json:"buffer_size"`
}

// Publisher fans events out on a PUB socket. Single responsibility:
// frame and send; event selection happens in the Bridge.
type Publisher struct {
	socket    PubSocket
	addr      string
	stream    chan Event
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex
	logger    logging.Logger
}

// NewPublisher wraps a socket in a buffered publisher. Callers normally
// use NewNNGPublisher or NewZMQPublisher instead.
func NewPublisher(socket PubSocket, cfg Config, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = 1000
	}

	return &Publisher{
		socket: socket,
		addr:   cfg.Address,
		stream: make(chan Event, bufSize),
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

// Start binds the socket and begins draining the event buffer.
func (p *Publisher) Start() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if p.running {
		return fmt.Errorf("stream publisher already running")
	}

	if err := p.socket.Listen(p.addr); err != nil {
		return fmt.Errorf("failed to bind PUB socket to %s: %w", p.addr, err)
	}

	p.running = true
	p.wg.Add(1)
	go p.publishLoop()

	p.logger.Info("stream publisher started", logging.String("addr", p.addr))
	return nil
}

// Stop drains nothing further and closes the socket.
func (p *Publisher) Stop() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if !p.running {
		return nil
	}

	close(p.stopCh)
	p.running = false
	p.wg.Wait()

	if err := p.socket.Close(); err != nil {
		p.logger.Warn("failed to close stream socket", logging.Error(err))
	}

	p.logger.Info("stream publisher stopped")
	return nil
}

// Running reports whether the publish loop is active.
func (p *Publisher) Running() bool {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()
	return p.running
}

// Publish queues an event. A full buffer drops the event rather than
// blocking the caller.
func (p *Publisher) Publish(ev Event) error {
	select {
	case <-p.stopCh:
		return ErrPublisherStopped
	default:
	}

	select {
	case p.stream <- ev:
		return nil
	case <-p.stopCh:
		return ErrPublisherStopped
	default:
		p.logger.Warn("stream event dropped, buffer full",
			logging.String("type", string(ev.Type)),
			logging.String("id", ev.ID))
		return nil
	}
}

func (p *Publisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case ev := <-p.stream:
			data, err := json.Marshal(ev)
			if err != nil {
				p.logger.Error("failed to marshal stream event", logging.Error(err))
				continue
			}

			// Prepend topic for SUB-side filtering.
			msg := append(topicPrefix(ev.Type), data...)
			if err := p.socket.Send(msg); err != nil {
				p.logger.Warn("failed to publish stream event",
					logging.String("type", string(ev.Type)),
					logging.Error(err))
			}
		}
	}
}
