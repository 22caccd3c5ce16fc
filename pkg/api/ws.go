package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
)

const (
	// wsWriteWait bounds each outbound write.
	wsWriteWait = 10 * time.Second
	// wsPongWait is how long a silent client is kept before the
	// connection is considered dead.
	wsPongWait = 60 * time.Second
	// wsPingPeriod must be shorter than wsPongWait so pongs arrive in time.
	wsPingPeriod = (wsPongWait * 9) / 10
	// wsReadLimit caps inbound frames; clients only send control frames.
	wsReadLimit = 512
	// wsEventBuffer absorbs bursts between the bus and the socket writer.
	wsEventBuffer = 64
)

// WSEvent is one message pushed to websocket subscribers.
type WSEvent struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// handleWebSocket upgrades the connection and streams engine events to the
// client until either side closes. The optional ?topics= parameter selects
// a comma-separated subset of topics; the default is all of them.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		s.respondError(w, http.StatusServiceUnavailable, "event feed not enabled")
		return
	}

	topics := parseTopics(r.URL.Query().Get("topics"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		s.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan WSEvent, wsEventBuffer)
	for _, topic := range topics {
		sub, err := s.bus.Subscribe(ctx, topic)
		if err != nil {
			s.logger.Warn("websocket subscribe failed",
				logging.String("topic", topic), logging.Error(err))
			return
		}
		go forwardEvents(ctx, sub, events)
	}

	// The read side only exists to notice the client going away and to
	// refresh the read deadline on pongs.
	go func() {
		defer cancel()
		conn.SetReadLimit(wsReadLimit)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.writeEvents(ctx, conn, events)
}

// forwardEvents copies one subscription onto the shared event channel
// until the subscription or the connection ends.
func forwardEvents(ctx context.Context, sub *pubsub.Subscription, events chan<- WSEvent) {
	for msg := range sub.Channel() {
		select {
		case events <- WSEvent{Topic: sub.Topic(), Payload: msg}:
		case <-ctx.Done():
			return
		}
	}
}

// writeEvents is the single writer on the connection. It drains the event
// channel and keeps the client alive with periodic pings.
func (s *Server) writeEvents(ctx context.Context, conn *websocket.Conn, events <-chan WSEvent) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case evt := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseTopics splits the ?topics= parameter, falling back to every topic
// when it is empty or unusable.
func parseTopics(raw string) []string {
	all := []string{pubsub.TopicReports, pubsub.TopicSimulations, pubsub.TopicGraph}
	if raw == "" {
		return all
	}

	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return all
	}
	return topics
}
