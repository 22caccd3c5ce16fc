package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
)

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", url, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForSubscriber blocks until the websocket handler has registered on
// the topic, so events published afterwards cannot be missed.
func waitForSubscriber(t *testing.T, bus *pubsub.Bus, topic string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bus.SubscriberCount(topic) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("No subscriber appeared on topic %s", topic)
}

func readEvent(t *testing.T, conn *websocket.Conn) WSEvent {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt WSEvent
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("Failed to read websocket event: %v", err)
	}
	return evt
}

func TestWebSocketReceivesReportEvents(t *testing.T) {
	server := setupTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "/ws?topics=reports")
	waitForSubscriber(t, server.bus, pubsub.TopicReports)

	if _, err := server.engine.AnalyzeChange(context.Background(), testAnalysisRequest()); err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}

	evt := readEvent(t, conn)
	if evt.Topic != pubsub.TopicReports {
		t.Errorf("Expected topic %s, got %s", pubsub.TopicReports, evt.Topic)
	}
	payload, ok := evt.Payload.(map[string]any)
	if !ok {
		t.Fatalf("Expected object payload, got %T", evt.Payload)
	}
	if payload["id"] == nil || payload["id"] == "" {
		t.Error("Expected a report ID in the event payload")
	}
}

func TestWebSocketGraphTopic(t *testing.T) {
	server := setupTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "/ws?topics=graph")
	waitForSubscriber(t, server.bus, pubsub.TopicGraph)

	if _, err := server.engine.LoadSampleGraph(); err != nil {
		t.Fatalf("Sample load failed: %v", err)
	}

	evt := readEvent(t, conn)
	if evt.Topic != pubsub.TopicGraph {
		t.Errorf("Expected topic %s, got %s", pubsub.TopicGraph, evt.Topic)
	}
	payload, ok := evt.Payload.(map[string]any)
	if !ok {
		t.Fatalf("Expected object payload, got %T", evt.Payload)
	}
	if count, _ := payload["node_count"].(float64); count <= 0 {
		t.Errorf("Expected node_count in graph event, got %v", payload["node_count"])
	}
}

func TestWebSocketDefaultSubscribesAllTopics(t *testing.T) {
	server := setupTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "/ws")
	waitForSubscriber(t, server.bus, pubsub.TopicReports)
	waitForSubscriber(t, server.bus, pubsub.TopicSimulations)
	waitForSubscriber(t, server.bus, pubsub.TopicGraph)

	req := &engine.SimulationRequest{Question: "Should we sunset the legacy tier?", Seed: 9}
	if _, err := server.engine.Simulate(context.Background(), req); err != nil {
		t.Fatalf("Simulation failed: %v", err)
	}

	evt := readEvent(t, conn)
	if evt.Topic != pubsub.TopicSimulations {
		t.Errorf("Expected topic %s, got %s", pubsub.TopicSimulations, evt.Topic)
	}
}

func TestWebSocketWithoutBus(t *testing.T) {
	server := setupTestServer(t)
	server.bus = nil

	rr := doJSON(t, server, http.MethodGet, "/ws", nil, nil)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d without a bus, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty selects all", input: "", expected: 3},
		{name: "single topic", input: "reports", expected: 1},
		{name: "two topics with spaces", input: " reports , graph ", expected: 2},
		{name: "only separators selects all", input: ",,", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics := parseTopics(tt.input)
			if len(topics) != tt.expected {
				t.Errorf("Expected %d topics, got %d: %v", tt.expected, len(topics), topics)
			}
		})
	}
}
