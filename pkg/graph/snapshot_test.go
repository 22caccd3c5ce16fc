package graph

import (
	"errors"
	"sort"
	"testing"
)

func testNodes() []Node {
	return []Node{
		{ID: "a", Type: "team", Name: "Team A", Weight: 0.8, Sensitivity: 0.6, Inertia: 0.4},
		{ID: "b", Type: "system", Name: "System B", Weight: 0.9, Sensitivity: 0.7, Inertia: 0.5},
		{ID: "c", Type: "metric", Name: "Metric C", Weight: 0.7, Sensitivity: 0.8, Inertia: 0.2},
	}
}

func testEdges() []Edge {
	return []Edge{
		{From: "a", To: "b", Relation: "operates", Strength: 0.8, LatencyDays: 2},
		{From: "b", To: "c", Relation: "feeds", Strength: 0.9, LatencyDays: 1},
		{From: "a", To: "c", Relation: "supports", Strength: 0.5, LatencyDays: 7},
	}
}

func TestNewSnapshot(t *testing.T) {
	snap, err := NewSnapshot(testNodes(), testEdges(), "test", false)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	if snap.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", snap.NodeCount())
	}
	if snap.EdgeCount() != 3 {
		t.Errorf("expected 3 edges, got %d", snap.EdgeCount())
	}
	if snap.Synthetic() {
		t.Error("snapshot should not be synthetic")
	}
	if snap.Origin() != "test" {
		t.Errorf("expected origin test, got %q", snap.Origin())
	}
}

func TestSnapshotValidation(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		edges   []Edge
		wantErr error
	}{
		{
			name:    "empty node id",
			nodes:   []Node{{ID: "", Type: "team"}},
			wantErr: ErrEmptyNodeID,
		},
		{
			name: "duplicate node id",
			nodes: []Node{
				{ID: "a", Type: "team"},
				{ID: "a", Type: "system"},
			},
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "weight above one",
			nodes:   []Node{{ID: "a", Type: "team", Weight: 1.5}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative sensitivity",
			nodes:   []Node{{ID: "a", Type: "team", Sensitivity: -0.1}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "edge to unknown node",
			nodes:   []Node{{ID: "a", Type: "team"}},
			edges:   []Edge{{From: "a", To: "ghost", Relation: "feeds", Strength: 0.5}},
			wantErr: ErrUnknownNode,
		},
		{
			name:    "edge from unknown node",
			nodes:   []Node{{ID: "a", Type: "team"}},
			edges:   []Edge{{From: "ghost", To: "a", Relation: "feeds", Strength: 0.5}},
			wantErr: ErrUnknownNode,
		},
		{
			name:  "edge strength above one",
			nodes: []Node{{ID: "a", Type: "team"}, {ID: "b", Type: "team"}},
			edges: []Edge{{From: "a", To: "b", Relation: "feeds", Strength: 1.2}},

			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative latency",
			nodes:   []Node{{ID: "a", Type: "team"}, {ID: "b", Type: "team"}},
			edges:   []Edge{{From: "a", To: "b", Relation: "feeds", Strength: 0.5, LatencyDays: -1}},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.nodes, tt.edges, "test", false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSnapshotLookups(t *testing.T) {
	snap, err := NewSnapshot(testNodes(), testEdges(), "test", false)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	n, err := snap.Node("b")
	if err != nil {
		t.Fatalf("Node(b) failed: %v", err)
	}
	if n.Name != "System B" {
		t.Errorf("expected System B, got %q", n.Name)
	}

	if _, err := snap.Node("ghost"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}

	out := snap.Outgoing("a")
	if len(out) != 2 {
		t.Fatalf("expected 2 outgoing edges from a, got %d", len(out))
	}
	if out[0].To != "b" || out[1].To != "c" {
		t.Errorf("outgoing edges not in load order: %v", out)
	}

	in := snap.Incoming("c")
	if len(in) != 2 {
		t.Errorf("expected 2 incoming edges at c, got %d", len(in))
	}

	if snap.Outgoing("c") != nil {
		t.Errorf("expected no outgoing edges from c")
	}
}

func TestSnapshotNodesSorted(t *testing.T) {
	snap, err := NewSnapshot(testNodes(), nil, "test", false)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	nodes := snap.Nodes()
	if !sort.SliceIsSorted(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID }) {
		t.Error("Nodes() not sorted by ID")
	}
}

func TestSnapshotStats(t *testing.T) {
	snap, err := NewSnapshot(testNodes(), testEdges(), "test", false)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	st := snap.Stats()
	if st.NodeCount != 3 || st.EdgeCount != 3 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.AvgDegree != 1.0 {
		t.Errorf("expected avg degree 1.0, got %f", st.AvgDegree)
	}
	if st.TypeDistribution["team"] != 1 || st.TypeDistribution["system"] != 1 || st.TypeDistribution["metric"] != 1 {
		t.Errorf("unexpected type distribution: %v", st.TypeDistribution)
	}
}
