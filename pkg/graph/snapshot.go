package graph

import (
	"fmt"
	"sort"
	"time"
)

// Snapshot is an immutable view of the dependency graph. All reads during an
// analysis go through a single snapshot, so a concurrent reload never changes
// the graph mid-traversal.
type Snapshot struct {
	origin    string
	synthetic bool
	loadedAt  time.Time

	nodes    map[string]*Node
	outgoing map[string][]Edge
	incoming map[string][]Edge
	edges    int
}

// NewSnapshot validates nodes and edges and builds adjacency indexes.
// Edges referencing unknown endpoints are rejected rather than dropped.
func NewSnapshot(nodes []Node, edges []Edge, origin string, synthetic bool) (*Snapshot, error) {
	s := &Snapshot{
		origin:    origin,
		synthetic: synthetic,
		loadedAt:  time.Now().UTC(),
		nodes:     make(map[string]*Node, len(nodes)),
		outgoing:  make(map[string][]Edge, len(nodes)),
		incoming:  make(map[string][]Edge, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
		}
		if err := checkUnit("weight", n.Weight); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		if err := checkUnit("sensitivity", n.Sensitivity); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		if err := checkUnit("inertia", n.Inertia); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		s.nodes[n.ID] = &n
	}

	for i, e := range edges {
		if _, ok := s.nodes[e.From]; !ok {
			return nil, fmt.Errorf("edge %d (%s->%s): %w %q", i, e.From, e.To, ErrUnknownNode, e.From)
		}
		if _, ok := s.nodes[e.To]; !ok {
			return nil, fmt.Errorf("edge %d (%s->%s): %w %q", i, e.From, e.To, ErrUnknownNode, e.To)
		}
		if err := checkUnit("strength", e.Strength); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		if e.LatencyDays < 0 {
			return nil, fmt.Errorf("edge %s->%s: %w: latency_days %d", e.From, e.To, ErrOutOfRange, e.LatencyDays)
		}
		s.outgoing[e.From] = append(s.outgoing[e.From], e)
		s.incoming[e.To] = append(s.incoming[e.To], e)
		s.edges++
	}

	return s, nil
}

func checkUnit(attr string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %.3f not in [0,1]", ErrOutOfRange, attr, v)
	}
	return nil
}

// Node returns the node with the given ID, or ErrUnknownNode.
func (s *Snapshot) Node(id string) (*Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownNode, id)
	}
	return n, nil
}

// HasNode reports whether the snapshot contains the given node ID.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Outgoing returns the edges leaving the given node, in load order.
// The returned slice must not be modified.
func (s *Snapshot) Outgoing(id string) []Edge {
	return s.outgoing[id]
}

// Incoming returns the edges arriving at the given node, in load order.
// The returned slice must not be modified.
func (s *Snapshot) Incoming(id string) []Edge {
	return s.incoming[id]
}

// Nodes returns all nodes sorted by ID. Sorting keeps downstream
// traversals and reports deterministic across runs.
func (s *Snapshot) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount returns the number of nodes in the snapshot.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges in the snapshot.
func (s *Snapshot) EdgeCount() int { return s.edges }

// Origin identifies where the snapshot came from: "sample", a file path,
// or "api" for graphs posted over the wire.
func (s *Snapshot) Origin() string { return s.origin }

// Synthetic reports whether the snapshot is demonstration data rather than
// a real organizational graph. Reports built on synthetic graphs carry
// this flag through to their output.
func (s *Snapshot) Synthetic() bool { return s.synthetic }

// LoadedAt returns when the snapshot was installed.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Stats computes summary statistics over the snapshot.
func (s *Snapshot) Stats() Stats {
	dist := make(map[string]int)
	for _, n := range s.nodes {
		dist[n.Type]++
	}
	st := Stats{
		NodeCount:        len(s.nodes),
		EdgeCount:        s.edges,
		TypeDistribution: dist,
	}
	if st.NodeCount > 0 {
		st.AvgDegree = float64(st.EdgeCount) / float64(st.NodeCount)
	}
	return st
}
