package graph

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestStoreUnavailable(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.Current(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestStoreLoadSample(t *testing.T) {
	store := NewStore(nil)
	snap, err := store.LoadSample()
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if !snap.Synthetic() {
		t.Error("sample snapshot must be flagged synthetic")
	}
	if snap.Origin() != "sample" {
		t.Errorf("expected origin sample, got %q", snap.Origin())
	}
	if snap.NodeCount() < 20 {
		t.Errorf("sample graph too small: %d nodes", snap.NodeCount())
	}

	current, err := store.Current()
	if err != nil {
		t.Fatalf("Current failed after load: %v", err)
	}
	if current != snap {
		t.Error("Current did not return the installed snapshot")
	}
}

func TestSampleGraphConnected(t *testing.T) {
	store := NewStore(nil)
	snap, err := store.LoadSample()
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	// Every node should participate in at least one edge.
	for _, n := range snap.Nodes() {
		if len(snap.Outgoing(n.ID)) == 0 && len(snap.Incoming(n.ID)) == 0 {
			t.Errorf("node %s is isolated", n.ID)
		}
	}
}

func TestStoreLoadFile(t *testing.T) {
	f := File{
		Name: "mini",
		Nodes: []Node{
			{ID: "x", Type: "team", Name: "X", Weight: 0.5, Sensitivity: 0.5, Inertia: 0.5},
			{ID: "y", Type: "metric", Name: "Y", Weight: 0.5, Sensitivity: 0.5, Inertia: 0.5},
		},
		Edges: []Edge{
			{From: "x", To: "y", Relation: "feeds", Strength: 0.5, LatencyDays: 1},
		},
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := NewStore(nil)
	snap, err := store.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if snap.Synthetic() {
		t.Error("file-loaded graph should not be synthetic")
	}
	if snap.Origin() != path {
		t.Errorf("expected origin %q, got %q", path, snap.Origin())
	}
	if snap.NodeCount() != 2 || snap.EdgeCount() != 1 {
		t.Errorf("unexpected graph size: %d nodes, %d edges", snap.NodeCount(), snap.EdgeCount())
	}
}

func TestStoreLoadFileErrors(t *testing.T) {
	store := NewStore(nil)

	if _, err := store.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := store.LoadFile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	// A failed load must not clobber the previous snapshot.
	if _, err := store.LoadSample(); err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if _, err := store.LoadFile(bad); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	snap, err := store.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if snap.Origin() != "sample" {
		t.Errorf("failed load replaced snapshot: origin %q", snap.Origin())
	}
}

func TestStoreConcurrentSwap(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.LoadSample(); err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap, err := store.Current()
				if err != nil {
					t.Errorf("Current failed: %v", err)
					return
				}
				// A snapshot taken once stays internally consistent even
				// while reloads happen.
				if snap.NodeCount() == 0 {
					t.Error("empty snapshot observed")
					return
				}
				_ = snap.Stats()
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := store.LoadSample(); err != nil {
					t.Errorf("LoadSample failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
