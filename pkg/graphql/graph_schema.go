package graphql

import (
	"encoding/json"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/graph"
)

// neighbor is the resolved end of one dependency edge, carrying the edge
// attributes alongside the node it leads to.
type neighbor struct {
	Relation    string
	Strength    float64
	LatencyDays int
	Node        graph.Node
}

// createGraphTypes builds the GraphNode, GraphEdge, and GraphStats types.
// GraphNode and GraphEdge reference each other, so the traversal fields
// are attached after both objects exist.
func createGraphTypes(eng *engine.Engine) (*graphql.Object, *graphql.Object) {
	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GraphNode",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"type":        &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"weight":      &graphql.Field{Type: graphql.Float},
			"sensitivity": &graphql.Field{Type: graphql.Float},
			"inertia":     &graphql.Field{Type: graphql.Float},
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GraphEdge",
		Fields: graphql.Fields{
			"relation":    &graphql.Field{Type: graphql.String},
			"strength":    &graphql.Field{Type: graphql.Float},
			"latencyDays": &graphql.Field{Type: graphql.Int},
			"node":        &graphql.Field{Type: nodeType},
		},
	})

	nodeType.AddFieldConfig("downstream", &graphql.Field{
		Type:    graphql.NewList(edgeType),
		Resolve: downstreamResolver(eng),
	})
	nodeType.AddFieldConfig("upstream", &graphql.Field{
		Type:    graphql.NewList(edgeType),
		Resolve: upstreamResolver(eng),
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GraphStats",
		Fields: graphql.Fields{
			"nodeCount": &graphql.Field{Type: graphql.Int},
			"edgeCount": &graphql.Field{Type: graphql.Int},
			"avgDegree": &graphql.Field{Type: graphql.Float},
			// Node counts per type, serialized as a JSON object.
			"typeDistribution": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					stats, ok := p.Source.(graph.Stats)
					if !ok {
						return nil, nil
					}
					data, err := json.Marshal(stats.TypeDistribution)
					if err != nil {
						return nil, err
					}
					return string(data), nil
				},
			},
		},
	})

	return nodeType, statsType
}

// downstreamResolver walks outgoing edges: the nodes a change to this
// node cascades into.
func downstreamResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		node, ok := p.Source.(graph.Node)
		if !ok {
			return nil, nil
		}
		snap, err := eng.GraphSnapshot()
		if err != nil {
			return nil, err
		}
		edges := snap.Outgoing(node.ID)
		out := make([]neighbor, 0, len(edges))
		for _, e := range edges {
			target, err := snap.Node(e.To)
			if err != nil {
				continue
			}
			out = append(out, neighbor{
				Relation:    e.Relation,
				Strength:    e.Strength,
				LatencyDays: e.LatencyDays,
				Node:        *target,
			})
		}
		return out, nil
	}
}

// upstreamResolver walks incoming edges: the nodes whose changes reach
// this node.
func upstreamResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		node, ok := p.Source.(graph.Node)
		if !ok {
			return nil, nil
		}
		snap, err := eng.GraphSnapshot()
		if err != nil {
			return nil, err
		}
		edges := snap.Incoming(node.ID)
		out := make([]neighbor, 0, len(edges))
		for _, e := range edges {
			source, err := snap.Node(e.From)
			if err != nil {
				continue
			}
			out = append(out, neighbor{
				Relation:    e.Relation,
				Strength:    e.Strength,
				LatencyDays: e.LatencyDays,
				Node:        *source,
			})
		}
		return out, nil
	}
}

func graphStatsResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		return eng.GraphStats()
	}
}

// nodeResolver fetches a single graph node by ID. The value is returned
// dereferenced so every node source in the schema is a plain struct.
func nodeResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		id, ok := p.Args["id"].(string)
		if !ok {
			return nil, fmt.Errorf("id argument is required")
		}
		snap, err := eng.GraphSnapshot()
		if err != nil {
			return nil, err
		}
		node, err := snap.Node(id)
		if err != nil {
			return nil, err
		}
		return *node, nil
	}
}

// nodesResolver lists graph nodes, optionally filtered by type.
func nodesResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		nodes, err := eng.ListGraphNodes()
		if err != nil {
			return nil, err
		}
		typeFilter, _ := p.Args["type"].(string)
		if typeFilter == "" {
			return nodes, nil
		}
		filtered := make([]graph.Node, 0, len(nodes))
		for _, n := range nodes {
			if n.Type == typeFilter {
				filtered = append(filtered, n)
			}
		}
		return filtered, nil
	}
}
