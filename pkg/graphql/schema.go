// Package graphql exposes the read side of the analysis engine as a
// GraphQL API: reports, simulations, the dependency graph, and the mode
// catalog. Writes stay on the REST surface.
package graphql

import (
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// GenerateSchema builds the query schema over an engine.
func GenerateSchema(eng *engine.Engine) (graphql.Schema, error) {
	changeType := createChangeType()
	consequenceType := createConsequenceType()
	reportType := createCascadeReportType(changeType, consequenceType)
	summaryType := createReportSummaryType()

	simulationType := createSimulationReportType()
	simulationSummaryType := createSimulationSummaryType()

	nodeType, statsType := createGraphTypes(eng)
	modeType, industryType := createCatalogTypes()

	queryFields := graphql.Fields{
		"health": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return "ok", nil
			},
		},
		"report": &graphql.Field{
			Type: reportType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.ID),
				},
			},
			Resolve: reportResolver(eng),
		},
		"reports": &graphql.Field{
			Type: graphql.NewList(summaryType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{
					Type: graphql.Int,
				},
			},
			Resolve: reportsResolver(eng),
		},
		"simulation": &graphql.Field{
			Type: simulationType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.ID),
				},
			},
			Resolve: simulationResolver(eng),
		},
		"simulations": &graphql.Field{
			Type: graphql.NewList(simulationSummaryType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{
					Type: graphql.Int,
				},
			},
			Resolve: simulationsResolver(eng),
		},
		"graphStats": &graphql.Field{
			Type:    statsType,
			Resolve: graphStatsResolver(eng),
		},
		"node": &graphql.Field{
			Type: nodeType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.ID),
				},
			},
			Resolve: nodeResolver(eng),
		},
		"nodes": &graphql.Field{
			Type: graphql.NewList(nodeType),
			Args: graphql.FieldConfigArgument{
				"type": &graphql.ArgumentConfig{
					Type: graphql.String,
				},
			},
			Resolve: nodesResolver(eng),
		},
		"cascadeModes": &graphql.Field{
			Type: graphql.NewList(modeType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return eng.CascadeModes(), nil
			},
		},
		"simulationModes": &graphql.Field{
			Type: graphql.NewList(modeType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return eng.SimulationModes(), nil
			},
		},
		"industries": &graphql.Field{
			Type: graphql.NewList(industryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return eng.Industries(), nil
			},
		},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

// createChangeType maps the normalized change specification. Plain data
// fields resolve by name against the struct.
func createChangeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "ChangeSpecification",
		Fields: graphql.Fields{
			"type":            &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"affectedAssets":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"expectedBenefit": &graphql.Field{Type: graphql.String},
			"constraints":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})
}

func createConsequenceType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Consequence",
		Fields: graphql.Fields{
			"nodeId":      &graphql.Field{Type: graphql.String},
			"nodeName":    &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"severity":    &graphql.Field{Type: graphql.String},
			"likelihood":  &graphql.Field{Type: graphql.String},
			"riskScore":   &graphql.Field{Type: graphql.Float},
			"probability": &graphql.Field{Type: graphql.Float},
			"latencyDays": &graphql.Field{Type: graphql.Int},
			"order":       &graphql.Field{Type: graphql.Int},
			"confidence":  &graphql.Field{Type: graphql.Float},
			"path":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
		},
	})
}

func createMitigationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mitigation",
		Fields: graphql.Fields{
			"nodeId":         &graphql.Field{Type: graphql.String},
			"nodeName":       &graphql.Field{Type: graphql.String},
			"type":           &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"implementation": &graphql.Field{Type: graphql.String},
			"estimatedCost":  &graphql.Field{Type: graphql.String},
			"effectiveness":  &graphql.Field{Type: graphql.Float},
		},
	})
}

func createGuardrailType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Guardrail",
		Fields: graphql.Fields{
			"nodeId":         &graphql.Field{Type: graphql.String},
			"type":           &graphql.Field{Type: graphql.String},
			"trigger":        &graphql.Field{Type: graphql.String},
			"requiredAction": &graphql.Field{Type: graphql.String},
		},
	})
}

// createCascadeReportType maps the full analysis report. The seed is an
// int64 and overflows the GraphQL Int scalar, so it is exposed as a
// string.
func createCascadeReportType(changeType, consequenceType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "CascadeReport",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"change":         &graphql.Field{Type: changeType},
			"modeId":         &graphql.Field{Type: graphql.String},
			"industryId":     &graphql.Field{Type: graphql.String},
			"graphOrigin":    &graphql.Field{Type: graphql.String},
			"synthetic":      &graphql.Field{Type: graphql.Boolean},
			"consequences":   &graphql.Field{Type: graphql.NewList(consequenceType)},
			"aggregateRisk":  &graphql.Field{Type: graphql.Float},
			"recommendation": &graphql.Field{Type: graphql.String},
			"rationale":      &graphql.Field{Type: graphql.String},
			"butterfly":      &graphql.Field{Type: consequenceType},
			"mitigations":    &graphql.Field{Type: graphql.NewList(createMitigationType())},
			"guardrails":     &graphql.Field{Type: graphql.NewList(createGuardrailType())},
			"visitedNodes":   &graphql.Field{Type: graphql.Int},
			"truncated":      &graphql.Field{Type: graphql.Boolean},
			"truncatedBy":    &graphql.Field{Type: graphql.String},
			"seed": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(*reports.CascadeReport); ok {
						return strconv.FormatInt(r.Seed, 10), nil
					}
					return nil, nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})
}

func createReportSummaryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "ReportSummary",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":            &graphql.Field{Type: graphql.String},
			"changeType":       &graphql.Field{Type: graphql.String},
			"recommendation":   &graphql.Field{Type: graphql.String},
			"aggregateRisk":    &graphql.Field{Type: graphql.Float},
			"consequenceCount": &graphql.Field{Type: graphql.Int},
			"truncated":        &graphql.Field{Type: graphql.Boolean},
			"createdAt":        &graphql.Field{Type: graphql.DateTime},
		},
	})
}

// reportResolver fetches a single report by ID.
func reportResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		id, ok := p.Args["id"].(string)
		if !ok {
			return nil, fmt.Errorf("id argument is required")
		}
		return eng.GetReport(p.Context, id)
	}
}

// reportsResolver lists report summaries, newest first.
func reportsResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		limit, _ := p.Args["limit"].(int)
		return eng.ListReports(p.Context, limit)
	}
}

func simulationResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		id, ok := p.Args["id"].(string)
		if !ok {
			return nil, fmt.Errorf("id argument is required")
		}
		return eng.GetSimulation(p.Context, id)
	}
}

func simulationsResolver(eng *engine.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		limit, _ := p.Args["limit"].(int)
		return eng.ListSimulations(p.Context, limit)
	}
}
