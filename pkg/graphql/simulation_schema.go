package graphql

import (
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/cascadelab/ripplegraph/pkg/reports"
)

func createOutcomeMetricType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "OutcomeMetric",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"baseline":   &graphql.Field{Type: graphql.Float},
			"projected":  &graphql.Field{Type: graphql.Float},
			"delta":      &graphql.Field{Type: graphql.Float},
			"confidence": &graphql.Field{Type: graphql.Float},
			"trend":      &graphql.Field{Type: graphql.String},
		},
	})
}

func createRiskProfileType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RiskProfile",
		Fields: graphql.Fields{
			"band":  &graphql.Field{Type: graphql.String},
			"score": &graphql.Field{Type: graphql.Float},
		},
	})
}

func createTimelineEventType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "TimelineEvent",
		Fields: graphql.Fields{
			"dayOffset":   &graphql.Field{Type: graphql.Int},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"impact":      &graphql.Field{Type: graphql.String},
			"confidence":  &graphql.Field{Type: graphql.Float},
		},
	})
}

func createUniverseType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Universe",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":          &graphql.Field{Type: graphql.String},
			"posture":       &graphql.Field{Type: graphql.String},
			"decision":      &graphql.Field{Type: graphql.String},
			"probability":   &graphql.Field{Type: graphql.Float},
			"metrics":       &graphql.Field{Type: graphql.NewList(createOutcomeMetricType())},
			"riskProfile":   &graphql.Field{Type: createRiskProfileType()},
			"reversibility": &graphql.Field{Type: graphql.Float},
			"timeline":      &graphql.Field{Type: graphql.NewList(createTimelineEventType())},
			"overallScore":  &graphql.Field{Type: graphql.Float},
		},
	})
}

func createAnalogueType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Analogue",
		Fields: graphql.Fields{
			"case":      &graphql.Field{Type: graphql.String},
			"decision":  &graphql.Field{Type: graphql.String},
			"outcome":   &graphql.Field{Type: graphql.String},
			"relevance": &graphql.Field{Type: graphql.Float},
		},
	})
}

func createSimulationRecommendationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "SimulationRecommendation",
		Fields: graphql.Fields{
			"universeId": &graphql.Field{Type: graphql.String},
			"confidence": &graphql.Field{Type: graphql.Float},
			"rationale":  &graphql.Field{Type: graphql.String},
			"keyFactors": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"warnings":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})
}

// createSimulationReportType maps the persisted simulation. The simulation
// body is an embedded struct, which reflection-based field resolution does
// not see through, so its fields get explicit resolvers.
func createSimulationReportType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "SimulationReport",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"modeId":     &graphql.Field{Type: graphql.String},
			"industryId": &graphql.Field{Type: graphql.String},
			"synthetic":  &graphql.Field{Type: graphql.Boolean},
			"seed": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return strconv.FormatInt(s.Seed, 10), nil
					}
					return nil, nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"question": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return s.Question, nil
					}
					return nil, nil
				},
			},
			"horizonDays": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return s.HorizonDays, nil
					}
					return nil, nil
				},
			},
			"universes": &graphql.Field{
				Type: graphql.NewList(createUniverseType()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return s.Universes, nil
					}
					return nil, nil
				},
			},
			"analogues": &graphql.Field{
				Type: graphql.NewList(createAnalogueType()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return s.Analogues, nil
					}
					return nil, nil
				},
			},
			"recommendation": &graphql.Field{
				Type: createSimulationRecommendationType(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(*reports.SimulationReport); ok {
						return s.Recommendation, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func createSimulationSummaryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "SimulationSummary",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"question":            &graphql.Field{Type: graphql.String},
			"universeCount":       &graphql.Field{Type: graphql.Int},
			"recommendedUniverse": &graphql.Field{Type: graphql.String},
			"confidence":          &graphql.Field{Type: graphql.Float},
			"createdAt":           &graphql.Field{Type: graphql.DateTime},
		},
	})
}
