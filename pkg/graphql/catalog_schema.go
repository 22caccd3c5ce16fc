package graphql

import (
	"github.com/graphql-go/graphql"
)

// createCatalogTypes builds the AnalysisMode and IndustryBenchmark types
// for the mode catalog queries.
func createCatalogTypes() (*graphql.Object, *graphql.Object) {
	modifiersType := graphql.NewObject(graphql.ObjectConfig{
		Name: "IndustryModifiers",
		Fields: graphql.Fields{
			"riskMultiplier":       &graphql.Field{Type: graphql.Float},
			"confidenceMultiplier": &graphql.Field{Type: graphql.Float},
		},
	})

	modeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AnalysisMode",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"label":                &graphql.Field{Type: graphql.String},
			"description":          &graphql.Field{Type: graphql.String},
			"bias":                 &graphql.Field{Type: graphql.String},
			"riskWeighting":        &graphql.Field{Type: graphql.Float},
			"opportunityWeighting": &graphql.Field{Type: graphql.Float},
			"analysisDepth":        &graphql.Field{Type: graphql.Int},
			"defaultUniverseCount": &graphql.Field{Type: graphql.Int},
			"confidenceAdjustment": &graphql.Field{Type: graphql.Float},
			"industryModifiers":    &graphql.Field{Type: modifiersType},
			"constraints":          &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	industryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "IndustryBenchmark",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"label":                &graphql.Field{Type: graphql.String},
			"baselineChurnRate":    &graphql.Field{Type: graphql.Float},
			"growthVolatility":     &graphql.Field{Type: graphql.Float},
			"regulatoryRisk":       &graphql.Field{Type: graphql.Float},
			"competitiveIntensity": &graphql.Field{Type: graphql.Float},
			"dataReliability":      &graphql.Field{Type: graphql.Float},
			"forecastAccuracy":     &graphql.Field{Type: graphql.Float},
			"cascadeModifier":      &graphql.Field{Type: graphql.Float},
		},
	})

	return modeType, industryType
}
