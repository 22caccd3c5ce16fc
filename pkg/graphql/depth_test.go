package graphql

import (
	"context"
	"strings"
	"testing"
)

// TestValidateQueryDepth tests depth calculation across query shapes
func TestValidateQueryDepth(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		maxDepth int
		wantErr  bool
	}{
		{
			name:     "flat query within limit",
			query:    `{ health }`,
			maxDepth: 1,
			wantErr:  false,
		},
		{
			name:     "one level of nesting at limit",
			query:    `{ nodes { id } }`,
			maxDepth: 2,
			wantErr:  false,
		},
		{
			name:     "one level of nesting over limit",
			query:    `{ nodes { id } }`,
			maxDepth: 1,
			wantErr:  true,
		},
		{
			name:     "recursive traversal over limit",
			query:    `{ node(id: "x") { downstream { node { downstream { node { id } } } } } }`,
			maxDepth: 4,
			wantErr:  true,
		},
		{
			name:     "recursive traversal within limit",
			query:    `{ node(id: "x") { downstream { node { id } } } }`,
			maxDepth: 4,
			wantErr:  false,
		},
		{
			name:     "introspection fields are not counted",
			query:    `{ __schema { types { name } } }`,
			maxDepth: 1,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryDepth(tt.query, tt.maxDepth)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQueryDepth() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateQueryDepthParseError tests that unparseable queries are rejected
func TestValidateQueryDepthParseError(t *testing.T) {
	err := ValidateQueryDepth(`{ nodes { id `, 5)
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
}

// TestExecuteWithDepthLimitShallow tests that allowed queries execute
func TestExecuteWithDepthLimitShallow(t *testing.T) {
	eng := newTestEngine(t)
	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteWithDepthLimit(context.Background(), schema, `{ nodes { id } }`, 5, nil)
	if result.HasErrors() {
		t.Fatalf("Expected shallow query to succeed, got errors: %v", result.Errors)
	}
}

// TestExecuteWithDepthLimitDeep tests that deep queries are rejected
func TestExecuteWithDepthLimitDeep(t *testing.T) {
	eng := newTestEngine(t)
	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	query := `{ node(id: "payments-api") { downstream { node { downstream { node { id } } } } } }`

	result := ExecuteWithDepthLimit(context.Background(), schema, query, 3, nil)
	if !result.HasErrors() {
		t.Fatal("Expected deep query to be rejected, but it succeeded")
	}

	errorMsg := result.Errors[0].Message
	if !strings.Contains(strings.ToLower(errorMsg), "depth") {
		t.Errorf("Expected error message to mention depth, got: %s", errorMsg)
	}
}

// TestExecuteWithDepthLimitVariables tests variable passing through the
// depth-limited path
func TestExecuteWithDepthLimitVariables(t *testing.T) {
	eng := newTestEngine(t)
	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	query := `query GetNode($id: ID!) { node(id: $id) { id name } }`
	variables := map[string]any{"id": "auth-service"}

	result := ExecuteWithDepthLimit(context.Background(), schema, query, 5, variables)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	node := data["node"].(map[string]any)
	if node["id"] != "auth-service" {
		t.Errorf("node id = %v, want auth-service", node["id"])
	}
}
