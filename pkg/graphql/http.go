package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request envelope.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse is the response envelope. Execution errors ride in
// Errors with a 200 status; only transport problems change the code.
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError carries one error message to the client.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLHandler serves queries over HTTP POST. CORS and preflight are
// handled by the surrounding middleware chain, not here.
type GraphQLHandler struct {
	schema   graphql.Schema
	maxDepth int
}

// NewGraphQLHandler creates a new GraphQL HTTP handler. A maxDepth of
// zero or less falls back to DefaultMaxDepth.
func NewGraphQLHandler(schema graphql.Schema, maxDepth int) *GraphQLHandler {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &GraphQLHandler{
		schema:   schema,
		maxDepth: maxDepth,
	}
}

func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}

	// Execute with the request's context so cancelled clients stop
	// resolver work.
	result := ExecuteWithDepthLimit(r.Context(), h.schema, req.Query, h.maxDepth, req.Variables)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GraphQLResponse{
		Data:   result.Data,
		Errors: resultErrors(result),
	})
}

// resultErrors flattens execution errors into the response envelope.
func resultErrors(result *graphql.Result) []GraphQLError {
	if !result.HasErrors() {
		return nil
	}
	errs := make([]GraphQLError, len(result.Errors))
	for i, e := range result.Errors {
		errs[i] = GraphQLError{Message: e.Message}
	}
	return errs
}
