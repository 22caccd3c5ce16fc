package change

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// NodeChecker answers whether a node ID exists in the current graph
// snapshot. Satisfied by *graph.Snapshot.
type NodeChecker interface {
	HasNode(id string) bool
}

// Normalizer turns raw change requests into canonical Specifications.
type Normalizer struct {
	logger logging.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Normalizer{logger: logger}
}

// Normalize validates a request against the current graph and produces a
// canonical Specification. It returns a ValidationError naming every
// violation; required fields are never defaulted.
func (n *Normalizer) Normalize(req *Request, nodes NodeChecker) (*Specification, error) {
	verr := &ValidationError{}
	if req == nil {
		verr.add("request", "request body is required")
		return nil, verr
	}

	trimmed := &Request{
		Type:            strings.TrimSpace(req.Type),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		AffectedAssets:  trimAll(req.AffectedAssets),
		ExpectedBenefit: strings.TrimSpace(req.ExpectedBenefit),
		Constraints:     trimAll(req.Constraints),
	}

	if err := validate.Struct(trimmed); err != nil {
		collectValidationErrors(verr, err)
	}

	spec := &Specification{
		Type:            canonicalType(trimmed.Type),
		Title:           trimmed.Title,
		Description:     trimmed.Description,
		ExpectedBenefit: trimmed.ExpectedBenefit,
		Constraints:     dedupe(trimmed.Constraints),
	}

	if trimmed.Type != "" && !typePattern.MatchString(spec.Type) {
		verr.add("type", "'%s' contains invalid characters (only lowercase alphanumeric and underscore allowed)", req.Type)
	}

	spec.AffectedAssets = n.checkAssets(trimmed.AffectedAssets, nodes, verr)

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return spec, nil
}

// checkAssets dedupes asset IDs and verifies each is well formed. At least
// one asset must exist in the graph; IDs that are well formed but absent
// are kept as declared nodes and logged.
func (n *Normalizer) checkAssets(assets []string, nodes NodeChecker, verr *ValidationError) []string {
	out := dedupe(assets)
	if len(out) == 0 {
		// The struct tags already reported the empty list.
		return out
	}

	anyKnown := false
	for _, id := range out {
		if !assetIDPattern.MatchString(id) {
			verr.add("affected_assets", "asset id '%s' is invalid (must start alphanumeric, then alphanumeric, underscore, dot or hyphen)", id)
			continue
		}
		if nodes != nil && nodes.HasNode(id) {
			anyKnown = true
		} else {
			n.logger.Debug("affected asset not in graph, keeping as declared node",
				logging.NodeID(id))
		}
	}
	if nodes != nil && !anyKnown {
		verr.add("affected_assets", "none of the affected assets exist in the loaded graph")
	}
	return out
}

// canonicalType lowercases a change type and folds separators to
// underscores. An empty type canonicalizes to "general".
func canonicalType(t string) string {
	if t == "" {
		return "general"
	}
	t = strings.ToLower(t)
	t = strings.ReplaceAll(t, " ", "_")
	t = strings.ReplaceAll(t, "-", "_")
	return t
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// collectValidationErrors converts validator errors to field errors,
// keeping every violation rather than the first.
func collectValidationErrors(verr *ValidationError, err error) {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("request", "%v", err)
		return
	}

	for _, e := range validationErrs {
		field := jsonFieldName(e.Field())
		switch e.Tag() {
		case "required":
			verr.add(field, "field is required")
		case "min":
			verr.add(field, "must have at least %s entries", e.Param())
		case "max":
			verr.add(field, "must not exceed %s", e.Param())
		default:
			verr.add(field, "validation failed (%s)", e.Tag())
		}
	}
}

// jsonFieldName maps Go struct field names to their wire names so errors
// reference what the caller actually sent.
func jsonFieldName(field string) string {
	switch field {
	case "Type":
		return "type"
	case "Title":
		return "title"
	case "Description":
		return "description"
	case "AffectedAssets":
		return "affected_assets"
	case "ExpectedBenefit":
		return "expected_benefit"
	case "Constraints":
		return "constraints"
	default:
		return field
	}
}
