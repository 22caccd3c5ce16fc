package change

import "regexp"

// Validation limits for inbound change requests.
var (
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000
	MaxAffectedAssets    = 50
	MaxConstraints       = 20

	assetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
	typePattern    = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Request is a free-form change request as it arrives over the wire.
// Nothing here is trusted until Normalize has run.
type Request struct {
	Type            string   `json:"type" validate:"omitempty,max=50"`
	Title           string   `json:"title" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required,max=4000"`
	AffectedAssets  []string `json:"affected_assets" validate:"required,min=1,max=50"`
	ExpectedBenefit string   `json:"expected_benefit" validate:"omitempty,max=2000"`
	Constraints     []string `json:"constraints" validate:"omitempty,max=20,dive,max=200"`
}

// Specification is the canonical, validated form of a change request.
// It is created once per analysis and never mutated afterwards.
type Specification struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	AffectedAssets  []string `json:"affected_assets"`
	ExpectedBenefit string   `json:"expected_benefit,omitempty"`
	Constraints     []string `json:"constraints,omitempty"`
}
