package gate

import "context"

// PolicyBundle holds the compiled policy and metadata.
type PolicyBundle interface {
	ID() string // e.g., SHA of the bundle content
}

// PolicyProvider retrieves PolicyBundles.
type PolicyProvider interface {
	// GetPolicyBundle fetches the current policy bundle.
	// Should return ErrPolicyLoad on failure.
	GetPolicyBundle(ctx context.Context) (PolicyBundle, error)
}

// PolicyEngine evaluates a publish request against a policy.
type PolicyEngine interface {
	// Evaluate runs the policy against the input.
	// Must return ErrPolicyEvaluation if the evaluation itself fails.
	Evaluate(ctx context.Context, policy PolicyBundle, input PolicyInput) (Verdict, error)
}

// PolicyInput is the document handed to the publish policy.
type PolicyInput struct {
	ShouldBuild     bool     `json:"should_build"`
	Version         string   `json:"version"`
	PreviousVersion string   `json:"previous_version"`
	Tags            []string `json:"tags"`
}

// Map converts the input into the generic form expected by policy engines.
func (in PolicyInput) Map() map[string]any {
	tags := make([]any, len(in.Tags))
	for i, t := range in.Tags {
		tags[i] = t
	}
	return map[string]any{
		"should_build":     in.ShouldBuild,
		"version":          in.Version,
		"previous_version": in.PreviousVersion,
		"tags":             tags,
	}
}
