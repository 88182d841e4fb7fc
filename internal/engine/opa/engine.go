package opa

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// OpaPolicyBundle is a concrete implementation of gate.PolicyBundle for OPA policies
type OpaPolicyBundle struct {
	BundleID      string
	PreparedQuery rego.PreparedEvalQuery
}

var _ gate.PolicyBundle = (*OpaPolicyBundle)(nil)

// ID implements gate.PolicyBundle
func (b *OpaPolicyBundle) ID() string {
	return b.BundleID
}

// Engine implements gate.PolicyEngine using OPA
type Engine struct{}

var _ gate.PolicyEngine = (*Engine)(nil)

// NewEngine creates a new OPA policy engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate implements gate.PolicyEngine
func (e *Engine) Evaluate(ctx context.Context, policy gate.PolicyBundle, input gate.PolicyInput) (gate.Verdict, error) {
	opaBundle, ok := policy.(*OpaPolicyBundle)
	if !ok {
		return gate.Verdict{}, fmt.Errorf("%w: invalid policy bundle type: %T", gate.ErrPolicyEvaluation, policy)
	}

	resultSet, err := opaBundle.PreparedQuery.Eval(ctx, rego.EvalInput(input.Map()))
	if err != nil {
		return gate.Verdict{}, fmt.Errorf("%w: evaluation failed: %v", gate.ErrPolicyEvaluation, err)
	}

	// Default deny if we can't interpret the results correctly
	verdict := gate.Verdict{Allow: false}

	// We expect the policy to define an "allow" boolean and "deny_reasons" array
	if len(resultSet) == 0 || len(resultSet[0].Expressions) == 0 {
		return gate.Verdict{}, fmt.Errorf("%w: policy result set is empty or malformed", gate.ErrPolicyEvaluation)
	}

	result, ok := resultSet[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return gate.Verdict{}, fmt.Errorf("%w: unexpected result format", gate.ErrPolicyEvaluation)
	}

	if allow, ok := result["allow"].(bool); ok {
		verdict.Allow = allow
	}

	// Deny reasons only matter for a denial
	if !verdict.Allow {
		if reasons, ok := result["deny_reasons"].([]interface{}); ok {
			for _, r := range reasons {
				if reason, ok := r.(string); ok {
					verdict.DenyReasons = append(verdict.DenyReasons, reason)
				}
			}
		}
	}

	return verdict, nil
}
