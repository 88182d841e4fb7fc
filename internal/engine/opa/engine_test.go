package opa

import (
	"context"
	"testing"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/release_gate/pkg/gate"
	"github.com/asimihsan/release_gate/policy"
)

// Use a struct that doesn't implement gate.PolicyBundle correctly
type InvalidBundle struct{}

func (b InvalidBundle) ID() string { return "invalid" }

// Helper to create a test policy bundle
func createTestBundle(t *testing.T, module string, query string) *OpaPolicyBundle {
	t.Helper()

	compiler, err := ast.CompileModules(map[string]string{
		"test.rego": module,
	})
	require.NoError(t, err, "compiling test policy")

	pq, err := rego.New(
		rego.Query(query),
		rego.Compiler(compiler),
	).PrepareForEval(context.Background())
	require.NoError(t, err, "preparing query")

	return &OpaPolicyBundle{
		BundleID:      "test-bundle",
		PreparedQuery: pq,
	}
}

func TestEngine_DefaultPolicy(t *testing.T) {
	bundle := createTestBundle(t, string(policy.DefaultPublishPolicy), policy.DefaultQuery)
	engine := NewEngine()

	tests := []struct {
		name        string
		input       gate.PolicyInput
		wantAllow   bool
		wantReasons []string
	}{
		{
			name:      "valid version",
			input:     gate.PolicyInput{ShouldBuild: true, Version: "0.1.3-beta", PreviousVersion: "0.1.2-beta", Tags: []string{"latest", "0.1.3-beta"}},
			wantAllow: true,
		},
		{
			name:        "empty version",
			input:       gate.PolicyInput{ShouldBuild: true, Version: "", PreviousVersion: "1.0.0", Tags: []string{"latest"}},
			wantAllow:   false,
			wantReasons: []string{"resolved version is empty"},
		},
		{
			name:        "version with invalid tag characters",
			input:       gate.PolicyInput{ShouldBuild: true, Version: "1.0.0+build.7"},
			wantAllow:   false,
			wantReasons: []string{`version "1.0.0+build.7" is not a valid image tag`},
		},
		{
			name:        "leading dot",
			input:       gate.PolicyInput{ShouldBuild: true, Version: ".1"},
			wantAllow:   false,
			wantReasons: []string{`version ".1" is not a valid image tag`},
		},
		{
			name:        "latest is reserved",
			input:       gate.PolicyInput{ShouldBuild: true, Version: "latest"},
			wantAllow:   false,
			wantReasons: []string{"version is reserved for the latest tag"},
		},
		{
			name:      "nothing to build",
			input:     gate.PolicyInput{ShouldBuild: false, Version: ""},
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := engine.Evaluate(context.Background(), bundle, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllow, verdict.Allow)
			assert.Equal(t, tt.wantReasons, verdict.DenyReasons)
		})
	}
}

func TestEngine(t *testing.T) {
	t.Run("Invalid policy bundle", func(t *testing.T) {
		engine := NewEngine()

		_, err := engine.Evaluate(context.Background(), InvalidBundle{}, gate.PolicyInput{})
		require.Error(t, err)
		assert.True(t, gate.IsWrappingError(err, gate.ErrPolicyEvaluation))
	})

	t.Run("Malformed policy result", func(t *testing.T) {
		badPolicy := `
		package test

		response := "not a proper response object"
		`
		engine := NewEngine()
		bundle := createTestBundle(t, badPolicy, "data.test.response")

		_, err := engine.Evaluate(context.Background(), bundle, gate.PolicyInput{ShouldBuild: true})
		require.Error(t, err)
		assert.True(t, gate.IsWrappingError(err, gate.ErrPolicyEvaluation))
	})

	t.Run("Undefined query", func(t *testing.T) {
		engine := NewEngine()
		bundle := createTestBundle(t, "package test\n\nx := 1\n", "data.test.response")

		_, err := engine.Evaluate(context.Background(), bundle, gate.PolicyInput{})
		assert.True(t, gate.IsWrappingError(err, gate.ErrPolicyEvaluation))
	})
}
