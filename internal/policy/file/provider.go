package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/asimihsan/release_gate/internal/engine/opa"
	"github.com/asimihsan/release_gate/pkg/gate"
	"github.com/asimihsan/release_gate/policy"
)

// Provider implements gate.PolicyProvider for file-based policy files
type Provider struct {
	PolicyPath string // empty => built-in publish policy
	Query      string // e.g., "data.release.response"

	mu sync.Mutex
	// caches the loaded bundle to avoid reloading/recompiling every time
	cachedBundle gate.PolicyBundle
}

var _ gate.PolicyProvider = (*Provider)(nil)

// New creates a new file-based policy provider
func New(policyPath, query string) *Provider {
	if query == "" {
		query = policy.DefaultQuery
	}
	return &Provider{
		PolicyPath: policyPath,
		Query:      query,
	}
}

// GetPolicyBundle implements gate.PolicyProvider
func (p *Provider) GetPolicyBundle(ctx context.Context) (gate.PolicyBundle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Basic caching to avoid reloading if already loaded
	if p.cachedBundle != nil {
		return p.cachedBundle, nil
	}

	moduleName := "publish.rego"
	policyBytes := policy.DefaultPublishPolicy
	if p.PolicyPath != "" {
		var err error
		policyBytes, err = os.ReadFile(p.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading policy file %s: %v", gate.ErrPolicyLoad, p.PolicyPath, err)
		}
		moduleName = filepath.Base(p.PolicyPath)
	}

	compiler, err := ast.CompileModules(map[string]string{
		moduleName: string(policyBytes),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compiling policy module %s: %v", gate.ErrPolicyLoad, moduleName, err)
	}

	r := rego.New(
		rego.Query(p.Query),
		rego.Compiler(compiler),
	)

	pq, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: preparing policy query '%s': %v", gate.ErrPolicyLoad, p.Query, err)
	}

	// SHA256 of the policy source identifies the bundle in audit records
	hash := sha256.Sum256(policyBytes)

	bundle := &opa.OpaPolicyBundle{
		BundleID:      hex.EncodeToString(hash[:]),
		PreparedQuery: pq,
	}
	p.cachedBundle = bundle

	return bundle, nil
}
