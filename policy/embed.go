// Package policy carries the built-in publish policy and configuration
// schema.
package policy

import _ "embed"

// DefaultPublishPolicy is the Rego module used when no policy file is
// configured.
//
//go:embed rego/publish.rego
var DefaultPublishPolicy []byte

// DefaultQuery selects the response document of DefaultPublishPolicy.
const DefaultQuery = "data.release.response"
